package faulttree

// Move directions accepted by MoveNode.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// AdjacentSibling returns the sibling immediately before (up) or after
// (down) id in sibling order. ok is false when id is unknown, is the
// root, or is already at that end of its sibling list.
func AdjacentSibling(nodes []Node, id, direction string) (Node, bool) {
	a := newArena(nodes)
	n, exists := a.byID[id]
	if !exists || n.IsRoot() {
		return Node{}, false
	}
	siblings := a.children[n.ParentID]
	for i, s := range siblings {
		if s.ID != id {
			continue
		}
		switch {
		case direction == MoveUp && i > 0:
			return siblings[i-1], true
		case direction == MoveDown && i < len(siblings)-1:
			return siblings[i+1], true
		}
		return Node{}, false
	}
	return Node{}, false
}

// RootOf returns the root node of a snapshot, if there is exactly one.
func RootOf(nodes []Node) (Node, bool) {
	var found Node
	count := 0
	for _, n := range nodes {
		if n.IsRoot() {
			found = n
			count++
		}
	}
	return found, count == 1
}

// FindNode looks up id in a snapshot.
func FindNode(nodes []Node, id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
