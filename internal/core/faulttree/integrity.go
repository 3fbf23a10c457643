package faulttree

import (
	"sort"
)

// arena indexes a flat node snapshot by id and by parent id.
type arena struct {
	byID     map[string]Node
	children map[string][]Node // parent id -> children, sibling order
	roots    []Node
}

// newArena indexes nodes. Children lists are sorted by sibling order so
// every consumer walks them the same way.
func newArena(nodes []Node) *arena {
	a := &arena{
		byID:     make(map[string]Node, len(nodes)),
		children: make(map[string][]Node),
	}
	for _, n := range nodes {
		a.byID[n.ID] = n
		if n.IsRoot() {
			a.roots = append(a.roots, n)
			continue
		}
		a.children[n.ParentID] = append(a.children[n.ParentID], n)
	}
	for parent := range a.children {
		sortSiblings(a.children[parent])
	}
	sortSiblings(a.roots)
	return a
}

// sortSiblings orders by (display_order, created_at) and falls back to id so
// that two rows sharing both values still come out in a fixed order.
func sortSiblings(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// CheckIntegrity verifies the structural invariants of one investigation's
// node set. It returns ErrNoRoot for an empty set and an *IntegrityError
// when the set cannot form a single rooted tree.
func CheckIntegrity(investigationID string, nodes []Node) error {
	if len(nodes) == 0 {
		return ErrNoRoot
	}

	seen := make(map[string]bool, len(nodes))
	var dupes []string
	for _, n := range nodes {
		if seen[n.ID] {
			dupes = append(dupes, n.ID)
		}
		seen[n.ID] = true
	}
	if len(dupes) > 0 {
		return &IntegrityError{InvestigationID: investigationID, Problem: "duplicate node ids", NodeIDs: sortedIDs(dupes)}
	}

	a := newArena(nodes)
	switch len(a.roots) {
	case 0:
		return &IntegrityError{
			InvestigationID: investigationID,
			Problem:         "nodes exist but none is a root",
			NodeIDs:         idsOf(nodes),
		}
	case 1:
	default:
		return &IntegrityError{
			InvestigationID: investigationID,
			Problem:         "multiple root nodes",
			NodeIDs:         idsOf(a.roots),
		}
	}

	root := a.roots[0]
	if root.Kind != KindRoot {
		return &IntegrityError{
			InvestigationID: investigationID,
			Problem:         "parentless node is not of kind root",
			NodeIDs:         []string{root.ID},
		}
	}

	var misplaced, orphans []string
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		if n.Kind == KindRoot {
			misplaced = append(misplaced, n.ID)
		}
		if _, ok := a.byID[n.ParentID]; !ok {
			orphans = append(orphans, n.ID)
		}
	}
	if len(misplaced) > 0 {
		return &IntegrityError{InvestigationID: investigationID, Problem: "root-kind node has a parent", NodeIDs: sortedIDs(misplaced)}
	}
	if len(orphans) > 0 {
		return &IntegrityError{InvestigationID: investigationID, Problem: "orphaned nodes reference a missing parent", NodeIDs: sortedIDs(orphans)}
	}

	// Every parent exists, so anything unreachable from the root sits on a cycle.
	reached := a.reachable(root.ID)
	if len(reached) != len(nodes) {
		var cyclic []string
		for _, n := range nodes {
			if !reached[n.ID] {
				cyclic = append(cyclic, n.ID)
			}
		}
		return &IntegrityError{InvestigationID: investigationID, Problem: "cyclic parent references", NodeIDs: sortedIDs(cyclic)}
	}

	return nil
}

// reachable returns the set of ids reachable from id through child links,
// id included. Iterative so deep trees do not grow the stack.
func (a *arena) reachable(id string) map[string]bool {
	out := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range a.children[cur] {
			if out[c.ID] {
				continue
			}
			out[c.ID] = true
			stack = append(stack, c.ID)
		}
	}
	return out
}

// Descendants returns the ids of every node below id, in pre-order. The
// node itself is not included. Unknown ids yield nil.
func Descendants(nodes []Node, id string) []string {
	a := newArena(nodes)
	if _, ok := a.byID[id]; !ok {
		return nil
	}
	var out []string
	visited := map[string]bool{id: true}
	var walk func(string)
	walk = func(parent string) {
		for _, c := range a.children[parent] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			out = append(out, c.ID)
			walk(c.ID)
		}
	}
	walk(id)
	return out
}

// SubtreeClosure returns id followed by all of its descendants. This is
// exactly the set a cascading delete removes.
func SubtreeClosure(nodes []Node, id string) []string {
	for _, n := range nodes {
		if n.ID == id {
			return append([]string{id}, Descendants(nodes, id)...)
		}
	}
	return nil
}

// DuplicateSiblingOrders lists parent ids whose children share a
// display_order value. The builder tolerates this; it is reported so an
// operator can renumber.
func DuplicateSiblingOrders(nodes []Node) []string {
	type key struct {
		parent string
		order  int
	}
	count := make(map[key]int)
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		count[key{n.ParentID, n.DisplayOrder}]++
	}
	parents := make(map[string]bool)
	for k, c := range count {
		if c > 1 {
			parents[k.parent] = true
		}
	}
	out := make([]string, 0, len(parents))
	for p := range parents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// PathToRoot follows parent links from id up to the root and returns the
// ids visited, id first. The walk is bounded by the node count so a cycle
// cannot loop forever; ok is false if the root was not reached.
func PathToRoot(nodes []Node, id string) (path []string, ok bool) {
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	cur, exists := byID[id]
	if !exists {
		return nil, false
	}
	for i := 0; i <= len(nodes); i++ {
		path = append(path, cur.ID)
		if cur.IsRoot() {
			return path, true
		}
		next, exists := byID[cur.ParentID]
		if !exists {
			return path, false
		}
		cur = next
	}
	return path, false
}

func idsOf(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)
	return ids
}

func sortedIDs(ids []string) []string {
	sort.Strings(ids)
	return ids
}
