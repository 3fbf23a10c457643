package faulttree

// Classification is a resolved reference into the external standards
// catalog. Code and Description are empty when the catalog does not know
// the reference.
type Classification struct {
	Ref         string `json:"ref"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Resolver looks up a classification reference in the external catalog.
type Resolver func(ref string) (code, description string, ok bool)

// TreeNode is the nested output contract handed to renderers and report
// generators. Field names and nesting are part of that contract.
type TreeNode struct {
	ID                    string          `json:"id"`
	Label                 string          `json:"label"`
	Kind                  Kind            `json:"kind"`
	Status                Status          `json:"status"`
	Code                  string          `json:"code"`
	DisplayOrder          int             `json:"display_order"`
	IsBasicCause          bool            `json:"is_basic_cause"`
	IsContributingCause   bool            `json:"is_contributing_cause"`
	Classification        *Classification `json:"classification"`
	Justification         string          `json:"justification"`
	JustificationImageRef string          `json:"justification_image_ref"`
	Recommendation        string          `json:"recommendation"`
	Children              []*TreeNode     `json:"children"`
}

// EffectiveRole mirrors Node.EffectiveRole for a built node.
func (t *TreeNode) EffectiveRole() CauseRole {
	if t.Status != StatusValidated {
		return RoleNone
	}
	switch {
	case t.IsBasicCause:
		return RoleBasic
	case t.IsContributingCause:
		return RoleContributing
	}
	return RoleNone
}

// HasChildren reports whether the node has at least one child.
func (t *TreeNode) HasChildren() bool {
	return len(t.Children) > 0
}

// Build turns the flat node list of one investigation into a nested tree
// rooted at its unique root. It returns ErrNoRoot for an empty list and an
// *IntegrityError when the list does not form a single rooted tree; it never
// returns a best-effort tree.
//
// Children are ordered by (display_order, created_at, id). The classification
// resolver is consulted once per distinct reference; a nil resolver leaves
// references unresolved. Build does not mutate its input.
func Build(investigationID string, nodes []Node, resolve Resolver) (*TreeNode, error) {
	if err := CheckIntegrity(investigationID, nodes); err != nil {
		return nil, err
	}

	a := newArena(nodes)
	cache := make(map[string]*Classification)
	lookup := func(ref string) *Classification {
		if ref == "" {
			return nil
		}
		if c, ok := cache[ref]; ok {
			return c
		}
		c := &Classification{Ref: ref}
		if resolve != nil {
			if code, desc, ok := resolve(ref); ok {
				c.Code = code
				c.Description = desc
			}
		}
		cache[ref] = c
		return c
	}

	var build func(n Node) *TreeNode
	build = func(n Node) *TreeNode {
		t := &TreeNode{
			ID:                    n.ID,
			Label:                 n.Label,
			Kind:                  n.Kind,
			Status:                n.Status,
			DisplayOrder:          n.DisplayOrder,
			IsBasicCause:          n.IsBasicCause(),
			IsContributingCause:   n.IsContributingCause(),
			Classification:        lookup(n.ClassificationRef),
			Justification:         n.Justification,
			JustificationImageRef: n.JustificationImageRef,
			Recommendation:        n.Recommendation,
			Children:              make([]*TreeNode, 0, len(a.children[n.ID])),
		}
		for _, c := range a.children[n.ID] {
			t.Children = append(t.Children, build(c))
		}
		return t
	}

	return build(a.roots[0]), nil
}

// Walk visits t and its descendants in depth-first pre-order, children in
// their built order. Returning false from fn skips that node's subtree.
func Walk(t *TreeNode, fn func(n *TreeNode, depth int) bool) {
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t != nil {
		walk(t, 0)
	}
}

// Find returns the node with the given id, or nil.
func Find(t *TreeNode, id string) *TreeNode {
	var found *TreeNode
	Walk(t, func(n *TreeNode, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Size returns the number of nodes in the tree, root included.
func Size(t *TreeNode) int {
	count := 0
	Walk(t, func(*TreeNode, int) bool {
		count++
		return true
	})
	return count
}
