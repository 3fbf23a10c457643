package faulttree

import "fmt"

// Code prefixes.
const (
	PrefixBasicCause        = "CB"
	PrefixContributingCause = "CC"
	PrefixHypothesis        = "H"
)

// Codes maps node id to its display code. Nodes without a code are absent.
type Codes map[string]string

// counters are shared across the whole tree for one numbering pass.
type counters struct {
	basic        int
	contributing int
	hypothesis   int
}

// Number assigns display codes to every non-root node in a single
// depth-first pre-order pass over the built tree. Codes depend on traversal
// order and are recomputed on every read; they are never persisted.
//
// Rules, first match wins:
//  1. basic cause (validated)          -> CB<n>
//  2. contributing cause (validated)   -> CC<n>
//  3. hypothesis                       -> H<n>
//  4. fact with children               -> H<n>
//  5. validated/discarded with children -> H<n>
//  6. pending or discarded             -> H<n>
//  7. otherwise (validated leaf fact)  -> no code
func Number(root *TreeNode) Codes {
	codes := make(Codes)
	if root == nil {
		return codes
	}

	var c counters
	var visit func(n *TreeNode)
	visit = func(n *TreeNode) {
		if code, ok := c.next(n); ok {
			codes[n.ID] = code
		}
		for _, child := range n.Children {
			visit(child)
		}
	}
	for _, child := range root.Children {
		visit(child)
	}
	return codes
}

func (c *counters) next(n *TreeNode) (string, bool) {
	switch n.EffectiveRole() {
	case RoleBasic:
		c.basic++
		return fmt.Sprintf("%s%d", PrefixBasicCause, c.basic), true
	case RoleContributing:
		c.contributing++
		return fmt.Sprintf("%s%d", PrefixContributingCause, c.contributing), true
	}

	switch {
	case n.Kind == KindHypothesis,
		n.Kind == KindFact && n.HasChildren(),
		n.Status.Terminal() && n.HasChildren(),
		n.Status == StatusPending || n.Status == StatusDiscarded:
		c.hypothesis++
		return fmt.Sprintf("%s%d", PrefixHypothesis, c.hypothesis), true
	}
	return "", false
}

// Annotate writes codes onto the tree in place. Nodes absent from codes get
// an empty code.
func Annotate(root *TreeNode, codes Codes) {
	Walk(root, func(n *TreeNode, _ int) bool {
		n.Code = codes[n.ID]
		return true
	})
}

// BuildNumbered is Build followed by Number and Annotate: the single entry
// point every renderer, report and validation view should use.
func BuildNumbered(investigationID string, nodes []Node, resolve Resolver) (*TreeNode, Codes, error) {
	root, err := Build(investigationID, nodes, resolve)
	if err != nil {
		return nil, nil, err
	}
	codes := Number(root)
	Annotate(root, codes)
	return root, codes, nil
}
