package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/primary"
)

// TreeRenderer writes a numbered cause tree as indented text or as the JSON
// output contract.
type TreeRenderer struct {
	out       io.Writer
	pending   *color.Color
	validated *color.Color
	discarded *color.Color
	code      *color.Color
	role      *color.Color
	detail    *color.Color
}

// NewTreeRenderer creates a renderer. With noColor set, output is plain text
// regardless of the terminal.
func NewTreeRenderer(out io.Writer, noColor bool) *TreeRenderer {
	r := &TreeRenderer{
		out:       out,
		pending:   color.New(color.FgYellow),
		validated: color.New(color.FgGreen),
		discarded: color.New(color.FgHiBlack, color.CrossedOut),
		code:      color.New(color.Bold),
		role:      color.New(color.FgRed, color.Bold),
		detail:    color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{r.pending, r.validated, r.discarded, r.code, r.role, r.detail} {
			c.DisableColor()
		}
	}
	return r
}

// RenderJSON writes the tree view as indented JSON.
func (r *TreeRenderer) RenderJSON(view *primary.TreeView) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// RenderText writes the tree with box-drawing branches, one cause per line.
func (r *TreeRenderer) RenderText(view *primary.TreeView) {
	root := view.Root
	fmt.Fprintf(r.out, "%s  %s\n", r.code.Sprint(view.InvestigationID), root.Label)
	for i, child := range root.Children {
		r.renderNode(child, "", i == len(root.Children)-1)
	}
}

func (r *TreeRenderer) renderNode(n *faulttree.TreeNode, prefix string, last bool) {
	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}

	var line strings.Builder
	line.WriteString(prefix)
	line.WriteString(branch)
	if n.Code != "" {
		line.WriteString(r.code.Sprint(n.Code))
		line.WriteString(" ")
	} else {
		line.WriteString("· ")
	}
	line.WriteString(r.statusColor(n.Status).Sprint(n.Label))
	line.WriteString(r.detail.Sprintf(" [%s %s]", n.Kind, n.Status))
	switch n.EffectiveRole() {
	case faulttree.RoleBasic:
		line.WriteString(r.role.Sprint(" basic cause"))
	case faulttree.RoleContributing:
		line.WriteString(r.role.Sprint(" contributing cause"))
	}
	if c := n.Classification; c != nil {
		if c.Code != "" {
			line.WriteString(r.detail.Sprintf(" <%s %s>", c.Code, c.Description))
		} else {
			line.WriteString(r.detail.Sprintf(" <%s unresolved>", c.Ref))
		}
	}
	fmt.Fprintln(r.out, line.String())

	childPrefix := prefix + indent
	if n.Justification != "" {
		fmt.Fprintf(r.out, "%s%s\n", childPrefix, r.detail.Sprintf("  justification: %s", n.Justification))
	}
	if n.JustificationImageRef != "" {
		fmt.Fprintf(r.out, "%s%s\n", childPrefix, r.detail.Sprintf("  evidence: %s", n.JustificationImageRef))
	}
	if n.Recommendation != "" {
		fmt.Fprintf(r.out, "%s%s\n", childPrefix, r.detail.Sprintf("  recommendation: %s", n.Recommendation))
	}
	for i, child := range n.Children {
		r.renderNode(child, childPrefix, i == len(n.Children)-1)
	}
}

func (r *TreeRenderer) statusColor(s faulttree.Status) *color.Color {
	switch s {
	case faulttree.StatusValidated:
		return r.validated
	case faulttree.StatusDiscarded:
		return r.discarded
	default:
		return r.pending
	}
}
