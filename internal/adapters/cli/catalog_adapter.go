package cli

import (
	"fmt"
	"io"

	"github.com/example/fta/internal/ports/secondary"
)

// CatalogAdapter prints the classification catalog.
type CatalogAdapter struct {
	catalog secondary.ClassificationCatalog
	out     io.Writer
}

// NewCatalogAdapter creates a new CatalogAdapter.
func NewCatalogAdapter(catalog secondary.ClassificationCatalog, out io.Writer) *CatalogAdapter {
	return &CatalogAdapter{catalog: catalog, out: out}
}

// List prints every entry grouped in catalog order.
func (a *CatalogAdapter) List() {
	entries := a.catalog.List()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Catalog is empty")
		return
	}

	group := ""
	for i, e := range entries {
		if i == 0 || e.Group != group {
			group = e.Group
			fmt.Fprintf(a.out, "\n%s\n", group)
		}
		fmt.Fprintf(a.out, "  %-10s %-6s %s\n", e.Ref, e.Code, e.Description)
	}
	fmt.Fprintln(a.out)
}
