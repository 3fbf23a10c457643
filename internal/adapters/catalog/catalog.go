// Package catalog loads the accident classification standard from YAML and
// resolves the opaque references stored on cause nodes.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/fta/internal/ports/secondary"
)

//go:embed default.yaml
var defaultCatalog []byte

type fileFormat struct {
	Standard string      `yaml:"standard"`
	Groups   []fileGroup `yaml:"groups"`
}

type fileGroup struct {
	Name    string      `yaml:"name"`
	Entries []fileEntry `yaml:"entries"`
}

type fileEntry struct {
	Ref         string `yaml:"ref"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Catalog is an immutable, in-memory classification catalog.
type Catalog struct {
	standard string
	entries  []secondary.ClassificationEntry
	byRef    map[string]int
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog YAML. Every entry needs a ref and a code, and refs
// must be unique across groups.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		standard: strings.TrimSpace(f.Standard),
		byRef:    make(map[string]int),
	}
	for _, g := range f.Groups {
		for _, e := range g.Entries {
			ref := strings.TrimSpace(e.Ref)
			code := strings.TrimSpace(e.Code)
			if ref == "" {
				return nil, fmt.Errorf("group %q has an entry without a ref", g.Name)
			}
			if code == "" {
				return nil, fmt.Errorf("entry %s has no code", ref)
			}
			if _, dup := c.byRef[ref]; dup {
				return nil, fmt.Errorf("duplicate ref %s", ref)
			}
			c.byRef[ref] = len(c.entries)
			c.entries = append(c.entries, secondary.ClassificationEntry{
				Ref:         ref,
				Code:        code,
				Description: strings.TrimSpace(e.Description),
				Group:       strings.TrimSpace(g.Name),
			})
		}
	}
	return c, nil
}

// Standard returns the catalog's declared standard name.
func (c *Catalog) Standard() string {
	return c.standard
}

// Resolve returns the code and description for a reference.
func (c *Catalog) Resolve(ref string) (code, description string, ok bool) {
	i, ok := c.byRef[ref]
	if !ok {
		return "", "", false
	}
	e := c.entries[i]
	return e.Code, e.Description, true
}

// List returns every entry in file order.
func (c *Catalog) List() []secondary.ClassificationEntry {
	out := make([]secondary.ClassificationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

var _ secondary.ClassificationCatalog = (*Catalog)(nil)
