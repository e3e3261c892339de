// Package prompt builds the chat messages sent to the model: a fixed system
// prompt listing the pre-styled components the generated code may import,
// followed by the user's request.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	// ErrInvalidCatalog is returned when a catalog document fails validation.
	ErrInvalidCatalog = errors.New("invalid component catalog")
)

// Component documents one pre-styled component available to generated code.
type Component struct {
	Name       string `yaml:"name" json:"name"`
	ImportDocs string `yaml:"import_docs" json:"import_docs"`
	UsageDocs  string `yaml:"usage_docs" json:"usage_docs"`
}

// Catalog is the ordered set of components offered in the system prompt.
type Catalog struct {
	Components []Component `yaml:"components" json:"components"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog YAML file. An empty path returns the built-in
// catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document. Every component
// needs a unique, non-blank name and import docs.
func ParseCatalog(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Components))
	for i, comp := range c.Components {
		name := strings.TrimSpace(comp.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: component %d has no name", ErrInvalidCatalog, i)
		case seen[name]:
			return nil, fmt.Errorf("%w: duplicate component %q", ErrInvalidCatalog, name)
		case strings.TrimSpace(comp.ImportDocs) == "":
			return nil, fmt.Errorf("%w: component %q has no import docs", ErrInvalidCatalog, name)
		}
		seen[name] = true
		c.Components[i].Name = name
	}

	return c, nil
}

// Names returns the component names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Components))
	for _, comp := range c.Components {
		names = append(names, comp.Name)
	}
	return names
}

// Markdown renders the catalog as a markdown document for terminal display.
func (c *Catalog) Markdown() string {
	var b strings.Builder
	b.WriteString("# Components\n")

	if len(c.Components) == 0 {
		b.WriteString("\nNo components in catalog.\n")
		return b.String()
	}

	for _, comp := range c.Components {
		fmt.Fprintf(&b, "\n## %s\n\n", comp.Name)
		fmt.Fprintf(&b, "```tsx\n%s\n```\n\n", strings.TrimSpace(comp.ImportDocs))
		if usage := strings.TrimSpace(comp.UsageDocs); usage != "" {
			fmt.Fprintf(&b, "```tsx\n%s\n```\n", usage)
		}
	}

	return b.String()
}
