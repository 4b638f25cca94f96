package scene

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Catalog is the set of templates available to a deployment.
type Catalog struct {
	Default  string
	variants map[string]*Template
}

type catalogFile struct {
	Default  string            `yaml:"default"`
	Variants map[string]string `yaml:"variants"`
}

// NewCatalog returns a catalog holding only the built-in variants.
func NewCatalog() *Catalog {
	c := &Catalog{
		Default:  VariantConsolidated,
		variants: make(map[string]*Template, len(builtins)),
	}
	for name, t := range builtins {
		c.variants[name] = t
	}
	return c
}

// LoadCatalog reads a YAML prompt file on top of the built-in variants.
// Variants in the file override built-ins with the same name.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("prompt file %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	for name, text := range f.Variants {
		t, err := NewTemplate(name, text)
		if err != nil {
			return err
		}
		c.variants[name] = t
	}

	if f.Default != "" {
		if _, ok := c.variants[f.Default]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVariant, f.Default)
		}
		c.Default = f.Default
	}
	return nil
}

// Get returns the named variant, or the catalog default when name is empty.
func (c *Catalog) Get(name string) (*Template, error) {
	if name == "" {
		name = c.Default
	}
	t, ok := c.variants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return t, nil
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.variants))
	for name := range c.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
