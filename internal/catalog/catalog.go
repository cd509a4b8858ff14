// Package catalog holds the static set of node types the editor offers.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category groups node types in the editor palette.
type Category string

const (
	CategoryTrigger   Category = "trigger"
	CategoryAction    Category = "action"
	CategoryTransform Category = "transform"
)

// FieldKind describes how a config field is interpreted.
type FieldKind string

const (
	KindString     FieldKind = "string"
	KindNumber     FieldKind = "number"
	KindBool       FieldKind = "bool"
	KindObject     FieldKind = "object"
	KindCron       FieldKind = "cron"
	KindExpression FieldKind = "expression"
)

// Field is a single configurable property of a node type.
type Field struct {
	Name     string      `yaml:"name" json:"name"`
	Kind     FieldKind   `yaml:"kind" json:"kind"`
	Required bool        `yaml:"required" json:"required"`
	Default  interface{} `yaml:"default,omitempty" json:"default,omitempty"`
}

// NodeType is an entry in the catalog.
type NodeType struct {
	Type        string   `yaml:"type" json:"type"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description" json:"description"`
	Category    Category `yaml:"category" json:"category"`
	Icon        string   `yaml:"icon" json:"icon"`
	Fields      []Field  `yaml:"fields,omitempty" json:"fields"`
}

// Catalog is a read-only, ordered set of node types.
type Catalog struct {
	types  []NodeType
	byType map[string]int
}

//go:embed catalog.yaml
var builtin []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtin)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from a YAML list of node types.
func Parse(data []byte) (*Catalog, error) {
	var types []NodeType
	if err := yaml.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{byType: make(map[string]int, len(types))}
	for _, t := range types {
		if t.Type == "" {
			return nil, fmt.Errorf("catalog entry %q has no type", t.Label)
		}
		switch t.Category {
		case CategoryTrigger, CategoryAction, CategoryTransform:
		default:
			return nil, fmt.Errorf("catalog entry %q has unknown category %q", t.Type, t.Category)
		}
		if _, dup := c.byType[t.Type]; dup {
			return nil, fmt.Errorf("catalog entry %q is duplicated", t.Type)
		}
		if t.Fields == nil {
			t.Fields = []Field{}
		}
		c.byType[t.Type] = len(c.types)
		c.types = append(c.types, t)
	}
	return c, nil
}

// List returns every node type in catalog order.
func (c *Catalog) List() []NodeType {
	return append([]NodeType(nil), c.types...)
}

// Get looks up a node type by name.
func (c *Catalog) Get(nodeType string) (NodeType, bool) {
	i, ok := c.byType[nodeType]
	if !ok {
		return NodeType{}, false
	}
	return c.types[i], true
}

// ByCategory returns the node types in one category, in catalog order.
func (c *Catalog) ByCategory(category Category) []NodeType {
	out := []NodeType{}
	for _, t := range c.types {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
