// Package catalog holds the read-only component catalog: descriptors
// for the agents, patterns, tools, and protocol servers a canvas can
// instantiate. The catalog is fetched from a backend at session start
// and refreshed after dynamic registration; the core treats a missing
// or stale descriptor as "unknown component", never as fatal.
package catalog

import "sync"

// ParamSpec describes one constructor parameter of a pattern.
// TypeHint is a coarse tag (list, dict, bool, int, float, agent-like,
// or plain string) used only to pick a default value shape.
type ParamSpec struct {
	TypeHint    string `json:"type_hint" yaml:"type_hint"`
	Default     string `json:"default" yaml:"default"`
	Description string `json:"description" yaml:"description"`
}

// DescriptorConfig carries category-specific descriptor defaults.
type DescriptorConfig struct {
	CanUseTools    bool     `json:"can_use_tools" yaml:"can_use_tools"`
	DefaultTools   []string `json:"default_tools" yaml:"default_tools"`
	StripThinkTags bool     `json:"strip_think_tags" yaml:"strip_think_tags"`
}

// Descriptor is one catalog entry describing a reusable component.
type Descriptor struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Category    string              `json:"component_category" yaml:"component_category"`
	Config      DescriptorConfig    `json:"config" yaml:"config"`

	// Params is the constructor parameter schema of a pattern.
	// Absent for other categories and may be absent for patterns.
	Params map[string]ParamSpec `json:"constructor_params_schema,omitempty" yaml:"constructor_params_schema,omitempty"`

	// HasDataOutput, when set on a tool, overrides the heuristic that
	// decides whether the tool exposes a data output handle.
	HasDataOutput *bool `json:"has_data_output,omitempty" yaml:"has_data_output,omitempty"`
}

// Catalog is a thread-safe descriptor index. Reads vastly outnumber
// writes (writes happen only on fetch/refresh), so it uses an RWMutex.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Descriptor)}
}

// Register adds or updates a descriptor.
func (c *Catalog) Register(d Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[d.ID] = d
}

// RegisterMany adds a batch of descriptors.
func (c *Catalog) RegisterMany(ds []Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range ds {
		c.entries[d.ID] = d
	}
}

// Replace swaps the full descriptor set, used when the backend
// re-sends the catalog after dynamic registration.
func (c *Catalog) Replace(ds []Descriptor) {
	entries := make(map[string]Descriptor, len(ds))
	for _, d := range ds {
		entries[d.ID] = d
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
}

// Resolve looks up a descriptor by catalog id. Absence is an expected
// condition, not an error: nodes referencing unknown components stay
// on the canvas but are treated as non-functional.
func (c *Catalog) Resolve(id string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[id]
	return d, ok
}

// Has reports whether a descriptor with the given id exists.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// IDs returns all descriptor ids in no particular order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	return ids
}

// ByCategory returns all descriptors with the given category tag.
func (c *Catalog) ByCategory(cat string) []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Descriptor
	for _, d := range c.entries {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
