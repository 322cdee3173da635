package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the on-disk / on-wire shape of a catalog payload.
type document struct {
	Components []Descriptor `json:"components" yaml:"components"`
}

// FromFile loads a catalog from a file, auto-detecting format by
// extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension: %s", ext)
	}
}

// FromYAML parses a YAML catalog document.
func FromYAML(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	c := New()
	c.RegisterMany(doc.Components)
	return c, nil
}

// FromJSON parses a JSON catalog document, the shape the backend
// serves at session start.
func FromJSON(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog json: %w", err)
	}
	c := New()
	c.RegisterMany(doc.Components)
	return c, nil
}
