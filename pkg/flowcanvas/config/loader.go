package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the editor settings the canvas core consumes.
type Settings struct {
	// AutosaveDelay is the debounce window for persistence writes.
	AutosaveDelay time.Duration

	// StorePath is the SQLite file backing the project store.
	// Empty selects the in-memory store.
	StorePath string

	// DefaultProjectName names the project created on first launch.
	DefaultProjectName string

	// LayoutDirection orients auto-layout passes ("LR" or "TB").
	LayoutDirection string
}

// Defaults for unset settings.
const (
	defaultAutosaveDelay   = 500 * time.Millisecond
	defaultProjectName     = "Untitled Project"
	defaultLayoutDirection = "LR"
)

// FromFile loads configuration from a file, auto-detecting format by
// extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// LoadSettings extracts typed settings from a Config, applying
// defaults for anything unset.
func LoadSettings(c Config) Settings {
	return Settings{
		AutosaveDelay:      c.Duration("autosave_delay", defaultAutosaveDelay),
		StorePath:          c.String("store_path", ""),
		DefaultProjectName: c.String("default_project_name", defaultProjectName),
		LayoutDirection:    c.String("layout_direction", defaultLayoutDirection),
	}
}

// SettingsFromFile is a convenience that loads a file and extracts
// settings in one step. A missing file yields pure defaults.
func SettingsFromFile(path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadSettings(New(nil)), nil
		}
		return Settings{}, err
	}
	return LoadSettings(c), nil
}
