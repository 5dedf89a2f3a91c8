// Package config loads optional analysis settings from a .ccg.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up at the analysis root.
const DefaultFileName = ".ccg.yaml"

// Config holds analysis settings. Zero values defer to package defaults.
type Config struct {
	// Extensions restricts collection to these file extensions.
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs are directory names skipped anywhere in the tree,
	// replacing the default exclusion set when non-empty.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// IgnoreFile points at an ignore-pattern file.
	IgnoreFile string `yaml:"ignore_file"`

	Report ReportConfig `yaml:"report"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	Title           string `yaml:"title"`
	MaxDiagramNodes int    `yaml:"max_diagram_nodes"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromRoot loads <root>/.ccg.yaml if present. A missing file is not an
// error: the zero config is returned.
func LoadFromRoot(root string) (*Config, error) {
	path := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return Load(path)
}

// ExcludeDirSet converts the exclusion list to the collector's map form.
// Nil when no exclusions are configured, so defaults apply.
func (c *Config) ExcludeDirSet() map[string]bool {
	if len(c.ExcludeDirs) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.ExcludeDirs))
	for _, d := range c.ExcludeDirs {
		set[d] = true
	}
	return set
}
