// Package config loads the optional ~/.sced.yaml user config: a font
// name placeholder for the glyph-metrics capability, key-binding
// overrides, tab-stop width, and double-click timeout, the way the
// pack's other CLI-style repos load YAML config (yaml:"..." struct
// tags, defaults applied after unmarshal).
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/shawnamir/sced/pkg/editorerr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTabStop             = 8
	DefaultDoubleClickInterval = 400 * time.Millisecond
)

// Config is the unmarshaled, defaulted contents of ~/.sced.yaml.
type Config struct {
	// Font is a placeholder name passed through to the glyph-metrics
	// capability; sced itself does not interpret it.
	Font string `yaml:"font"`

	// KeyBindings maps a command function name to a key-sequence
	// string override, e.g. {"query-replace": "C-c r"}.
	KeyBindings map[string]string `yaml:"key_bindings"`

	// TabStopWidth is the number of columns a tab character advances.
	TabStopWidth int `yaml:"tab_stop_width"`

	// DoubleClickMillis is the max gap between two clicks that counts
	// as a double-click, in milliseconds.
	DoubleClickMillis int `yaml:"double_click_millis"`
}

// Default returns the config used when no file is present.
func Default() *Config {
	return &Config{
		KeyBindings:       map[string]string{},
		TabStopWidth:      DefaultTabStop,
		DoubleClickMillis: int(DefaultDoubleClickInterval / time.Millisecond),
	}
}

// DoubleClickInterval is DoubleClickMillis as a time.Duration.
func (c *Config) DoubleClickInterval() time.Duration {
	return time.Duration(c.DoubleClickMillis) * time.Millisecond
}

// Load reads and unmarshals the YAML config at path, applying defaults
// for zero-valued fields. A missing file is not an error — Default()
// is returned unchanged, since ~/.sced.yaml is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, editorerr.Wrap(editorerr.IO, "Cannot read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, editorerr.Wrap(editorerr.IO, "Cannot parse config file", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.TabStopWidth <= 0 {
		cfg.TabStopWidth = DefaultTabStop
	}
	if cfg.DoubleClickMillis <= 0 {
		cfg.DoubleClickMillis = int(DefaultDoubleClickInterval / time.Millisecond)
	}
	if cfg.KeyBindings == nil {
		cfg.KeyBindings = map[string]string{}
	}
}

// DefaultPath returns ~/.sced.yaml for the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", editorerr.Wrap(editorerr.IO, "Cannot determine home directory", err)
	}
	return filepath.Join(home, ".sced.yaml"), nil
}
