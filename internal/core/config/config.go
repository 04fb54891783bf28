// Package config handles configuration loading and validation for slides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/slides/internal/core/styles"
	"github.com/hay-kot/slides/internal/slideshow"
)

// Exit targets for closing a presentation.
const (
	ExitIndex = "index"
	ExitQuit  = "quit"
)

// defaultKeys provides built-in key bindings per action that users can override.
var defaultKeys = map[string][]string{
	"next":  {"right", " "},
	"prev":  {"left"},
	"first": {"home"},
	"last":  {"end"},
	"close": {"esc"},
	"help":  {"h", "H"},
}

// Config holds the application configuration.
type Config struct {
	Theme      string              `yaml:"theme"`
	ExitTarget string              `yaml:"exit_target"`
	Slideshow  SlideshowConfig     `yaml:"slideshow"`
	Loader     LoaderConfig        `yaml:"loader"`
	Keys       map[string][]string `yaml:"keys"`
	Decks      []Deck              `yaml:"decks"`
	ConfigDir  string              `yaml:"-"` // set by caller, not from config file
}

// SlideshowConfig tunes the presentation controller.
type SlideshowConfig struct {
	PreloadRadius int   `yaml:"preload_radius"`
	NoPreload     bool  `yaml:"no_preload"`
	Mouse         *bool `yaml:"mouse"` // nil = enabled
}

// LoaderConfig tunes image fetching.
type LoaderConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	MaxPixels int64         `yaml:"max_pixels"`
	UserAgent string        `yaml:"user_agent"`
}

// Deck is a named, ordered image source. Images from all three sources are
// concatenated in order: images, manifest, dir/glob.
type Deck struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"` // markdown
	Images      []string `yaml:"images"`
	Manifest    string   `yaml:"manifest"`
	Dir         string   `yaml:"dir"`
	Glob        string   `yaml:"glob"`
}

// DisplayTitle returns the title, falling back to the name.
func (d Deck) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:      styles.DefaultTheme,
		ExitTarget: ExitIndex,
		Slideshow: SlideshowConfig{
			PreloadRadius: slideshow.DefaultPreloadRadius,
		},
		Loader: LoaderConfig{
			Timeout:   15 * time.Second,
			MaxBytes:  32 << 20,
			MaxPixels: 64 << 20,
			UserAgent: "slides",
		},
		Keys: map[string][]string{},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
		cfg.ConfigDir = filepath.Dir(configPath)
	}

	// Merge user keys into defaults (user config overrides defaults per action)
	cfg.Keys = mergeKeys(defaultKeys, cfg.Keys)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.ExitTarget == "" {
		c.ExitTarget = defaults.ExitTarget
	}
	if c.Slideshow.PreloadRadius == 0 {
		c.Slideshow.PreloadRadius = defaults.Slideshow.PreloadRadius
	}
	if c.Loader.Timeout == 0 {
		c.Loader.Timeout = defaults.Loader.Timeout
	}
	if c.Loader.MaxBytes == 0 {
		c.Loader.MaxBytes = defaults.Loader.MaxBytes
	}
	if c.Loader.MaxPixels == 0 {
		c.Loader.MaxPixels = defaults.Loader.MaxPixels
	}
	if c.Loader.UserAgent == "" {
		c.Loader.UserAgent = defaults.Loader.UserAgent
	}
}

// mergeKeys merges user bindings into defaults. A user entry replaces the
// default keys for that action, and a key the user binds is removed from the
// default actions the user left alone.
func mergeKeys(defaults, user map[string][]string) map[string][]string {
	taken := make(map[string]bool)
	for _, keys := range user {
		for _, k := range keys {
			taken[k] = true
		}
	}

	result := make(map[string][]string, len(defaults)+len(user))
	for action, keys := range defaults {
		if _, ok := user[action]; ok {
			continue
		}
		kept := make([]string, 0, len(keys))
		for _, k := range keys {
			if !taken[k] {
				kept = append(kept, k)
			}
		}
		result[action] = kept
	}
	for action, keys := range user {
		result[action] = keys
	}
	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}

	if c.ExitTarget != ExitIndex && c.ExitTarget != ExitQuit {
		return fmt.Errorf("exit_target must be %q or %q, got %q", ExitIndex, ExitQuit, c.ExitTarget)
	}

	if c.Slideshow.PreloadRadius < 0 {
		return fmt.Errorf("slideshow.preload_radius cannot be negative")
	}

	if c.Loader.Timeout < 0 {
		return fmt.Errorf("loader.timeout cannot be negative")
	}

	if c.Loader.MaxBytes < 0 {
		return fmt.Errorf("loader.max_bytes cannot be negative")
	}

	if c.Loader.MaxPixels < 0 {
		return fmt.Errorf("loader.max_pixels cannot be negative")
	}

	if _, err := c.Keymap(); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Decks))
	for i, d := range c.Decks {
		if d.Name == "" {
			return fmt.Errorf("deck %d: name is required", i)
		}
		if names[d.Name] {
			return fmt.Errorf("duplicate deck name %q", d.Name)
		}
		names[d.Name] = true

		if len(d.Images) == 0 && d.Manifest == "" && d.Dir == "" {
			return fmt.Errorf("deck %q: one of images, manifest or dir is required", d.Name)
		}
		if d.Glob != "" && d.Dir == "" {
			return fmt.Errorf("deck %q: glob requires dir", d.Name)
		}
	}

	return nil
}

// Keymap converts the key configuration into a slideshow keymap. A key bound to
// more than one action is an error.
func (c *Config) Keymap() (slideshow.Keymap, error) {
	km := make(slideshow.Keymap)
	owner := make(map[string]string)

	for name, keys := range c.Keys {
		action, err := slideshow.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		for _, key := range keys {
			if key == "" {
				return nil, fmt.Errorf("keys.%s: empty key", name)
			}
			if prev, ok := owner[key]; ok && prev != name {
				return nil, fmt.Errorf("keys: %q bound to both %s and %s", key, prev, name)
			}
			owner[key] = name
			km[key] = action
		}
	}

	return km, nil
}

// PreloadRadius returns the radius to hand the controller, negative when
// preloading is disabled.
func (c *Config) PreloadRadius() int {
	if c.Slideshow.NoPreload {
		return -1
	}
	return c.Slideshow.PreloadRadius
}

// MouseEnabled reports whether mouse input is captured.
func (c *Config) MouseEnabled() bool {
	return c.Slideshow.Mouse == nil || *c.Slideshow.Mouse
}

// FindDeck returns the deck named name.
func (c *Config) FindDeck(name string) (Deck, bool) {
	for _, d := range c.Decks {
		if d.Name == name {
			return d, true
		}
	}
	return Deck{}, false
}

// DeckNames returns deck names in configuration order.
func (c *Config) DeckNames() []string {
	names := make([]string, len(c.Decks))
	for i, d := range c.Decks {
		names[i] = d.Name
	}
	return names
}
