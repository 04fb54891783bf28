package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/slides/internal/core/validate"
)

// ValidateDeep performs comprehensive validation of the configuration including
// deck paths and glob patterns. The configPath argument specifies the config
// file location to validate (empty string skips the config file check). This
// calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.validateDecks(),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateDecks checks deck directories, manifests and glob patterns.
func (c *Config) validateDecks() error {
	var errs criterio.FieldErrorsBuilder
	for i, d := range c.Decks {
		field := fmt.Sprintf("decks[%d]", i)

		if err := validate.DeckName(d.Name); err != nil {
			errs = errs.Append(field+".name", err)
		}

		if d.Dir != "" {
			if err := isDirectory(c.ResolvePath(d.Dir)); err != nil {
				errs = errs.Append(field+".dir", err)
			}
		}
		if d.Manifest != "" {
			if err := isFile(c.ResolvePath(d.Manifest)); err != nil {
				errs = errs.Append(field+".manifest", err)
			}
		}
		if d.Glob != "" && !doublestar.ValidatePattern(d.Glob) {
			errs = errs.Append(field+".glob", fmt.Errorf("invalid pattern %q", d.Glob))
		}
		for j, img := range d.Images {
			if strings.TrimSpace(img) == "" {
				errs = errs.Append(fmt.Sprintf("%s.images[%d]", field, j), fmt.Errorf("empty image url"))
			}
		}
	}
	return errs.ToError()
}

// ResolvePath expands a leading ~ and resolves relative paths against the
// config file's directory.
func (c *Config) ResolvePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) || c.ConfigDir == "" {
		return path
	}
	return filepath.Join(c.ConfigDir, path)
}

func isDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func isFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}
