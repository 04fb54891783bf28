// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DeckName validates a deck name. Names are typed on the command line, so
// they may not contain whitespace or path separators.
func DeckName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("name %q contains whitespace", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name %q contains a path separator", name)
	}
	return nil
}
