package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# slides configuration
# Keys map an action (next, prev, first, last, close, help) to key names, e.g.
#   keys:
#     next: [right, " ", "l"]
`

// ConfigOptions are the answers collected by the wizard.
type ConfigOptions struct {
	Theme      string
	ExitTarget string
	DeckName   string
	DeckTitle  string
	DeckDir    string
}

type fileConfig struct {
	Theme      string     `yaml:"theme"`
	ExitTarget string     `yaml:"exit_target"`
	Decks      []fileDeck `yaml:"decks"`
}

type fileDeck struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
	Dir   string `yaml:"dir"`
}

// GenerateConfig renders the starter config file.
func GenerateConfig(opts ConfigOptions) ([]byte, error) {
	doc := fileConfig{
		Theme:      opts.Theme,
		ExitTarget: opts.ExitTarget,
		Decks: []fileDeck{
			{Name: opts.DeckName, Title: opts.DeckTitle, Dir: opts.DeckDir},
		},
	}

	body, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

// WriteConfig writes data to path, creating parent directories.
func WriteConfig(data []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
