package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Keys = mergeKeys(defaultKeys, nil)
	cfg.ConfigDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, os.Mkdir(filepath.Join(cfg.ConfigDir, "photos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ConfigDir, "deck.yaml"), []byte("images: []\n"), 0o644))

	cfg.Decks = []Deck{
		{Name: "photos", Dir: "photos", Glob: "**/*.{jpg,png}"},
		{Name: "manifest", Manifest: "deck.yaml"},
		{Name: "remote", Images: []string{"https://example.com/a.png"}},
	}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_MissingDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.Decks = []Deck{{Name: "gone", Dir: "does-not-exist"}}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Field, "decks[0].dir")
	assert.Contains(t, fieldErrs[0].Err.Error(), "cannot access")
}

func TestValidateDeep_ManifestIsDirectory(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, os.Mkdir(filepath.Join(cfg.ConfigDir, "deck.yaml"), 0o755))
	cfg.Decks = []Deck{{Name: "bad", Manifest: "deck.yaml"}}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs[0].Field, "decks[0].manifest")
	assert.Contains(t, fieldErrs[0].Err.Error(), "is a directory")
}

func TestValidateDeep_InvalidGlobAndEmptyImage(t *testing.T) {
	cfg := validConfig(t)
	cfg.Decks = []Deck{{Name: "bad", Dir: ".", Glob: "[", Images: []string{" "}}}
	cfg.Decks[0].Dir = cfg.ConfigDir

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(cfg.ConfigDir)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_RunsBasicValidation(t *testing.T) {
	cfg := validConfig(t)
	cfg.ExitTarget = "elsewhere"

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit_target")
}

func TestResolvePath(t *testing.T) {
	cfg := &Config{ConfigDir: "/etc/slides"}

	assert.Equal(t, "/etc/slides/decks/a.yaml", cfg.ResolvePath("decks/a.yaml"))
	assert.Equal(t, "/abs/a.yaml", cfg.ResolvePath("/abs/a.yaml"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pics"), cfg.ResolvePath("~/pics"))
}

func TestValidateDeep_DeckName(t *testing.T) {
	cfg := validConfig(t)
	cfg.Decks = []Deck{{Name: "summer trip", Images: []string{"a.png"}}}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "decks[0].name", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "whitespace")
}
