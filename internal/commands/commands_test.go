package commands

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/slides/internal/core/config"
)

func testFlags(t *testing.T, decks ...config.Deck) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ConfigDir = t.TempDir()
	cfg.Decks = decks
	return &Flags{Config: &cfg, ConfigPath: filepath.Join(cfg.ConfigDir, "config.yaml")}
}

func TestShowCmd_ResolveDeck(t *testing.T) {
	flags := testFlags(t, config.Deck{Name: "holiday", Images: []string{"https://example.com/a.png"}})

	cmd := NewShowCmd(flags)
	cmd.deck = "holiday"
	res, err := cmd.resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.png"}, res.URLs)

	cmd.deck = "holidya"
	_, err = cmd.resolve(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "holiday"`)

	cmd.deck = "zzzzzzzzzz"
	_, err = cmd.resolve(nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")

	cmd.deck = "holiday"
	_, err = cmd.resolve([]string{"extra.png"})
	assert.Error(t, err)
}

func TestShowCmd_ResolveArgs(t *testing.T) {
	cmd := NewShowCmd(testFlags(t))

	_, err := cmd.resolve(nil)
	require.Error(t, err)

	res, err := cmd.resolve([]string{"https://example.com/a.png", "https://example.com/b.png"})
	require.NoError(t, err)
	assert.Len(t, res.URLs, 2)
}

func TestLsCmd(t *testing.T) {
	flags := testFlags(t,
		config.Deck{Name: "remote", Title: "Remote", Images: []string{"https://example.com/a.png", "https://example.com/b.png"}},
		config.Deck{Name: "broken", Dir: "missing"},
	)

	var buf bytes.Buffer
	require.NoError(t, NewLsCmd(flags).run(context.Background(), &cli.Command{Writer: &buf}))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `remote\s+Remote\s+2`, out)
	assert.Regexp(t, `broken\s+broken\s+error:`, out)
}

func TestLsCmd_JSON(t *testing.T) {
	flags := testFlags(t, config.Deck{Name: "remote", Images: []string{"https://example.com/a.png"}})

	var buf bytes.Buffer
	cmd := NewLsCmd(flags)
	cmd.jsonOutput = true
	require.NoError(t, cmd.run(context.Background(), &cli.Command{Writer: &buf}))

	assert.JSONEq(t, `{"name":"remote","title":"remote","images":1}`, buf.String())
}

func TestLsCmd_JSONResolveError(t *testing.T) {
	flags := testFlags(t, config.Deck{Name: "broken", Dir: "missing"})

	var out, errOut bytes.Buffer
	cmd := NewLsCmd(flags)
	cmd.jsonOutput = true
	require.NoError(t, cmd.run(context.Background(), &cli.Command{Writer: &out, ErrWriter: &errOut}))

	assert.Contains(t, out.String(), `"name":"broken"`)
	assert.Contains(t, out.String(), `"error":`)
	assert.Contains(t, errOut.String(), `"message": "resolve deck"`)
	assert.Contains(t, errOut.String(), `"deck": "broken"`)
}

func TestConfigValidateCmd(t *testing.T) {
	flags := testFlags(t, config.Deck{Name: "photos", Dir: "."})
	require.NoError(t, os.WriteFile(flags.ConfigPath, []byte("theme: tokyo-night\n"), 0o644))

	var buf bytes.Buffer
	cmd := NewConfigValidateCmd(flags)
	cmd.format = "text"
	require.NoError(t, cmd.run(context.Background(), &cli.Command{Writer: &buf}))
	assert.Contains(t, buf.String(), "Configuration is valid")

	flags.Config.Decks = append(flags.Config.Decks, config.Deck{Name: "gone", Dir: "does-not-exist"})
	buf.Reset()
	var errOut bytes.Buffer
	cmd.format = "json"
	err := cmd.run(context.Background(), &cli.Command{Writer: &buf, ErrWriter: &errOut})
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"valid": false`)
	assert.Contains(t, buf.String(), "decks[1].dir: cannot access")
	assert.Contains(t, errOut.String(), `"message": "invalid configuration"`)
}

func TestCatCmd_Size(t *testing.T) {
	cmd := NewCatCmd(testFlags(t))
	cmd.width = 40
	cmd.height = 10

	w, h := cmd.size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 10, h)
}

func TestCatCmd_Verbose(t *testing.T) {
	flags := testFlags(t)
	path := filepath.Join(t.TempDir(), "white.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	var out, errOut bytes.Buffer
	app := &cli.Command{Name: "slides", Writer: &out, ErrWriter: &errOut}
	NewCatCmd(flags).Register(app)

	err = app.Run(context.Background(), []string{"slides", "cat", "--ascii", "--width", "4", "--height", "2", "-v", path})
	require.NoError(t, err)

	assert.Equal(t, "@@@@\n@@@@\n", out.String())
	assert.Contains(t, errOut.String(), "image loaded")
	assert.Contains(t, errOut.String(), "cmp=imageload")
}
