package logutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "slides.log")

	l, closer, err := New("info", file)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("deck", "holiday").Msg("shown")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"deck":"holiday"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	assert.NotNil(t, closer)
}

func TestNew_NoFileDiscards(t *testing.T) {
	l, closer, err := New("debug", "")
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	l := Console(&buf, zerolog.InfoLevel)

	l.Debug().Msg("hidden")
	l.Info().Str("url", "a.png").Msg("image loaded")

	assert.Contains(t, buf.String(), "image loaded")
	assert.Contains(t, buf.String(), "url=a.png")
	assert.NotContains(t, buf.String(), "hidden")
}
