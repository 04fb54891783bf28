package tui

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/slides/internal/slideshow"
	"github.com/hay-kot/slides/internal/termimage"
	"github.com/hay-kot/slides/pkg/tuitest"
)

type nopHandler struct{}

func (nopHandler) HandleKey(string) (bool, []slideshow.Task) { return false, nil }

func (nopHandler) HandleClick(slideshow.Target) (bool, []slideshow.Task) { return false, nil }

func TestPresentation_Bind(t *testing.T) {
	p := newPresentation("t", termimage.NewFrameCache(termenv.Ascii, 1))

	require.NoError(t, p.Bind(nopHandler{}))
	assert.ErrorIs(t, p.Bind(nopHandler{}), errAlreadyBound)
	assert.Error(t, newPresentation("t", nil).Bind(nil))
}

func TestPresentation_NavigateIsTakenOnce(t *testing.T) {
	p := newPresentation("t", nil)
	p.Navigate("index")

	assert.Equal(t, "index", p.takeExit())
	assert.Empty(t, p.takeExit())
}

func TestPresentation_ViewFillsScreen(t *testing.T) {
	p := newPresentation("Trip", termimage.NewFrameCache(termenv.Ascii, 1))
	p.SetSize(40, 8)
	p.SetCounter("1 / 3")
	p.SetLoading(true)

	view := tuitest.StripANSI(p.View())
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, view, "loading…")
	assert.Contains(t, lines[len(lines)-1], "1 / 3")
}

func TestPresentation_ButtonsDoNotOverlap(t *testing.T) {
	p := newPresentation("t", nil)
	buttons := p.buttons()

	require.Len(t, buttons, 3)
	for i := 1; i < len(buttons); i++ {
		assert.GreaterOrEqual(t, buttons[i].x0, buttons[i-1].x1)
	}
}

func TestSpliceOverlay(t *testing.T) {
	got := spliceOverlay("aaaa\nbbbb\ncccc", []string{"XX"}, 1, 1)
	assert.Equal(t, "aaaa\nbXXb\ncccc", tuitest.StripANSI(got))

	short := spliceOverlay("a\nb", []string{"XX"}, 3, 0)
	assert.Equal(t, "a  XX\nb", tuitest.StripANSI(short))

	assert.Equal(t, "same", spliceOverlay("same", nil, 0, 0))
}

func TestHelpKeys(t *testing.T) {
	keys := newHelpKeys(slideshow.DefaultKeymap())

	require.NotEmpty(t, keys.ShortHelp())
	first := keys.ShortHelp()[0].Help()
	assert.Equal(t, "space/→", first.Key)
	assert.Equal(t, "next image", first.Desc)
	assert.Len(t, keys.FullHelp(), 1)
}
