package tui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/slides/internal/core/config"
	"github.com/hay-kot/slides/internal/core/deck"
	"github.com/hay-kot/slides/internal/slideshow"
	"github.com/hay-kot/slides/pkg/tuitest"
)

const (
	testWidth  = 60
	testHeight = 12
)

type stubLoader struct {
	fail map[string]bool
}

func (l stubLoader) Load(ctx context.Context, url string) (slideshow.Image, error) {
	if err := ctx.Err(); err != nil {
		return slideshow.Image{}, err
	}
	if l.fail[url] {
		return slideshow.Image{}, errors.New("boom")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.White)
		}
	}
	return slideshow.Image{URL: url, Digest: url, Pixels: img}, nil
}

func testConfig(decks ...config.Deck) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Decks = decks
	return &cfg
}

func newTestModel(t *testing.T, cfg *config.Config, start *deck.Resolved, fail ...string) Model {
	t.Helper()

	loader := stubLoader{fail: make(map[string]bool)}
	for _, u := range fail {
		loader.fail[u] = true
	}

	m, err := New(Options{
		Config:  cfg,
		Loader:  func(string) slideshow.Loader { return loader },
		Profile: termenv.Ascii,
		Deck:    start,
	})
	require.NoError(t, err)

	next, _ := m.Update(tuitest.WindowSize(testWidth, testHeight))
	m = next.(Model)
	m, _ = drain(t, m, m.Init())
	return m
}

// drain runs cmd and every command it produces, feeding completions back into
// the model. Spinner ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) (Model, bool) {
	t.Helper()

	quit := false
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			quit = true
		case completionMsg:
			next, nextCmd := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nextCmd)
		}
	}
	return m, quit
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func threeImages() *deck.Resolved {
	return &deck.Resolved{Name: "trip", Title: "Trip", URLs: []string{"a", "b", "c"}}
}

func TestModel_StartsPresentation(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())

	assert.Equal(t, statePresenting, m.State())
	assert.Equal(t, "a", m.ctrl.Displayed())
	assert.False(t, m.ctrl.Loading())

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "1 / 3")
	assert.Contains(t, view, "‹ prev")
	assert.Contains(t, view, "next ›")
	assert.Contains(t, view, "@")
}

func TestModel_RequiresDecks(t *testing.T) {
	_, err := New(Options{
		Config: testConfig(),
		Loader: func(string) slideshow.Loader { return stubLoader{} },
	})
	assert.Error(t, err)
}

func TestModel_KeyNavigation(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())

	m, _ = send(t, m, tuitest.Key(tea.KeyRight))
	assert.Equal(t, "b", m.ctrl.Displayed())
	assert.Contains(t, tuitest.StripANSI(m.View()), "2 / 3")

	m, _ = send(t, m, tuitest.KeyPress(' '))
	assert.Equal(t, "c", m.ctrl.Displayed())

	m, _ = send(t, m, tuitest.Key(tea.KeyRight))
	assert.Equal(t, "a", m.ctrl.Displayed())

	m, _ = send(t, m, tuitest.Key(tea.KeyLeft))
	assert.Equal(t, "c", m.ctrl.Displayed())
	assert.Contains(t, tuitest.StripANSI(m.View()), "3 / 3")

	m, _ = send(t, m, tuitest.Key(tea.KeyHome))
	assert.Equal(t, "a", m.ctrl.Displayed())

	m, _ = send(t, m, tuitest.Key(tea.KeyEnd))
	assert.Equal(t, "c", m.ctrl.Displayed())
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())
	assert.NotContains(t, tuitest.StripANSI(m.View()), "next image")

	m, _ = send(t, m, tuitest.KeyPress('h'))
	view := tuitest.StripANSI(m.View())
	assert.True(t, m.ctrl.HelpVisible())
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "next image")

	m, _ = send(t, m, tuitest.KeyPress('H'))
	assert.False(t, m.ctrl.HelpVisible())
	assert.NotContains(t, tuitest.StripANSI(m.View()), "next image")
}

func TestModel_LoadFailureKeepsImage(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages(), "b")

	m, _ = send(t, m, tuitest.Key(tea.KeyRight))

	assert.Equal(t, "a", m.ctrl.Displayed())
	assert.Equal(t, 1, m.ctrl.Cursor())
	assert.False(t, m.ctrl.Loading())
	assert.Contains(t, tuitest.StripANSI(m.View()), "2 / 3")
}

func TestModel_CloseWithoutIndexQuits(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())

	m, quit := send(t, m, tuitest.Key(tea.KeyEscape))
	assert.True(t, quit)
	assert.Nil(t, m.ctrl)
	assert.Empty(t, m.View())
}

func TestModel_CloseReturnsToIndex(t *testing.T) {
	cfg := testConfig(config.Deck{Name: "trip", Title: "Summer Trip", Images: []string{"a", "b"}})
	m := newTestModel(t, cfg, threeImages())

	m, quit := send(t, m, tuitest.Key(tea.KeyEscape))
	assert.False(t, quit)
	assert.Equal(t, stateIndex, m.State())
	assert.Nil(t, m.ctrl)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Summer Trip")
}

func TestModel_ExitQuitTarget(t *testing.T) {
	cfg := testConfig(config.Deck{Name: "trip", Images: []string{"a"}})
	cfg.ExitTarget = config.ExitQuit
	m := newTestModel(t, cfg, threeImages())

	_, quit := send(t, m, tuitest.Key(tea.KeyEscape))
	assert.True(t, quit)
}

func TestModel_DropsStaleSession(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())

	img, err := stubLoader{}.Load(context.Background(), "c")
	require.NoError(t, err)

	stale := completionMsg{
		session: m.session - 1,
		done: slideshow.Completion{
			Kind:       slideshow.KindDisplay,
			Generation: m.ctrl.Generation(),
			Index:      2,
			URL:        "c",
			Image:      img,
		},
	}
	m, _ = send(t, m, stale)
	assert.Equal(t, "a", m.ctrl.Displayed())
}

func TestModel_IndexOpensDeck(t *testing.T) {
	cfg := testConfig(config.Deck{Name: "trip", Images: []string{"x", "y"}})
	m := newTestModel(t, cfg, nil)
	assert.Equal(t, stateIndex, m.State())

	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, statePresenting, m.State())
	assert.Equal(t, "x", m.ctrl.Displayed())
	assert.Contains(t, tuitest.StripANSI(m.View()), "1 / 2")

	m, _ = send(t, m, tuitest.Key(tea.KeyEscape))
	assert.Equal(t, stateIndex, m.State())

	m, _ = send(t, m, tuitest.KeyEnter())
	require.Equal(t, statePresenting, m.State())
	assert.Equal(t, "x", m.ctrl.Displayed())
}

func TestModel_IndexShowsResolveError(t *testing.T) {
	cfg := testConfig(config.Deck{Name: "empty", Dir: t.TempDir()})
	m := newTestModel(t, cfg, nil)

	m, _ = send(t, m, tuitest.KeyEnter())
	assert.Equal(t, stateIndex, m.State())
	assert.Contains(t, tuitest.StripANSI(m.View()), "no images")
}

func TestModel_IndexQuit(t *testing.T) {
	cfg := testConfig(config.Deck{Name: "trip", Images: []string{"x"}})
	m := newTestModel(t, cfg, nil)

	_, quit := send(t, m, tuitest.KeyPress('q'))
	assert.True(t, quit)
}

func TestModel_Clicks(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())
	buttons := m.show.buttons()
	footerY := testHeight - footerHeight

	hit := func(target slideshow.Target) tea.MouseMsg {
		for _, b := range buttons {
			if b.target == target {
				return tuitest.Click(b.x0, footerY)
			}
		}
		t.Fatalf("no button for target %v", target)
		return tea.MouseMsg{}
	}

	m, _ = send(t, m, hit(slideshow.TargetNext))
	assert.Equal(t, "b", m.ctrl.Displayed())

	m, _ = send(t, m, hit(slideshow.TargetPrev))
	assert.Equal(t, "a", m.ctrl.Displayed())

	m, _ = send(t, m, hit(slideshow.TargetPrev))
	assert.Equal(t, "c", m.ctrl.Displayed())

	// Image clicks advance.
	m, _ = send(t, m, tuitest.Click(testWidth/2, 2))
	assert.Equal(t, "a", m.ctrl.Displayed())

	_, quit := send(t, m, hit(slideshow.TargetClose))
	assert.True(t, quit)
}

func TestModel_ClicksOffImageDoNothing(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())
	x, y, w, h := m.show.imageRect()
	require.Positive(t, w)
	require.Positive(t, h)

	tests := []struct {
		name string
		x, y int
	}{
		{name: "blank footer", x: testWidth - 20, y: testHeight - footerHeight},
		{name: "counter", x: testWidth - 1, y: testHeight - footerHeight},
		{name: "left margin", x: x - 1, y: y},
		{name: "right margin", x: x + w, y: y},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := send(t, m, tuitest.Click(tt.x, tt.y))
			assert.Equal(t, "a", next.ctrl.Displayed())
			assert.Equal(t, 0, next.ctrl.Cursor())
		})
	}
}

func TestModel_ClickUnderHelpDoesNothing(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())
	m, _ = send(t, m, tuitest.KeyPress('h'))
	require.True(t, m.ctrl.HelpVisible())

	hx, hy, _, _ := m.show.helpRect()
	ix, _, iw, _ := m.show.imageRect()
	// The box overlaps the image's right side at this width.
	x := max(hx, ix)
	require.Less(t, x, ix+iw)

	m, _ = send(t, m, tuitest.Click(x, hy))
	assert.Equal(t, 0, m.ctrl.Cursor())
}

func TestModel_IgnoresNonLeftClicks(t *testing.T) {
	m := newTestModel(t, testConfig(), threeImages())

	msg := tuitest.Click(testWidth/2, 2)
	msg.Button = tea.MouseButtonRight
	m, _ = send(t, m, msg)
	assert.Equal(t, "a", m.ctrl.Displayed())

	msg = tuitest.Click(testWidth/2, 2)
	msg.Action = tea.MouseActionRelease
	m, _ = send(t, m, msg)
	assert.Equal(t, "a", m.ctrl.Displayed())
}
