// Package tui implements the terminal interface: a deck index and the
// slideshow presentation.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/slides/internal/core/config"
	"github.com/hay-kot/slides/internal/core/deck"
	"github.com/hay-kot/slides/internal/core/logging"
	"github.com/hay-kot/slides/internal/slideshow"
	"github.com/hay-kot/slides/internal/termimage"
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyQuit  = "q"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateIndex UIState = iota
	statePresenting
)

// LoaderFunc returns the loader for a deck. Relative image paths resolve
// against baseDir.
type LoaderFunc func(baseDir string) slideshow.Loader

// Options configures the TUI.
type Options struct {
	Config *config.Config
	Loader LoaderFunc
	// Profile is the color profile images are rendered with.
	Profile termenv.Profile
	// Deck starts the presentation immediately. Without configured decks there
	// is no index to return to and closing it exits.
	Deck *deck.Resolved
	// Watcher, when set, refreshes the deck index as the config file changes.
	Watcher *ConfigWatcher
}

// completionMsg carries a finished controller task back to the event loop.
type completionMsg struct {
	session uint64
	done    slideshow.Completion
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	loader  LoaderFunc
	frames  *termimage.FrameCache
	index   *deckIndex
	state   UIState
	watcher *ConfigWatcher

	// Presentation state, nil while on the index.
	show    *presentation
	ctrl    *slideshow.Controller
	ctx     context.Context
	cancel  context.CancelFunc
	session uint64
	pending []slideshow.Task

	width    int
	height   int
	quitting bool
}

// New creates the root model. When opts.Deck is set the presentation is
// initialized right away and its first load is issued from Init.
func New(opts Options) (Model, error) {
	if opts.Config == nil {
		return Model{}, errors.New("tui: config is required")
	}
	if opts.Loader == nil {
		return Model{}, errors.New("tui: loader is required")
	}

	radius := max(opts.Config.PreloadRadius(), 0)
	m := Model{
		cfg:     opts.Config,
		loader:  opts.Loader,
		frames:  termimage.NewFrameCache(opts.Profile, 2*radius+3),
		state:   stateIndex,
		watcher: opts.Watcher,
	}

	if len(opts.Config.Decks) > 0 {
		m.index = newDeckIndex(opts.Config.Decks)
	}

	if opts.Deck != nil {
		tasks, err := m.present(*opts.Deck)
		if err != nil {
			return Model{}, err
		}
		m.pending = tasks
	}

	if m.index == nil && m.show == nil {
		return Model{}, errors.New("tui: no decks configured")
	}

	return m, nil
}

// State returns the active screen.
func (m Model) State() UIState {
	return m.state
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.watch()}
	if m.show != nil {
		cmds = append(cmds, m.run(m.pending), m.show.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.index != nil {
			m.index.SetSize(msg.Width, msg.Height)
		}
		if m.show != nil {
			m.show.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case configChangeMsg:
		return m.reloadConfig(msg)

	case completionMsg:
		if m.ctrl == nil || msg.session != m.session {
			return m, nil
		}
		return m, m.run(m.ctrl.Complete(msg.done))

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m.quit()
		}
		if m.state == statePresenting {
			return m.handlePresentationKey(msg)
		}
		return m.handleIndexKey(msg)

	case tea.MouseMsg:
		if m.state == statePresenting {
			return m.afterInput(m.show.handleMouse(msg))
		}
		return m, nil
	}

	switch m.state {
	case statePresenting:
		if tick, ok := msg.(spinner.TickMsg); ok {
			return m, m.show.updateSpinner(tick)
		}
	case stateIndex:
		if m.index != nil {
			return m, m.index.Update(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == statePresenting {
		return m.show.View()
	}
	if m.index != nil {
		return m.index.View()
	}
	return ""
}

// reloadConfig swaps in a changed config. A running presentation keeps its
// sequence and settings; the index and later presentations use the new decks.
func (m Model) reloadConfig(msg configChangeMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("reload config")
		if m.index != nil {
			m.index.setStatus("config reload: %v", msg.err)
		}
		return m, m.watch()
	}

	m.cfg = msg.cfg
	var cmd tea.Cmd
	switch {
	case m.index != nil:
		cmd = m.index.setDecks(msg.cfg.Decks)
	case len(msg.cfg.Decks) > 0:
		m.index = newDeckIndex(msg.cfg.Decks)
		m.index.SetSize(m.width, m.height)
	}

	log.Info().Int("decks", len(msg.cfg.Decks)).Msg("config reloaded")
	return m, tea.Batch(cmd, m.watch())
}

func (m Model) watch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Start()
}

func (m Model) handlePresentationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	handled, tasks := m.show.handleKey(msg)
	if !handled && msg.String() == keyQuit {
		m.ctrl.Close()
		return m.leave(config.ExitQuit)
	}
	return m.afterInput(tasks)
}

func (m Model) handleIndexKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.index == nil {
		return m, nil
	}

	if !m.index.filtering() {
		switch msg.String() {
		case keyQuit:
			return m.quit()
		case keyEnter:
			return m.openSelected()
		}
	}

	m.index.status = ""
	return m, m.index.Update(msg)
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	d, ok := m.index.selected()
	if !ok {
		return m, nil
	}

	res, err := deck.Resolve(m.cfg, d)
	if err != nil {
		log.Warn().Err(err).Str("deck", d.Name).Msg("resolve deck")
		m.index.setStatus("%v", err)
		return m, nil
	}

	tasks, err := m.present(res)
	if err != nil {
		log.Error().Err(err).Str("deck", d.Name).Msg("start presentation")
		m.index.setStatus("%v", err)
		return m, nil
	}

	return m, tea.Batch(m.run(tasks), m.show.spinner.Tick)
}

// present builds a controller for res and switches to the presentation. The
// returned tasks load the first image.
func (m *Model) present(res deck.Resolved) ([]slideshow.Task, error) {
	km, err := m.cfg.Keymap()
	if err != nil {
		return nil, err
	}
	if len(km) == 0 {
		km = nil
	}

	p := newPresentation(res.Title, m.frames)
	p.SetSize(m.width, m.height)

	ctrl, err := slideshow.New(res.URLs, p, m.loader(res.BaseDir), slideshow.Options{
		Keymap:        km,
		PreloadRadius: m.cfg.PreloadRadius(),
		ExitTarget:    m.cfg.ExitTarget,
		Logger:        logging.Component("slideshow").With().Str("deck", res.Name).Logger(),
	})
	if err != nil {
		return nil, err
	}
	p.keys = newHelpKeys(ctrl.Keymap())

	tasks, err := ctrl.Initialize()
	if err != nil {
		return nil, err
	}

	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(logging.WithDeck(context.Background(), res.Name))
	m.session++
	m.show = p
	m.ctrl = ctrl
	m.state = statePresenting

	log.Info().Str("deck", res.Name).Int("images", len(res.URLs)).Msg("presentation started")
	return tasks, nil
}

// afterInput runs the tasks an input produced, or leaves the presentation when
// the controller navigated away.
func (m Model) afterInput(tasks []slideshow.Task) (tea.Model, tea.Cmd) {
	if exit := m.show.takeExit(); exit != "" {
		return m.leave(exit)
	}
	return m, m.run(tasks)
}

// leave discards the presentation. In-flight loads are cancelled and their
// completions dropped.
func (m Model) leave(target string) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = nil, nil
	m.show = nil
	m.ctrl = nil
	m.session++

	if target == config.ExitIndex && m.index != nil {
		m.state = stateIndex
		return m, nil
	}
	return m.quit()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) run(tasks []slideshow.Task) tea.Cmd {
	if len(tasks) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(tasks))
	for i, task := range tasks {
		cmds[i] = runTask(m.ctx, m.session, task)
	}
	return tea.Batch(cmds...)
}

func runTask(ctx context.Context, session uint64, task slideshow.Task) tea.Cmd {
	return func() tea.Msg {
		return completionMsg{session: session, done: task(ctx)}
	}
}
