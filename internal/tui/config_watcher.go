package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/hay-kot/slides/internal/core/config"
)

// configChangeMsg is sent when the config file changes on disk.
type configChangeMsg struct {
	cfg *config.Config
	err error
}

// ConfigWatcher reloads the config file when it changes.
type ConfigWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounceDur time.Duration
}

// NewConfigWatcher watches the directory holding path. Editors commonly replace
// files on save, which a watch on the file itself would lose.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:     watcher,
		path:        path,
		debounceDur: 100 * time.Millisecond,
	}, nil
}

// Start returns a command that blocks until the config changes and yields the
// reloaded config. It must be restarted after each message.
func (w *ConfigWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				// Only content changes; a removed file would reload as defaults.
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				// Debounce: wait for writes to settle
				time.Sleep(w.debounceDur)

				drained := false
				for !drained {
					select {
					case <-w.watcher.Events:
					default:
						drained = true
					}
				}

				cfg, err := config.Load(w.path)
				return configChangeMsg{cfg: cfg, err: err}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Close stops the watcher. A pending Start returns nil.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}
