package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/slides/internal/core/config"
	"github.com/hay-kot/slides/internal/core/deck"
	"github.com/hay-kot/slides/internal/core/logging"
	"github.com/hay-kot/slides/internal/imageload"
	"github.com/hay-kot/slides/internal/slideshow"
	"github.com/hay-kot/slides/internal/tui"
)

// newLoader builds the image loader from the loader config section.
func newLoader(cfg *config.Config) (*imageload.Loader, error) {
	return newLoaderWith(cfg, logging.Component("imageload"))
}

func newLoaderWith(cfg *config.Config, logger zerolog.Logger) (*imageload.Loader, error) {
	return imageload.New(imageload.Options{
		Timeout:   cfg.Loader.Timeout,
		MaxBytes:  cfg.Loader.MaxBytes,
		MaxPixels: cfg.Loader.MaxPixels,
		UserAgent: cfg.Loader.UserAgent,
		BaseDir:   cfg.ConfigDir,
	}, logger)
}

// newWatcher watches the config file when it exists. Failing to watch only
// disables live reload.
func newWatcher(path string) *tui.ConfigWatcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	w, err := tui.NewConfigWatcher(path)
	if err != nil {
		log.Warn().Err(err).Str("config", path).Msg("watch config")
		return nil
	}
	return w
}

// runTUI starts the program on the index, or on start when it is non-nil.
func runTUI(flags *Flags, start *deck.Resolved) error {
	cfg := flags.Config
	loader, err := newLoader(cfg)
	if err != nil {
		return fmt.Errorf("create loader: %w", err)
	}

	watcher := newWatcher(flags.ConfigPath)
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	model, err := tui.New(tui.Options{
		Config: cfg,
		Loader: func(baseDir string) slideshow.Loader {
			return loader.WithBaseDir(baseDir)
		},
		Profile: termenv.EnvColorProfile(),
		Deck:    start,
		Watcher: watcher,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
