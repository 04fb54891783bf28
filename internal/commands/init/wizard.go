// Package initcmd implements the first-run configuration wizard.
package initcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/slides/internal/core/config"
	"github.com/hay-kot/slides/internal/core/deck"
	"github.com/hay-kot/slides/internal/core/styles"
	"github.com/hay-kot/slides/internal/core/validate"
)

const defaultDeckName = "photos"

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool   // skip prompts, use defaults
	Force      bool   // overwrite existing config
	DeckDir    string // pre-specified deck dir (empty = prompt or default)
	DeckName   string
	Out        io.Writer
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(_ context.Context) error {
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			w.infof("Init cancelled")
			return nil
		}
	}

	answers := ConfigOptions{
		Theme:      styles.DefaultTheme,
		ExitTarget: config.ExitIndex,
		DeckName:   w.opts.DeckName,
		DeckDir:    w.opts.DeckDir,
	}
	if answers.DeckName == "" {
		answers.DeckName = defaultDeckName
	}
	if answers.DeckDir == "" {
		answers.DeckDir = DefaultDeckDir()
	}

	if !w.opts.Yes {
		if err := w.promptUser(&answers); err != nil {
			return err
		}
	}
	answers.DeckDir = expandHome(answers.DeckDir)

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		w.successf("Backed up config to: %s", backupPath)
	}

	data, err := GenerateConfig(answers)
	if err != nil {
		return err
	}
	if err := WriteConfig(data, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	w.successf("Created config: %s", w.opts.ConfigPath)

	w.check(answers.DeckName)

	w.printf("")
	w.printf("Run 'slides' to open the deck index or 'slides show --deck %s' to start presenting.", answers.DeckName)
	return nil
}

func (w *Wizard) promptUser(answers *ConfigOptions) error {
	themes := make([]huh.Option[string], 0)
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Deck name").
				Description("Short name used with 'slides show --deck'").
				Validate(validate.DeckName).
				Value(&answers.DeckName),
			huh.NewInput().
				Title("Image directory").
				Description("Images in this directory are shown in name order").
				Value(&answers.DeckDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&answers.Theme),
			huh.NewSelect[string]().
				Title("Closing a presentation").
				Options(
					huh.NewOption("returns to the deck index", config.ExitIndex),
					huh.NewOption("quits slides", config.ExitQuit),
				).
				Value(&answers.ExitTarget),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		return err
	}

	answers.DeckName = strings.TrimSpace(answers.DeckName)
	return nil
}

// check loads the written config back and reports what the first deck
// resolves to. Problems are warnings; the file is already written.
func (w *Wizard) check(name string) {
	cfg, err := config.Load(w.opts.ConfigPath)
	if err != nil {
		w.warnf("Config does not load: %v", err)
		return
	}

	d, ok := cfg.FindDeck(name)
	if !ok {
		w.warnf("Deck %q missing from config", name)
		return
	}

	res, err := deck.Resolve(cfg, d)
	if err != nil {
		w.warnf("Deck %q: %v", name, err)
		return
	}
	w.successf("Deck %q: %d images", name, len(res.URLs))
}

// DefaultDeckDir returns ~/Pictures when it exists, otherwise the working
// directory.
func DefaultDeckDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		pics := filepath.Join(home, "Pictures")
		if info, err := os.Stat(pics); err == nil && info.IsDir() {
			return pics
		}
	}
	cwd, _ := os.Getwd()
	return cwd
}

func (w *Wizard) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.opts.Out, format+"\n", args...)
}

func (w *Wizard) successf(format string, args ...any) {
	w.printf("%s", styles.SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (w *Wizard) warnf(format string, args ...any) {
	w.printf("%s", styles.ErrorStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func (w *Wizard) infof(format string, args ...any) {
	w.printf("%s", styles.MutedStyle.Render(fmt.Sprintf(format, args...)))
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
