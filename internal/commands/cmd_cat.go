package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/slides/internal/core/logging"
	"github.com/hay-kot/slides/internal/termimage"
	"github.com/hay-kot/slides/pkg/logutils"
)

const (
	defaultCatWidth  = 80
	defaultCatHeight = 24
)

type CatCmd struct {
	flags *Flags

	// flags
	width   int
	height  int
	ascii   bool
	verbose bool
}

// NewCatCmd creates a new cat command
func NewCatCmd(flags *Flags) *CatCmd {
	return &CatCmd{flags: flags}
}

// Register adds the cat command to the application
func (cmd *CatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "cat",
		Usage:     "Print an image to the terminal",
		UsageText: "slides cat [options] PATH|URL...",
		Description: `Renders images to stdout and exits.

The image is fitted to the terminal size. When stdout is not a terminal the
size defaults to 80x24 and can be set with --width and --height.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Usage:       "width in cells (defaults to the terminal width)",
				Destination: &cmd.width,
			},
			&cli.IntFlag{
				Name:        "height",
				Usage:       "height in cells (defaults to the terminal height)",
				Destination: &cmd.height,
			},
			&cli.BoolFlag{
				Name:        "ascii",
				Usage:       "render with characters only, no color",
				Destination: &cmd.ascii,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "log image loading to stderr",
				Destination: &cmd.verbose,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CatCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return errors.New("cat requires at least one image")
	}

	loader, err := newLoaderWith(cmd.flags.Config, cmd.logger(c))
	if err != nil {
		return fmt.Errorf("create loader: %w", err)
	}
	if cwd, err := os.Getwd(); err == nil {
		loader = loader.WithBaseDir(cwd)
	}

	width, height := cmd.size()
	profile := termenv.EnvColorProfile()
	if cmd.ascii {
		profile = termenv.Ascii
	}

	out := c.Root().Writer
	for _, url := range c.Args().Slice() {
		img, err := loader.Load(ctx, url)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, termimage.Render(img.Pixels, width, height, profile))
	}
	return nil
}

// logger keeps the file logger unless --verbose asks for console output; cat
// does not own the terminal, so stderr is free.
func (cmd *CatCmd) logger(c *cli.Command) zerolog.Logger {
	if !cmd.verbose {
		return logging.Component("imageload")
	}
	return logutils.Console(errWriter(c), zerolog.DebugLevel).
		With().
		Str("cmp", "imageload").
		Logger()
}

// size returns the render box, leaving a row for the shell prompt.
func (cmd *CatCmd) size() (int, int) {
	width, height := defaultCatWidth, defaultCatHeight

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			width, height = w, h-1
		}
	}

	if cmd.width > 0 {
		width = cmd.width
	}
	if cmd.height > 0 {
		height = cmd.height
	}
	return width, max(height, 1)
}
