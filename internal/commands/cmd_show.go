package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/slides/internal/core/deck"
)

type ShowCmd struct {
	flags *Flags

	// flags
	deck string
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Present a deck or a list of images",
		UsageText: "slides show [--deck NAME] [PATH|URL...]",
		Description: `Opens a presentation directly.

With --deck, presents a deck from the config file. Otherwise each argument is
an image URL, an image file or a directory whose images are shown in name order.

Closing the presentation returns to the deck index when decks are configured.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "deck",
				Aliases:     []string{"d"},
				Usage:       "name of a configured deck",
				Destination: &cmd.deck,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(_ context.Context, c *cli.Command) error {
	res, err := cmd.resolve(c.Args().Slice())
	if err != nil {
		return err
	}
	return runTUI(cmd.flags, &res)
}

func (cmd *ShowCmd) resolve(args []string) (deck.Resolved, error) {
	cfg := cmd.flags.Config

	if cmd.deck != "" {
		if len(args) > 0 {
			return deck.Resolved{}, errors.New("--deck cannot be combined with image arguments")
		}

		d, ok := cfg.FindDeck(cmd.deck)
		if !ok {
			if hint, ok := deck.Suggest(cmd.deck, cfg.DeckNames()); ok {
				return deck.Resolved{}, fmt.Errorf("unknown deck %q, did you mean %q?", cmd.deck, hint)
			}
			return deck.Resolved{}, fmt.Errorf("unknown deck %q", cmd.deck)
		}
		return deck.Resolve(cfg, d)
	}

	if len(args) == 0 {
		return deck.Resolved{}, errors.New("nothing to show; pass --deck or image paths")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return deck.Resolved{}, fmt.Errorf("get working directory: %w", err)
	}
	return deck.FromArgs(args, cwd)
}
