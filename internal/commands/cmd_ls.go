package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/slides/internal/core/deck"
	"github.com/hay-kot/slides/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// deckInfo is a deck row in ls output.
type deckInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Images int    `json:"images"`
	Error  string `json:"error,omitempty"`
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List configured decks",
		UsageText: "slides ls [--json]",
		Description: `Displays a table of configured decks with their image counts.

Decks that fail to resolve (missing directory, bad manifest, no images) show
the error instead of a count.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if len(cfg.Decks) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No decks configured\n")
		}
		return nil
	}

	infos := make([]deckInfo, len(cfg.Decks))
	for i, d := range cfg.Decks {
		info := deckInfo{Name: d.Name, Title: d.DisplayTitle()}
		res, err := deck.Resolve(cfg, d)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Title = res.Title
			info.Images = len(res.URLs)
		}
		infos[i] = info
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode deck: %w", err)
			}
			if info.Error != "" {
				data := map[string]any{"deck": info.Name, "error": info.Error}
				if err := iojson.WriteError(errWriter(c), "resolve deck", data); err != nil {
					return err
				}
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tIMAGES")
	for _, info := range infos {
		images := fmt.Sprintf("%d", info.Images)
		if info.Error != "" {
			images = "error: " + info.Error
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Title, images)
	}
	return w.Flush()
}
