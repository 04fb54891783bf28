package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(_ context.Context, _ *cli.Command) error {
	if len(cmd.flags.Config.Decks) == 0 {
		return errors.New("no decks configured; run 'slides init' or 'slides show PATH'")
	}
	return runTUI(cmd.flags, nil)
}
