package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/slides/internal/commands/init"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool
	dir   string
	name  string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a slides configuration with an interactive wizard",
		UsageText: "slides init [options]",
		Description: `Sets up slides for first-time use with an interactive wizard.

The wizard writes ~/.config/slides/config.yaml with one deck pointing at an
image directory, plus your theme and close behavior.

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration (a .bak copy is kept).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "image directory for the first deck",
				Destination: &cmd.dir,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "name of the first deck",
				Destination: &cmd.name,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes,
		Force:      cmd.force,
		DeckDir:    cmd.dir,
		DeckName:   cmd.name,
		Out:        c.Root().Writer,
	})
	return wizard.Run(ctx)
}
