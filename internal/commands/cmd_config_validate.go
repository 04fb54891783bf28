package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/slides/internal/core/styles"
	"github.com/hay-kot/slides/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// validationReport is the JSON output of config validate.
type validationReport struct {
	Valid  bool     `json:"valid"`
	Path   string   `json:"path"`
	Decks  int      `json:"decks"`
	Errors []string `json:"errors,omitempty"`
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "slides config validate [options]",
				Description: "Validates the configuration file, checking deck directories, manifests and glob patterns.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	report := validationReport{
		Valid: true,
		Path:  cmd.flags.ConfigPath,
		Decks: len(cmd.flags.Config.Decks),
	}

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		report.Valid = false
		report.Errors = errorLines(err)
	}

	out := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.WriteWith(out, errWriter(c), report); err != nil {
			return err
		}
		if !report.Valid {
			data := map[string]any{"path": report.Path, "errors": report.Errors}
			if err := iojson.WriteError(errWriter(c), "invalid configuration", data); err != nil {
				return err
			}
			return cli.Exit("", 1)
		}
		return nil
	}

	for _, e := range report.Errors {
		_, _ = fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+e))
	}
	if report.Valid {
		_, _ = fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ Configuration is valid (%d decks)", report.Decks)))
		return nil
	}

	_, _ = fmt.Fprintln(out, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(report.Errors))))
	return cli.Exit("", 1)
}

// errorLines flattens field errors into "field: message" lines.
func errorLines(err error) []string {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = fmt.Sprintf("%s: %v", fe.Field, fe.Err)
	}
	return lines
}
