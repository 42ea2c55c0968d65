package main

import (
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/caplaunch/caplaunch/internal/feedback"
	"github.com/caplaunch/caplaunch/internal/ops"
)

// runCLI runs the subcommand CLI. Parse failures render as feedback entries
// on the launcher surface instead of propagating to the process exit code.
func runCLI(deps ops.Deps, storePath string, args []string, out io.Writer) {
	app := newCLIApp(deps, storePath)
	app.Writer = out
	if err := app.Run(args); err != nil {
		f := feedback.New()
		f.AddError(err)
		_ = f.Send(out)
	}
}

// newCLIApp creates the CLI application with all commands. Subcommands emit
// the same feedback JSON as launcher dispatch, so the binary behaves
// identically whichever way the launcher invokes it.
func newCLIApp(deps ops.Deps, storePath string) *cli.App {
	app := &cli.App{
		Name:    "caplaunch",
		Usage:   "Capacities commands for your launcher",
		Version: Version,
		Commands: []*cli.Command{
			searchCmd(deps),
			saveCmd(deps),
			noteCmd(deps),
			configCmd(deps, storePath),
		},
	}
	// Disable the default exit handler so Run returns errors for rendering
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// searchCmd creates the search command.
func searchCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search content across spaces (3+ characters)",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			return send(c, ops.Search(c.Context, deps, query))
		},
	}
}

// saveCmd creates the save command (preview phase of the two-phase flow).
func saveCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Preview saving a weblink; confirm by passing the emitted token back",
		ArgsUsage: "<url> [title]",
		Action: func(c *cli.Context) error {
			return send(c, ops.PrepareSaveWeblink(deps, c.Args().Slice()))
		},
	}
}

// noteCmd creates the note command (preview phase of the two-phase flow).
func noteCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Preview appending text to today's daily note",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			return send(c, ops.PrepareNote(deps, c.Args().Slice()))
		},
	}
}

// configCmd creates the config command.
func configCmd(deps ops.Deps, storePath string) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show configuration status and instructions",
		Action: func(c *cli.Context) error {
			return send(c, ops.ConfigInfo(deps, storePath))
		},
	}
}

// send writes feedback JSON to the app writer.
func send(c *cli.Context, f *feedback.Feedback) error {
	return f.Send(c.App.Writer)
}
