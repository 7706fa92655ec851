// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/formatter"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/repositories"
	"github.com/desertthunder/vidhi/internal/tasks"
)

const defaultConfigPath = "config.toml"

// rootCommand builds the vidhi command tree around r.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "vidhi",
		Usage:   "Manage Vidhi Sahayak legal updates from the terminal or a local browser shell",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the API key in memory for this process only",
			},
		},
		Before:   r.Init,
		After:    r.Close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, logoutCommand, statusCommand, updatesCommand,
		scrapeCommand, activityCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setupCommand writes the config template and prepares the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize database and run migrations",
		Action: r.Setup,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the API key (prompts for missing credentials)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Admin username",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Admin password",
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored API key",
		Action: r.Logout,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether an API key is stored",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Verify the stored key against the server",
			},
		},
		Action: r.Status,
	}
}

func categoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"t"},
		Usage:   "Category to use: hiring, notice, blog or all",
		Value:   models.DefaultCategory.String(),
	}
}

// updatesCommand handles listing, deleting and exporting updates
func updatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "updates",
		Aliases: []string{"u"},
		Usage:   "Browse and manage updates",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List updates in a category",
				Flags: []cli.Flag{
					categoryFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of updates per category (default from config)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UpdatesList,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete updates by ID",
				ArgsUsage: "ID [ID...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip confirmation",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent delete requests",
						Value: tasks.DefaultWorkers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Maximum requests per second",
						Value: tasks.DefaultRateLimit,
					},
				},
				Action: r.UpdatesDelete,
			},
			{
				Name:  "clear",
				Usage: "Delete ALL updates on the server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip confirmation",
					},
				},
				Action: r.UpdatesClear,
			},
			{
				Name:  "export",
				Usage: "Export updates to a file",
				Flags: []cli.Flag{
					categoryFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, markdown or txt",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   `Output file path ("-" for stdout; default vidhi_{category}_{timestamp}.{ext})`,
					},
				},
				Action: r.UpdatesExport,
			},
		},
	}
}

func scrapeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "scrape",
		Usage:  "Ask the server to fetch new updates now",
		Action: r.Scrape,
	}
}

func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Show the local log of logins, scrapes and deletions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of entries to show",
				Value: repositories.DefaultActivityLimit,
			},
			&cli.DurationFlag{
				Name:  "prune",
				Usage: "First delete entries older than this (e.g. 720h)",
				Value: time.Duration(0),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Activity,
	}
}

// apiCommand handles direct API calls for debugging
func apiCommand(r *Runner) *cli.Command {
	pathArg := func() []cli.Argument { return []cli.Argument{&cli.StringArg{Name: "path"}} }
	common := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "anonymous",
				Usage: "Do not send the stored API key",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print compact JSON",
			},
		}, extra...)
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls, prints the response body",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET",
				Arguments: pathArg(),
				Flags:     common(),
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: pathArg(),
				Flags: common(&cli.StringFlag{
					Name:    "data",
					Aliases: []string{"d"},
					Usage:   "JSON body to send",
					Value:   "{}",
				}),
				Action: r.APIPost,
			},
			{
				Name:      "delete",
				Usage:     "Direct DELETE",
				Arguments: pathArg(),
				Flags:     common(),
				Action:    r.APIDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local web shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the shell in the default browser",
			},
		},
		Action: r.Serve,
	}
}
