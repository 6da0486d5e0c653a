package main

import (
	"github.com/urfave/cli/v3"
)

// setupCommand initializes the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// authCommand handles credentials for both services
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage API credentials",
		Commands: []*cli.Command{
			{
				Name:   "clickup",
				Usage:  "Authorize with ClickUp via OAuth2",
				Action: r.AuthClickUp,
			},
			{
				Name:  "key",
				Usage: "Store an API key (canvas or clickup)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "service"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Usage:    "API key value",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "default-space",
						Usage: "Default ClickUp space ID (clickup only)",
					},
				},
				Action: r.AuthKeySet,
			},
			{
				Name:   "status",
				Usage:  "Show which credentials are configured",
				Action: r.AuthStatus,
			},
		},
	}
}

// coursesCommand handles Canvas course operations
func coursesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "Browse and manage Canvas courses",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List courses from the local cache",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Force a pull from Canvas",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (text or csv)",
						Value: "text",
					},
				},
				Action: r.CoursesList,
			},
			{
				Name:  "assignments",
				Usage: "List a course's assignments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Force a pull from Canvas",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (text, csv, or markdown)",
						Value: "text",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Write the export to a file",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Export file path (implies --save)",
					},
				},
				Action: r.CoursesAssignments,
			},
			{
				Name:  "hide",
				Usage: "Hide a course from listings and generation (-1 clears all)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CoursesHide,
			},
			{
				Name:  "unhide",
				Usage: "Make a hidden course visible again (-1 clears all)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CoursesUnhide,
			},
		},
	}
}

// clickupCommand handles ClickUp destination operations
func clickupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "clickup",
		Aliases: []string{"cu"},
		Usage:   "Browse ClickUp spaces, lists, and tasks",
		Commands: []*cli.Command{
			{
				Name:  "spaces",
				Usage: "List cached spaces and their target lists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Force a pull from ClickUp",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ClickUpSpaces,
			},
			{
				Name:  "tasks",
				Usage: "List task names in a target list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ClickUpTasks,
			},
		},
	}
}

// generateCommand runs a batch generation from the command line
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Create ClickUp tasks from a course's assignments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "course",
				Usage:    "Canvas course ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "list",
				Usage:    "ClickUp target list ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "cutoff",
				Usage: "Skip assignments due after this date (YYYY-MM-DD, or none)",
				Value: "none",
			},
			&cli.StringFlag{
				Name:  "ignore-tags",
				Usage: "Comma-separated name fragments to skip",
			},
			&cli.BoolFlag{
				Name:  "allow-duplicates",
				Usage: "Create tasks even when a similar name already exists",
			},
		},
		Action: r.GenerateRun,
	}
}

// serveCommand runs the HTTP API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API (courses, spaces, SSE generation stream)",
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive generation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for task generation",
		Action:  r.TUI,
	}
}
