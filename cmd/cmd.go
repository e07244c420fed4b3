// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the gateway session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Register a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthSignUp,
			},
			{
				Name:  "verify",
				Usage: "Redeem an email verification token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Action: r.AuthVerify,
			},
			{
				Name:  "signin",
				Usage: "Sign in and persist the access credential",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthSignIn,
			},
			{
				Name:   "signout",
				Usage:  "Clear the stored session (server logout is best-effort)",
				Action: r.AuthSignOut,
			},
			{
				Name:   "refresh",
				Usage:  "Exchange the refresh cookie for a fresh access token",
				Action: r.AuthRefresh,
			},
			{
				Name:   "status",
				Usage:  "Show session state and gateway health",
				Action: r.AuthStatus,
			},
			{
				Name:   "google",
				Usage:  "Open the gateway's Google sign-in page in the browser",
				Action: r.AuthGoogle,
			},
		},
	}
}

// searchCommand handles candidate search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the gateway for import candidates",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// importCommand submits a candidate for import
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a search candidate into the library",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source-id",
				Usage:    "Source video ID of the candidate",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Candidate title",
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Source channel, becomes the artist",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Source provider",
			},
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Poll the import job until it finishes",
			},
		},
		Action: r.Import,
	}
}

// libraryCommand handles library listing, export, and playback
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Library operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the songs in your library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, md, text)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "play",
				Usage: "Resolve a stream URL for a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LibraryPlay,
			},
		},
	}
}

// jobsCommand handles import job inspection
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Inspect import jobs",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the status of an import job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Poll until the job reaches a terminal state",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Polling interval",
					},
				},
				Action: r.JobStatus,
			},
		},
	}
}

// adminCommand handles the admin console endpoints
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Admin console data (requires an admin account)",
		Commands: []*cli.Command{
			{
				Name:   "users",
				Usage:  "List registered users",
				Action: r.AdminUsers,
			},
			{
				Name:   "songs",
				Usage:  "List catalog songs",
				Action: r.AdminSongs,
			},
			{
				Name:   "jobs",
				Usage:  "List import jobs",
				Action: r.AdminJobs,
			},
			{
				Name:  "dump",
				Usage: "Fetch all admin endpoints at once",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AdminDump,
			},
		},
	}
}

// apiCommand handles direct gateway calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the gateway",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "no-auth",
						Usage: "Skip credential injection",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the embedded defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Path for the new configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the local session database",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive library browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse and play your library interactively",
		Action:  r.TUI,
	}
}
