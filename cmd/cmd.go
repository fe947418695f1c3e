// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Bearer token to use instead of the interactive authorization flow",
	}
}

// setupCommand handles database and configuration bootstrap.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration and run database migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the HTTP service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the profile and session broker HTTP service",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides config host:port)",
			},
		},
		Action: r.Serve,
	}
}

// tokenCommand performs the OAuth2 flow from the terminal and prints the token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "Authorize with Spotify and print the access token",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Token,
	}
}

// usersCommand manages stored user profiles.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage stored user profiles",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Email address (unique)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UsersCreate,
			},
			{
				Name:  "list",
				Usage: "List stored user profiles",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "email",
						Usage: "Filter by email",
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
				Action: r.UsersList,
			},
		},
	}
}

// spotifyCommand handles direct upstream catalog queries.
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Query the Spotify catalog",
		Commands: []*cli.Command{
			{
				Name:  "top-artists",
				Usage: "List the listener's top artists",
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of artists to return",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "time-range",
						Usage: "Aggregation window (short_term, medium_term, long_term)",
						Value: "medium_term",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyTopArtists,
			},
			{
				Name:  "top-tracks",
				Usage: "List the listener's top tracks",
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "time-range",
						Usage: "Aggregation window (short_term, medium_term, long_term)",
						Value: "medium_term",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyTopTracks,
			},
			{
				Name:  "search",
				Usage: "Look up a single track by title and artist",
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.StringFlag{
						Name:     "track",
						Usage:    "Track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SpotifySearch,
			},
		},
	}
}

// enrichCommand attaches a listener's top tracks to a stored profile.
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Attach top tracks to a stored profile as preferences",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:     "user",
				Usage:    "User ID to enrich",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Top tracks to consider",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "time-range",
				Usage: "Aggregation window (short_term, medium_term, long_term)",
				Value: "medium_term",
			},
		},
		Action: r.Enrich,
	}
}

// exportCommand writes the listening profile to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the listening profile across time ranges",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Profile owner label written into the export",
				Value: "listener",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format (json, csv, markdown, txt)",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.StringSliceFlag{
				Name:  "range",
				Usage: "Time ranges to export (repeatable; defaults to all three)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Items per list",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Upstream requests per second",
			},
		},
		Action: r.Export,
	}
}

// apiCommand handles direct calls against a running tastify server.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to a running tastify server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
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
			{
				Name:  "snapshot",
				Usage: "Full server state snapshot (health, users, top lists)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save snapshot to api_snapshot.json",
						Value: false,
					},
				},
				Action: r.APISnapshot,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive enrichment.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for preference enrichment",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Top tracks to consider",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "time-range",
				Usage: "Aggregation window (short_term, medium_term, long_term)",
				Value: "medium_term",
			},
		},
		Action: r.TUI,
	}
}
