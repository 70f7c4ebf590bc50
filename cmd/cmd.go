// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// setupCommand handles database and configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Action: r.Setup,
	}
}

// serveCommand runs the JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides [server] host and port",
			},
		},
		Action: r.Serve,
	}
}

// usersCommand manages the editorial team.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage users",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Unique email", Required: true},
				},
				Action: r.UsersAdd,
			},
			{
				Name:   "list",
				Usage:  "List users",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.UsersList,
			},
		},
	}
}

// contentsCommand inspects and maintains the editorial calendar.
func contentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "contents",
		Aliases: []string{"c"},
		Usage:   "Inspect the editorial calendar",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List contents",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "ready", Usage: "Only contents marked ready (use --ready=false for the rest)"},
					&cli.StringFlag{Name: "type", Usage: "Content type"},
					&cli.StringFlag{Name: "month", Usage: "Calendar month as YYYY-MM"},
					jsonFlag(),
				},
				Action: r.ContentsList,
			},
			{
				Name:      "show",
				Usage:     "Show one content as JSON",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.ContentsShow,
			},
			{
				Name:      "remove",
				Usage:     "Remove a content, its list and reunion, and revert its medium",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.ContentsRemove,
			},
			{
				Name:  "export",
				Usage: "Export a calendar month",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "month", Usage: "Calendar month as YYYY-MM", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, md or txt", Value: "md"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.ContentsExport,
			},
		},
	}
}

// mediaCommand drives the medium lifecycle.
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Articles, Spotify playlists and videos",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List media of one kind (article, spotify, video)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "kind"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Filter by status"},
					&cli.StringFlag{Name: "q", Usage: "Name contains"},
					jsonFlag(),
				},
				Action: r.MediaList,
			},
			{
				Name:  "status",
				Usage: "Move a medium to another status",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "status"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Update date (YYYY-MM-DD), required to publish"},
					&cli.StringFlag{Name: "user", Usage: "Assign this user ID"},
				},
				Action: r.MediaStatus,
			},
		},
	}
}

// listsCommand shows scheduling lists.
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lists",
		Usage: "Scheduling lists",
		Commands: []*cli.Command{
			{
				Name:   "upcoming",
				Usage:  "Lists releasing in the next two weeks",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ListsUpcoming,
			},
		},
	}
}
