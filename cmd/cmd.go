// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func sessionIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    "Session ID",
		Required: true,
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// templateCommand manages the template catalog.
func templateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "template",
		Aliases: []string{"tpl"},
		Usage:   "Manage print templates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List templates",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "size",
						Usage: "Only list templates for this print size",
					},
				}, outputFlags()...),
				Action: r.TemplateList,
			},
			{
				Name:  "add",
				Usage: "Create a template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Template name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "size",
						Usage:    "Print size, e.g. 4x6",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "holes",
						Usage:    "Photo holes as x,y,width,height separated by ';'",
						Required: true,
					},
				},
				Action: r.TemplateAdd,
			},
			{
				Name:  "import",
				Usage: "Create templates from a TOML file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.TemplateImport,
			},
			{
				Name:  "delete",
				Usage: "Delete a template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Template ID",
						Required: true,
					},
				},
				Action: r.TemplateDelete,
			},
		},
	}
}

// packageCommand manages packages.
func packageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "package",
		Aliases: []string{"pkg"},
		Usage:   "Manage print packages",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a package",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Package name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "size",
						Usage:    "Print size shared by every item",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Package description",
					},
					&cli.StringSliceFlag{
						Name:     "item",
						Usage:    "Template and quantity as templateID:quantity (repeatable)",
						Required: true,
					},
				},
				Action: r.PackageCreate,
			},
			{
				Name:  "list",
				Usage: "List packages",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "size",
						Usage: "Only list packages for this print size",
					},
				},
				Action: r.PackageList,
			},
			{
				Name:  "show",
				Usage: "Show a package and its items",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Package ID",
						Required: true,
					},
				},
				Action: r.PackageShow,
			},
			{
				Name:  "preview",
				Usage: "Show the prints a new session would start with",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Package ID",
						Required: true,
					},
				}, outputFlags()...),
				Action: r.PackagePreview,
			},
		},
	}
}

// sessionCommand handles client sessions and their prints.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage client sessions",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Start a session for a client",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "client",
						Usage:    "Client name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "package",
						Usage: "Package ID to expand into prints",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Google Drive folder holding the client's photos",
					},
				},
				Action: r.SessionCreate,
			},
			{
				Name:  "list",
				Usage: "List sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "client",
						Usage: "Filter by client name",
					},
					&cli.StringFlag{
						Name:  "package",
						Usage: "Filter by package ID",
					},
				},
				Action: r.SessionList,
			},
			{
				Name:  "show",
				Usage: "Show or export a session",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, md or json",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export to this file instead of stdout",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:  "add-print",
				Usage: "Add a print of a template",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "template",
						Usage:    "Template ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "additional",
						Usage: "Mark the print as additional to the package",
					},
				},
				Action: r.SessionAddPrint,
			},
			{
				Name:  "remove-print",
				Usage: "Remove a print",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "group",
						Usage:    "Print (group) ID",
						Required: true,
					},
				},
				Action: r.SessionRemovePrint,
			},
			{
				Name:  "assign",
				Usage: "Assign a photo to a slot",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "slot",
						Usage:    "Slot ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "photo",
						Usage:    "Photo reference (Drive file ID)",
						Required: true,
					},
				},
				Action: r.SessionAssign,
			},
			{
				Name:  "clear",
				Usage: "Remove the photo from a slot",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "slot",
						Usage:    "Slot ID",
						Required: true,
					},
				},
				Action: r.SessionClear,
			},
			{
				Name:  "place",
				Usage: "Set the crop of a slot's photo",
				Flags: []cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "slot",
						Usage:    "Slot ID",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "offset-x",
						Usage: "Horizontal offset as a fraction of the hole width",
					},
					&cli.FloatFlag{
						Name:  "offset-y",
						Usage: "Vertical offset as a fraction of the hole height",
					},
					&cli.FloatFlag{
						Name:  "scale",
						Usage: "Scale relative to auto-fit",
						Value: 1,
					},
					&cli.FloatFlag{
						Name:  "rotation",
						Usage: "Rotation in degrees",
					},
				},
				Action: r.SessionPlace,
			},
			{
				Name:  "candidates",
				Usage: "List templates a print can be swapped to",
				Flags: append([]cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "group",
						Usage:    "Print (group) ID",
						Required: true,
					},
				}, outputFlags()...),
				Action: r.SessionCandidates,
			},
			{
				Name:  "swap",
				Usage: "Swap a print to another template",
				Flags: append([]cli.Flag{
					sessionIDFlag(),
					&cli.StringFlag{
						Name:     "group",
						Usage:    "Print (group) ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "template",
						Usage:    "Template ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Preview the swap without saving",
					},
				}, outputFlags()...),
				Action: r.SessionSwap,
			},
		},
	}
}

// driveCommand handles Google Drive operations.
func driveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "drive",
		Usage: "Google Drive photo operations",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Authenticate with Google Drive using OAuth2",
				Flags: []cli.Flag{
					configFlag(),
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
				},
				Action: r.DriveAuth,
			},
			{
				Name:  "photos",
				Usage: "List photos in a folder",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Drive folder ID",
						Required: true,
					},
				}, outputFlags()...),
				Action: r.DrivePhotos,
			},
			{
				Name:  "folders",
				Usage: "List folders",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "parent",
						Usage: "Parent folder ID (default: root)",
					},
				}, outputFlags()...),
				Action: r.DriveFolders,
			},
			{
				Name:  "download",
				Usage: "Download a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Drive file ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: the file ID)",
					},
				},
				Action: r.DriveDownload,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive template picker.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive template picker for a session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "session",
				Aliases:  []string{"s"},
				Usage:    "Session ID",
				Required: true,
			},
		},
		Action: r.TUI,
	}
}
