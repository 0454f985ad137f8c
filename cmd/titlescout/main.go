// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "titlescout",
		Usage: "Aggregate remote title suggestions into a ranked catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (empty for in-memory)",
				Value:   "titlescout_db",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one session for a search term and print the catalog",
				ArgsUsage: "<term>",
				Action:    searchCommand,
				Flags: append(pipelineFlags(),
					&cli.BoolFlag{
						Name:    "variations",
						Aliases: []string{"v"},
						Usage:   "Probe suffix, letter and digit variants of the term",
					},
					&cli.BoolFlag{
						Name:    "images",
						Aliases: []string{"i"},
						Usage:   "Keep image descriptors on catalog entries",
					},
					&cli.StringFlag{
						Name:  "export-dir",
						Usage: "Also export the catalog as a JSON artifact into this directory",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print fetch progress to stderr",
					},
				),
			},
			{
				Name:   "discover",
				Usage:  "Run one discovery session (fixed seed probes) and print the catalog",
				Action: discoverCommand,
				Flags: append(pipelineFlags(),
					&cli.BoolFlag{
						Name:    "images",
						Aliases: []string{"i"},
						Usage:   "Keep image descriptors on catalog entries",
					},
					&cli.StringFlag{
						Name:  "export-dir",
						Usage: "Also export the catalog as a JSON artifact into this directory",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print fetch progress to stderr",
					},
				),
			},
			{
				Name:   "latest",
				Usage:  "Print the most recently stored catalog",
				Action: latestCommand,
			},
			{
				Name:   "history",
				Usage:  "Print the stored session history, newest first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of history records to print",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "Remove all stored history records",
						Action: historyClearCommand,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the most recently stored catalog as a JSON artifact",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Target directory for the artifact",
						Value: ".",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// pipelineFlags exposes every pipeline knob as an individually overridable
// flag; unset flags keep the config-file or default value.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "suggest-host",
			Usage: "Base URL of the remote suggestion endpoint",
		},
		&cli.IntFlag{
			Name:  "max-queries",
			Usage: "Cap on probes generated per session",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of concurrent lookup workers",
		},
		&cli.IntFlag{
			Name:  "request-timeout-ms",
			Usage: "Per-lookup timeout in milliseconds",
		},
		&cli.IntFlag{
			Name:  "global-timeout-ms",
			Usage: "Whole-session claim deadline in milliseconds",
		},
		&cli.IntFlag{
			Name:  "delay-ms",
			Usage: "Per-worker delay between lookups in milliseconds",
		},
		&cli.IntFlag{
			Name:  "history-limit",
			Usage: "Cap on stored history records",
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
