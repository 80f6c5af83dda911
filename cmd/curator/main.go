// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package main is the entry point for the curator command line tool.
//
// Curator generates rotating music playlists on a Plex Media Server:
// daily and weekly genre mixes, mood playlists built from sonic
// analysis tags, and similarity mixes seeded from the user's
// highest-rated artists.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (PLEX_URL, PLEX_TOKEN, ...)
//   - Config file (--config, default under XDG config home)
//   - Built-in defaults
//
// # Example Usage
//
//	export PLEX_URL=http://localhost:32400
//	export PLEX_TOKEN=your-plex-token
//	curator generate --profile daily
//	curator generate --profile all
//	curator fetch-liked --force
//	curator shuffle "Daily Mix"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/plexcurator/curator/internal/compose"
	"github.com/plexcurator/curator/internal/config"
	"github.com/plexcurator/curator/internal/generator"
	"github.com/plexcurator/curator/internal/logging"
	"github.com/plexcurator/curator/internal/plex"
	"github.com/plexcurator/curator/internal/poster"
	"github.com/plexcurator/curator/internal/store"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:    "curator",
		Usage:   "Generate rotating music playlists on a Plex Media Server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   store.DefaultConfigFile(),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate playlists for one profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "profile to run: daily, weekly, moods, liked-artists or all",
						Value:   "all",
					},
				},
				Action: func(c *cli.Context) error {
					return runGenerate(c.Context, c.String("config"), c.String("profile"))
				},
			},
			{
				Name:  "fetch-liked",
				Usage: "Refresh the liked-artist cache from track ratings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "refresh even when the cache is still fresh",
					},
				},
				Action: func(c *cli.Context) error {
					return runFetchLiked(c.Context, c.String("config"), c.Bool("force"))
				},
			},
			{
				Name:      "shuffle",
				Usage:     "Reshuffle an existing playlist in place",
				ArgsUsage: "<playlist title>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: curator shuffle <playlist title>")
					}
					return runShuffle(c.Context, c.String("config"), c.Args().First())
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the generator stack.
func setup(configPath string) (*generator.Generator, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	client := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token)

	var posters *poster.Source
	if cfg.Posters.Enabled {
		posters = poster.NewSource(cfg.Posters.Dir)
	}

	gen := generator.New(client, client, posters, cfg, compose.NewRand())
	return gen, cfg, nil
}

func runGenerate(ctx context.Context, configPath, profile string) error {
	gen, _, err := setup(configPath)
	if err != nil {
		return err
	}

	var report *generator.Report
	switch profile {
	case "daily":
		report, err = gen.RunDaily(ctx)
	case "weekly":
		report, err = gen.RunWeekly(ctx)
	case "moods":
		report, err = gen.RunMoods(ctx)
	case "liked-artists":
		report, err = gen.RunLikedArtists(ctx)
	case "all":
		report, err = gen.RunAll(ctx)
	default:
		return fmt.Errorf("unknown profile %q (want daily, weekly, moods, liked-artists or all)", profile)
	}

	if report != nil {
		fmt.Print(report.Summary())
	}
	return err
}

func runFetchLiked(ctx context.Context, configPath string, force bool) error {
	gen, cfg, err := setup(configPath)
	if err != nil {
		return err
	}
	cache, err := gen.FetchLiked(ctx, force)
	if err != nil {
		return err
	}
	fmt.Printf("%d liked artists from %d rated tracks cached in %s\n",
		len(cache.Artists), cache.TrackCount, cfg.Cache.File)
	return nil
}

func runShuffle(ctx context.Context, configPath, title string) error {
	gen, _, err := setup(configPath)
	if err != nil {
		return err
	}
	return gen.ShufflePlaylist(ctx, title)
}
