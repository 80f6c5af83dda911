// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load builds the configuration by layering, in order: built-in
// defaults, the YAML file at configPath (skipped when empty or
// absent), then environment variables. The result is validated before
// being returned.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are ignored so unrelated environment
// content never leaks into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var envMappings = map[string]string{
	"plex_url":   "plex.url",
	"plex_token": "plex.token",

	"songs_per_playlist":            "selection.songs_per_playlist",
	"max_artist_percentage":         "selection.max_artist_share",
	"max_liked_artists_percentage":  "selection.max_liked_share",
	"min_variety_percentage":        "selection.min_variety_share",
	"min_song_duration_seconds":     "selection.min_song_duration_seconds",
	"max_songs_per_album":           "selection.max_songs_per_album",
	"prevent_consecutive_artists":   "selection.prevent_consecutive_artists",
	"mood_grouping_enabled":         "selection.mood_grouping",

	"daily_playlist_count":     "daily.playlist_count",
	"daily_songs_per_playlist": "daily.songs_per_playlist",
	"daily_genre_groups_file":  "daily.genre_groups_file",
	"daily_log_file":           "daily.rotation_file",
	"daily_max_log_entries":    "daily.max_log_entries",
	"daily_min_songs_required": "daily.required_fraction",

	"weekly_playlist_count":     "weekly.playlist_count",
	"weekly_songs_per_playlist": "weekly.songs_per_playlist",
	"weekly_genre_groups_file":  "weekly.genre_groups_file",
	"weekly_log_file":           "weekly.rotation_file",
	"weekly_max_log_entries":    "weekly.max_log_entries",
	"weekly_min_songs_required": "weekly.required_fraction",

	"moods_enabled":            "moods.enabled",
	"mood_groups_file":         "moods.mood_groups_file",
	"moods_min_songs_required": "moods.required_fraction",

	"liked_artists_playlist_count":     "liked_artists.playlist_count",
	"liked_artists_min_rating":         "liked_artists.min_rating",
	"liked_artists_similarity_method":  "liked_artists.similarity_method",
	"liked_artists_max_similar":        "liked_artists.max_similar_artists",
	"liked_artists_log_file":           "liked_artists.rotation_file",
	"liked_artists_max_log_entries":    "liked_artists.max_log_entries",
	"liked_artists_min_songs_required": "liked_artists.required_fraction",

	"cache_file": "cache.file",
	"cache_days": "cache.max_age_days",

	"posters_enabled": "posters.enabled",
	"poster_dir":      "posters.dir",
	"posters_spotify": "posters.spotify",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"workers": "workers",
}
