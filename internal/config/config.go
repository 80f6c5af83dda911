// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package config loads and validates Curator's configuration from
// defaults, an optional YAML file and environment variables, in that
// order of precedence (environment wins).
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/plexcurator/curator/internal/store"
)

// Config is the complete application configuration.
type Config struct {
	Plex         PlexConfig         `koanf:"plex"`
	Selection    SelectionSettings  `koanf:"selection"`
	Daily        ProfileConfig      `koanf:"daily"`
	Weekly       ProfileConfig      `koanf:"weekly"`
	Moods        MoodsConfig        `koanf:"moods"`
	LikedArtists LikedArtistsConfig `koanf:"liked_artists"`
	Cache        CacheConfig        `koanf:"cache"`
	Posters      PosterConfig       `koanf:"posters"`
	Logging      LoggingConfig      `koanf:"logging"`

	// Workers bounds concurrent facet fetches per playlist.
	Workers int `koanf:"workers" validate:"min=1,max=16"`
}

// PlexConfig holds the media server connection settings.
type PlexConfig struct {
	URL   string `koanf:"url" validate:"required,url"`
	Token string `koanf:"token" validate:"required"`
}

// SelectionSettings are the shared composition knobs applied to every
// profile unless the profile overrides them.
type SelectionSettings struct {
	SongsPerPlaylist          int     `koanf:"songs_per_playlist" validate:"min=1"`
	MaxArtistShare            float64 `koanf:"max_artist_share" validate:"min=0,max=1"`
	MaxLikedShare             float64 `koanf:"max_liked_share" validate:"min=0,max=1"`
	MinVarietyShare           float64 `koanf:"min_variety_share" validate:"min=0,max=1"`
	MinSongDurationSeconds    int     `koanf:"min_song_duration_seconds" validate:"min=0"`
	MaxSongsPerAlbum          int     `koanf:"max_songs_per_album" validate:"min=0"`
	PreventConsecutiveArtists bool    `koanf:"prevent_consecutive_artists"`
	MoodGrouping              bool    `koanf:"mood_grouping"`
}

// ProfileConfig configures a genre-rotation profile (daily, weekly).
type ProfileConfig struct {
	PlaylistCount    int     `koanf:"playlist_count" validate:"min=0"`
	SongsPerPlaylist int     `koanf:"songs_per_playlist" validate:"min=0"` // 0 inherits Selection
	GenreGroupsFile  string  `koanf:"genre_groups_file"`
	RotationFile     string  `koanf:"rotation_file"`
	MaxLogEntries    int     `koanf:"max_log_entries" validate:"min=0"`
	RequiredFraction float64 `koanf:"required_fraction" validate:"min=0,max=1"`
}

// MoodsConfig configures mood-group playlists.
type MoodsConfig struct {
	Enabled          bool    `koanf:"enabled"`
	MoodGroupsFile   string  `koanf:"mood_groups_file"`
	RequiredFraction float64 `koanf:"required_fraction" validate:"min=0,max=1"`
}

// LikedArtistsConfig configures similarity mixes seeded from liked
// artists.
type LikedArtistsConfig struct {
	PlaylistCount int `koanf:"playlist_count" validate:"min=0"`
	MinRating     int `koanf:"min_rating" validate:"min=1,max=10"`

	// SimilarityMethod picks how mixes are seeded: similar_artists
	// expands a liked artist, similar_tracks expands a random liked
	// song, random chooses between them per playlist.
	SimilarityMethod string `koanf:"similarity_method" validate:"oneof=similar_artists similar_tracks random"`

	MaxSimilarArtists int     `koanf:"max_similar_artists" validate:"min=0"`
	RotationFile      string  `koanf:"rotation_file"`
	MaxLogEntries     int     `koanf:"max_log_entries" validate:"min=0"`
	RequiredFraction  float64 `koanf:"required_fraction" validate:"min=0,max=1"`

	// Seed share bounds: the fraction of the playlist reserved for
	// the seed artist's own tracks.
	SeedShareMin float64 `koanf:"seed_share_min" validate:"min=0,max=1"`
	SeedShareMax float64 `koanf:"seed_share_max" validate:"min=0,max=1"`
}

// CacheConfig configures the liked-artist cache.
type CacheConfig struct {
	File       string `koanf:"file"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"min=0"`
}

// PosterConfig configures playlist cover art.
type PosterConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	Spotify bool   `koanf:"spotify"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Default returns the configuration defaults applied before file and
// environment overrides.
func Default() Config {
	return Config{
		Plex: PlexConfig{
			URL: "http://localhost:32400",
		},
		Selection: SelectionSettings{
			SongsPerPlaylist:          50,
			MaxArtistShare:            0.15,
			MaxLikedShare:             0.5,
			MinVarietyShare:           0.2,
			MinSongDurationSeconds:    60,
			MaxSongsPerAlbum:          2,
			PreventConsecutiveArtists: true,
			MoodGrouping:              true,
		},
		Daily: ProfileConfig{
			PlaylistCount:    1,
			RotationFile:     store.DefaultRotationFile("daily"),
			MaxLogEntries:    10,
			RequiredFraction: 0.8,
		},
		Weekly: ProfileConfig{
			PlaylistCount:    1,
			SongsPerPlaylist: 100,
			RotationFile:     store.DefaultRotationFile("weekly"),
			MaxLogEntries:    5,
			RequiredFraction: 0.8,
		},
		Moods: MoodsConfig{
			Enabled:          true,
			RequiredFraction: 0.5,
		},
		LikedArtists: LikedArtistsConfig{
			PlaylistCount:     2,
			MinRating:         8,
			SimilarityMethod:  "random",
			MaxSimilarArtists: 15,
			RotationFile:      store.DefaultRotationFile("liked-artists"),
			MaxLogEntries:     20,
			RequiredFraction:  0.6,
			SeedShareMin:      0.3,
			SeedShareMax:      0.5,
		},
		Cache: CacheConfig{
			File:       store.DefaultLikedCacheFile(),
			MaxAgeDays: 7,
		},
		Posters: PosterConfig{
			Enabled: true,
			Spotify: true,
			Dir:     store.DefaultPosterDir(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Workers: 4,
	}
}

// Validate checks the configuration, failing fast on out-of-range
// values before any playlist generation starts.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.LikedArtists.SeedShareMin > c.LikedArtists.SeedShareMax {
		return fmt.Errorf("invalid configuration: seed share min %v exceeds max %v",
			c.LikedArtists.SeedShareMin, c.LikedArtists.SeedShareMax)
	}
	return nil
}
