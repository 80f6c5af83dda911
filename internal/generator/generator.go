// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package generator orchestrates batch playlist generation: it wires
// the media library, the composition engine, persisted state and the
// playlist write-back for each profile (daily, weekly, moods, liked
// artists).
package generator

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plexcurator/curator/internal/compose"
	"github.com/plexcurator/curator/internal/config"
	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/logging"
	"github.com/plexcurator/curator/internal/plex"
	"github.com/plexcurator/curator/internal/poster"
)

// MediaLibrary is the read side of the media server consumed by the
// fetchers. plex.Client satisfies it; tests supply fakes.
type MediaLibrary interface {
	SearchTracksByFacet(ctx context.Context, facet plex.Facet, value string) ([]library.Track, error)
	TracksByArtist(ctx context.Context, artistID string) ([]library.Track, error)
	TracksByRatingAtLeast(ctx context.Context, minRating int) ([]library.Track, error)
	TrackByID(ctx context.Context, trackID string) (library.Track, error)
	SimilarArtists(ctx context.Context, artistID string) ([]library.ArtistRef, error)
	SimilarTracks(ctx context.Context, trackID string) ([]library.Track, error)
	FindArtistByName(ctx context.Context, name string) (library.ArtistRef, error)
}

// PlaylistWriter is the write side: playlist create/update, contents
// and poster upload. plex.Client satisfies it.
type PlaylistWriter interface {
	UpsertPlaylist(ctx context.Context, title string, trackIDs []string, summary string) (string, error)
	UploadPoster(ctx context.Context, ratingKey string, image []byte) error
	FindPlaylist(ctx context.Context, title string) (plex.Playlist, bool, error)
	PlaylistItems(ctx context.Context, ratingKey string) ([]library.Track, error)
	ClearPlaylist(ctx context.Context, ratingKey string) error
	AddPlaylistItems(ctx context.Context, ratingKey string, trackIDs []string) error
}

// Generator runs batch playlist generation against one media server.
type Generator struct {
	lib     MediaLibrary
	writer  PlaylistWriter
	posters *poster.Source
	cfg     *config.Config
	rng     compose.Rand
	log     zerolog.Logger
	runID   string
}

// New builds a generator. posters may be nil when cover art is
// disabled; rng is injected so tests can run deterministically.
func New(lib MediaLibrary, writer PlaylistWriter, posters *poster.Source, cfg *config.Config, rng compose.Rand) *Generator {
	runID := uuid.NewString()
	return &Generator{
		lib:     lib,
		writer:  writer,
		posters: posters,
		cfg:     cfg,
		rng:     rng,
		log:     logging.With().Str("component", "generator").Str("run_id", runID).Logger(),
		runID:   runID,
	}
}

// selectionConfig maps the shared selection settings onto one
// profile's composition config. songsOverride <= 0 inherits the
// shared songs-per-playlist value.
func (g *Generator) selectionConfig(songsOverride int, requiredFraction float64) compose.SelectionConfig {
	s := g.cfg.Selection
	songs := s.SongsPerPlaylist
	if songsOverride > 0 {
		songs = songsOverride
	}
	return compose.SelectionConfig{
		TargetSize:                songs,
		MaxArtistShare:            s.MaxArtistShare,
		MaxLikedShare:             s.MaxLikedShare,
		MinVarietyShare:           s.MinVarietyShare,
		MinDurationSeconds:        s.MinSongDurationSeconds,
		MaxSongsPerAlbum:          s.MaxSongsPerAlbum,
		PreventConsecutiveArtists: s.PreventConsecutiveArtists,
		MoodGroupingEnabled:       s.MoodGrouping,
		RequiredFraction:          requiredFraction,
	}
}
