// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package generator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/plexcurator/curator/internal/compose"
	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/plex"
)

// facetFetcher gathers candidates for facet themes (genre or mood
// groups) by fetching every facet of the group concurrently, bounded
// by the worker cap.
type facetFetcher struct {
	lib     MediaLibrary
	facet   plex.Facet
	workers int
}

func (f *facetFetcher) Fetch(ctx context.Context, theme compose.Theme) (compose.CandidatePool, error) {
	if len(theme.Facets) == 0 {
		return compose.CandidatePool{}, fmt.Errorf("theme %q has no facets", theme.Key)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	results := make([][]library.Track, len(theme.Facets))
	for i, facet := range theme.Facets {
		i, facet := i, facet
		g.Go(func() error {
			tracks, err := f.lib.SearchTracksByFacet(ctx, f.facet, facet)
			if err != nil {
				return fmt.Errorf("fetch %s %q: %w", f.facet, facet, err)
			}
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compose.CandidatePool{}, err
	}

	var merged []library.Track
	for _, tracks := range results {
		merged = append(merged, tracks...)
	}
	return compose.CandidatePool{Tracks: merged}, nil
}

// similarityFetcher gathers candidates for similarity themes. For an
// artist theme the seed artist's own tracks anchor the playlist at a
// configured share and sonically similar artists fill the rest; for a
// track theme the seed track anchors and its sonic neighbors form the
// pool.
type similarityFetcher struct {
	lib MediaLibrary
	cfg *similarityConfig
	rng compose.Rand

	mu sync.Mutex // guards rng: artist track fetches run concurrently
}

type similarityConfig struct {
	targetSize        int
	maxSimilarArtists int
	seedShareMin      float64
	seedShareMax      float64
	workers           int
}

func (f *similarityFetcher) Fetch(ctx context.Context, theme compose.Theme) (compose.CandidatePool, error) {
	if theme.Kind == compose.ThemeTrack {
		return f.trackPool(ctx, theme.Ref)
	}

	artistID := theme.Ref
	if artistID == "" {
		// Legacy caches carry artist names without IDs.
		ref, err := f.lib.FindArtistByName(ctx, theme.Display)
		if err != nil {
			return compose.CandidatePool{}, err
		}
		artistID = ref.ID
	}

	seedTracks, err := f.lib.TracksByArtist(ctx, artistID)
	if err != nil {
		return compose.CandidatePool{}, fmt.Errorf("seed artist tracks: %w", err)
	}
	if len(seedTracks) == 0 {
		return compose.CandidatePool{}, nil
	}

	seed := f.pickSeed(seedTracks)
	pool := append([]library.Track(nil), seedTracks...)

	similar, err := f.similarTracks(ctx, artistID, seed)
	if err != nil {
		return compose.CandidatePool{}, err
	}
	pool = append(pool, similar...)

	return compose.CandidatePool{Tracks: pool, Seed: seed}, nil
}

// pickSeed samples the seed artist's anchor tracks: a random share of
// the target size between the configured bounds.
func (f *similarityFetcher) pickSeed(seedTracks []library.Track) []library.Track {
	f.mu.Lock()
	defer f.mu.Unlock()

	share := f.cfg.seedShareMin + f.rng.Float64()*(f.cfg.seedShareMax-f.cfg.seedShareMin)
	count := int(float64(f.cfg.targetSize) * share)
	if count < 1 {
		count = 1
	}

	out := make([]library.Track, len(seedTracks))
	copy(out, seedTracks)
	f.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if count > len(out) {
		count = len(out)
	}
	return out[:count]
}

// trackPool builds the candidate pool for a track-seeded mix: the
// liked track itself plus its sonic nearest neighbors.
func (f *similarityFetcher) trackPool(ctx context.Context, trackID string) (compose.CandidatePool, error) {
	seed, err := f.lib.TrackByID(ctx, trackID)
	if err != nil {
		return compose.CandidatePool{}, fmt.Errorf("seed track: %w", err)
	}
	neighbors, err := f.lib.SimilarTracks(ctx, trackID)
	if err != nil {
		return compose.CandidatePool{}, fmt.Errorf("similar tracks of %s: %w", trackID, err)
	}
	pool := append([]library.Track{seed}, neighbors...)
	return compose.CandidatePool{Tracks: pool, Seed: []library.Track{seed}}, nil
}

// similarTracks expands the pool beyond the seed artist by walking
// sonically similar artists. Empty results are valid: not every
// library has sonic analysis.
func (f *similarityFetcher) similarTracks(ctx context.Context, artistID string, seed []library.Track) ([]library.Track, error) {
	artists, err := f.lib.SimilarArtists(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("similar artists: %w", err)
	}
	if len(artists) == 0 {
		// Fall back to per-track neighbors when artist-level sonic
		// data is missing.
		return f.similarByTracks(ctx, seed)
	}

	if limit := f.cfg.maxSimilarArtists; limit > 0 && len(artists) > limit {
		f.mu.Lock()
		f.rng.Shuffle(len(artists), func(i, j int) { artists[i], artists[j] = artists[j], artists[i] })
		f.mu.Unlock()
		artists = artists[:limit]
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.workers)

	results := make([][]library.Track, len(artists))
	for i, artist := range artists {
		i, artist := i, artist
		g.Go(func() error {
			tracks, err := f.lib.TracksByArtist(ctx, artist.ID)
			if err != nil {
				return fmt.Errorf("tracks of similar artist %s: %w", artist.ID, err)
			}
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []library.Track
	for _, tracks := range results {
		merged = append(merged, tracks...)
	}
	return merged, nil
}

func (f *similarityFetcher) similarByTracks(ctx context.Context, seed []library.Track) ([]library.Track, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.workers)

	results := make([][]library.Track, len(seed))
	for i, t := range seed {
		i, t := i, t
		g.Go(func() error {
			tracks, err := f.lib.SimilarTracks(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("similar tracks of %s: %w", t.ID, err)
			}
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []library.Track
	for _, tracks := range results {
		merged = append(merged, tracks...)
	}
	return merged, nil
}
