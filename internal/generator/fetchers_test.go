// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package generator

import (
	"context"
	"testing"

	"github.com/plexcurator/curator/internal/compose"
	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/plex"
)

func TestFacetFetcherMergesFacets(t *testing.T) {
	fl := &fakeLibrary{facetTracks: map[string][]library.Track{
		"Rock": {mkTrack("r1", "A", "X"), mkTrack("r2", "B", "Y")},
		"Punk": {mkTrack("p1", "C", "Z")},
	}}
	f := &facetFetcher{lib: fl, facet: plex.FacetGenre, workers: 4}

	pool, err := f.Fetch(context.Background(), compose.Theme{
		Key:    "Rock & Metal",
		Facets: []string{"Rock", "Punk", "Metal"},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Tracks) != 3 {
		t.Fatalf("merged %d tracks, want 3", len(pool.Tracks))
	}
	if len(pool.Seed) != 0 {
		t.Errorf("facet pool has %d seed tracks, want none", len(pool.Seed))
	}
}

func TestFacetFetcherRejectsEmptyTheme(t *testing.T) {
	f := &facetFetcher{lib: &fakeLibrary{}, facet: plex.FacetGenre, workers: 1}
	if _, err := f.Fetch(context.Background(), compose.Theme{Key: "empty"}); err == nil {
		t.Fatal("want error for theme without facets")
	}
}

func newSimilarityFetcher(fl *fakeLibrary, seed int64) *similarityFetcher {
	return &similarityFetcher{
		lib: fl,
		rng: testRand(seed),
		cfg: &similarityConfig{
			targetSize:        10,
			maxSimilarArtists: 15,
			seedShareMin:      0.3,
			seedShareMax:      0.5,
			workers:           4,
		},
	}
}

func TestSimilarityFetcherSeedShare(t *testing.T) {
	fl := likedLibrary()
	theme := compose.Theme{Key: "Blur", Display: "Blur", Ref: "blur1", Kind: compose.ThemeArtist}

	for seed := int64(0); seed < 10; seed++ {
		f := newSimilarityFetcher(fl, seed)
		pool, err := f.Fetch(context.Background(), theme)
		if err != nil {
			t.Fatalf("seed %d: Fetch: %v", seed, err)
		}
		// Share bounds 0.3..0.5 of a ten-track target.
		if len(pool.Seed) < 3 || len(pool.Seed) > 5 {
			t.Errorf("seed %d: anchor size = %d, want 3..5", seed, len(pool.Seed))
		}
		for _, tr := range pool.Seed {
			if tr.Artist != "Blur" {
				t.Errorf("seed %d: anchor track by %q, want seed artist", seed, tr.Artist)
			}
		}
		// Ten seed-artist tracks plus one per similar artist.
		if len(pool.Tracks) != 22 {
			t.Errorf("seed %d: pool size = %d, want 22", seed, len(pool.Tracks))
		}
	}
}

func TestSimilarityFetcherCapsSimilarArtists(t *testing.T) {
	fl := likedLibrary()
	f := newSimilarityFetcher(fl, 3)
	f.cfg.maxSimilarArtists = 5

	pool, err := f.Fetch(context.Background(), compose.Theme{Ref: "blur1", Display: "Blur"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Tracks) != 15 {
		t.Errorf("pool size = %d, want 10 seed + 5 similar", len(pool.Tracks))
	}
}

func TestSimilarityFetcherTrackTheme(t *testing.T) {
	seed := mkTrack("s0", "Blur", "Album 0")
	fl := likedLibrary()
	fl.trackByID = map[string]library.Track{"s0": seed}
	fl.similarTracks = map[string][]library.Track{"s0": {
		mkTrack("n0", "Neighbor 0", "N"),
		mkTrack("n1", "Neighbor 1", "N"),
	}}

	f := newSimilarityFetcher(fl, 4)
	theme := compose.Theme{Ref: "s0", Display: "Song s0", Kind: compose.ThemeTrack}
	pool, err := f.Fetch(context.Background(), theme)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Seed) != 1 || pool.Seed[0].ID != "s0" {
		t.Fatalf("seed = %+v, want the liked track alone", pool.Seed)
	}
	if len(pool.Tracks) != 3 {
		t.Errorf("pool size = %d, want seed plus 2 neighbors", len(pool.Tracks))
	}

	if _, err := f.Fetch(context.Background(), compose.Theme{Ref: "gone", Kind: compose.ThemeTrack}); err == nil {
		t.Fatal("want error for unresolvable seed track")
	}
}

func TestSimilarityFetcherFallsBackToTrackNeighbors(t *testing.T) {
	fl := likedLibrary()
	fl.similarArtists = nil // no artist-level sonic data
	fl.similarTracks = map[string][]library.Track{
		"s0": {mkTrack("n0", "Neighbor", "N")},
	}

	f := newSimilarityFetcher(fl, 5)
	pool, err := f.Fetch(context.Background(), compose.Theme{Ref: "blur1", Display: "Blur"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Tracks) < 10 {
		t.Errorf("pool size = %d, want at least the seed tracks", len(pool.Tracks))
	}
}

func TestSimilarityFetcherResolvesArtistByName(t *testing.T) {
	fl := likedLibrary()
	fl.artistsByName = map[string]library.ArtistRef{
		"Blur": {ID: "blur1", Name: "Blur"},
	}

	f := newSimilarityFetcher(fl, 6)
	pool, err := f.Fetch(context.Background(), compose.Theme{Display: "Blur"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Seed) == 0 {
		t.Fatal("name-resolved theme produced no seed tracks")
	}

	if _, err := f.Fetch(context.Background(), compose.Theme{Display: "Unknown"}); err == nil {
		t.Fatal("want error for unresolvable artist name")
	}
}

func TestSimilarityFetcherEmptySeedArtist(t *testing.T) {
	f := newSimilarityFetcher(&fakeLibrary{}, 7)
	pool, err := f.Fetch(context.Background(), compose.Theme{Ref: "ghost", Display: "Ghost"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(pool.Tracks) != 0 {
		t.Errorf("pool size = %d, want empty for artist without tracks", len(pool.Tracks))
	}
}
