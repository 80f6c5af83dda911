// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plexcurator/curator/internal/library"
)

// fakeFetcher serves canned pools per theme key and records the order
// of fetches.
type fakeFetcher struct {
	pools   map[string]CandidatePool
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, theme Theme) (CandidatePool, error) {
	f.fetched = append(f.fetched, theme.Key)
	if err := f.errs[theme.Key]; err != nil {
		return CandidatePool{}, err
	}
	return f.pools[theme.Key], nil
}

func baseConfig() SelectionConfig {
	return SelectionConfig{
		TargetSize:       50,
		MaxArtistShare:   0.3,
		MaxLikedShare:    0.5,
		MinVarietyShare:  0.1,
		RequiredFraction: 0.8,
	}
}

func TestComposerDone(t *testing.T) {
	pool := append(makeTracks("Artist A", "a", 60), makeTracks("Artist B", "b", 40)...)
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"rock": {Tracks: pool},
	}}
	rotation := NewRotationLog(nil, 10)
	c := NewComposer(baseConfig(), fetcher, testRand(1), rotation)

	res, err := c.Compose(context.Background(), []Theme{{Key: "rock", Display: "Rock", Facets: []string{"Rock", "Hard Rock"}}}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(res.Tracks) != 50 {
		t.Errorf("track count = %d, want 50", len(res.Tracks))
	}
	if got := countByArtist(res.Tracks)["Artist A"]; got > 15 {
		t.Errorf("artist A count = %d, cap is 15", got)
	}
	if !rotation.Contains("rock") {
		t.Error("used theme missing from rotation log")
	}
	if res.Description == "" {
		t.Error("description should not be empty")
	}
}

func TestComposerSkipsSmallPools(t *testing.T) {
	// A 5-track pool against required 0.8*50=40 is never usable:
	// the run ends Skipped, not failed.
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"tiny": {Tracks: makeTracks("A", "a", 5)},
	}}
	c := NewComposer(baseConfig(), fetcher, testRand(2), nil)

	_, err := c.Compose(context.Background(), []Theme{{Key: "tiny", Display: "Tiny"}}, nil)
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("err = %v, want ErrInsufficientPool", err)
	}
}

func TestComposerRetriesAnotherTheme(t *testing.T) {
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"small": {Tracks: makeTracks("A", "a", 5)},
		"big":   {Tracks: makeTracks("B", "b", 100)},
	}}
	cfg := baseConfig()
	cfg.MaxArtistShare = 1
	c := NewComposer(cfg, fetcher, testRand(3), nil)

	themes := []Theme{{Key: "small", Display: "Small"}, {Key: "big", Display: "Big"}}
	res, err := c.Compose(context.Background(), themes, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.Theme.Key != "big" {
		t.Errorf("chosen theme = %q, want %q", res.Theme.Key, "big")
	}
}

func TestComposerFetchErrorsSurface(t *testing.T) {
	fetchErr := errors.New("upstream unavailable")
	fetcher := &fakeFetcher{
		pools: map[string]CandidatePool{},
		errs:  map[string]error{"rock": fetchErr},
	}
	c := NewComposer(baseConfig(), fetcher, testRand(4), nil)

	_, err := c.Compose(context.Background(), []Theme{{Key: "rock"}}, nil)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want wrapped fetch error", err)
	}
}

func TestComposerRotationExclusion(t *testing.T) {
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"used":  {Tracks: makeTracks("A", "a", 100)},
		"fresh": {Tracks: makeTracks("B", "b", 100)},
	}}
	cfg := baseConfig()
	cfg.MaxArtistShare = 1
	rotation := NewRotationLog([]string{"used"}, 10)
	c := NewComposer(cfg, fetcher, testRand(5), rotation)

	themes := []Theme{{Key: "used"}, {Key: "fresh"}}
	res, err := c.Compose(context.Background(), themes, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.Theme.Key != "fresh" {
		t.Errorf("chosen theme = %q, want the one outside the rotation log", res.Theme.Key)
	}
}

func TestComposerRotationFullCycleResets(t *testing.T) {
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"only": {Tracks: makeTracks("A", "a", 100)},
	}}
	cfg := baseConfig()
	cfg.MaxArtistShare = 1
	rotation := NewRotationLog([]string{"only"}, 10)
	c := NewComposer(cfg, fetcher, testRand(6), rotation)

	res, err := c.Compose(context.Background(), []Theme{{Key: "only"}}, nil)
	if err != nil {
		t.Fatalf("Compose after reset: %v", err)
	}
	if res.Theme.Key != "only" {
		t.Errorf("chosen theme = %q, want %q", res.Theme.Key, "only")
	}
	// The log was reset, then the fresh use appended.
	if got := rotation.Entries(); len(got) != 1 || got[0] != "only" {
		t.Errorf("rotation entries = %v, want [only]", got)
	}
}

func TestComposerSeedArtistCapped(t *testing.T) {
	seed := makeTracks("Seed Artist", "seed", 5)
	pool := append([]library.Track(nil), seed...)
	for i := 0; i < 20; i++ {
		pool = append(pool, makeTracks(fmt.Sprintf("Other %d", i), fmt.Sprintf("o%d-", i), 1)...)
	}
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"mix": {Tracks: pool, Seed: seed},
	}}
	cfg := SelectionConfig{
		TargetSize:       10,
		MaxArtistShare:   0.2,
		RequiredFraction: 0.5,
	}

	for s := int64(0); s < 5; s++ {
		c := NewComposer(cfg, fetcher, testRand(s), nil)
		res, err := c.Compose(context.Background(), []Theme{{Key: "mix", Kind: ThemeArtist}}, nil)
		if err != nil {
			t.Fatalf("seed %d: Compose: %v", s, err)
		}
		if len(res.Tracks) != 10 {
			t.Fatalf("seed %d: got %d tracks, want 10", s, len(res.Tracks))
		}
		// The seed share shapes initial selection only; the artist
		// cap still binds: floor(10*0.2) = 2.
		if n := countByArtist(res.Tracks)["Seed Artist"]; n > 2 {
			t.Errorf("seed %d: seed artist holds %d tracks, cap is 2", s, n)
		}
	}
}

func TestComposerSeedAnchorsSelection(t *testing.T) {
	seed := makeTracks("Seed Artist", "seed", 5)
	pool := append(append([]library.Track(nil), seed...), makeTracks("Other", "o", 100)...)
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"mix": {Tracks: pool, Seed: seed},
	}}
	cfg := baseConfig()
	cfg.MaxArtistShare = 1
	cfg.PreventConsecutiveArtists = false
	c := NewComposer(cfg, fetcher, testRand(7), nil)

	res, err := c.Compose(context.Background(), []Theme{{Key: "mix", Kind: ThemeArtist}}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for i, want := range seed {
		if res.Tracks[i].ID != want.ID {
			t.Fatalf("track %d = %s, want seed track %s first", i, res.Tracks[i].ID, want.ID)
		}
	}
}

func TestComposerLikedSelection(t *testing.T) {
	pool := append(makeTracks("Fav", "f", 100), makeTracks("New", "n", 100)...)
	fetcher := &fakeFetcher{pools: map[string]CandidatePool{
		"pop": {Tracks: pool},
	}}
	cfg := baseConfig()
	cfg.MaxArtistShare = 1
	c := NewComposer(cfg, fetcher, testRand(8), nil)

	liked := library.NewLikedArtistSet("Fav")
	res, err := c.Compose(context.Background(), []Theme{{Key: "pop"}}, liked)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	counts := countByArtist(res.Tracks)
	if counts["Fav"] > 25 {
		t.Errorf("liked artist count = %d, max liked share caps it at 25", counts["Fav"])
	}
	if counts["New"] < 5 {
		t.Errorf("variety count = %d, floor is 5", counts["New"])
	}
}

func TestComposerNoThemes(t *testing.T) {
	c := NewComposer(baseConfig(), &fakeFetcher{}, testRand(9), nil)
	_, err := c.Compose(context.Background(), nil, nil)
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("err = %v, want ErrInsufficientPool", err)
	}
}

func TestSelectionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SelectionConfig)
		wantErr bool
	}{
		{"valid", func(*SelectionConfig) {}, false},
		{"zero target", func(c *SelectionConfig) { c.TargetSize = 0 }, true},
		{"share above one", func(c *SelectionConfig) { c.MaxArtistShare = 1.5 }, true},
		{"negative share", func(c *SelectionConfig) { c.MinVarietyShare = -0.1 }, true},
		{"negative duration", func(c *SelectionConfig) { c.MinDurationSeconds = -1 }, true},
		{"negative album cap", func(c *SelectionConfig) { c.MaxSongsPerAlbum = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescribeFormats(t *testing.T) {
	at := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		theme Theme
		want  string
	}{
		{
			"genre group",
			Theme{Display: "Rock & Metal", Facets: []string{"Rock", "Punk"}, Kind: ThemeGenreGroup},
			"Rock & Metal\nUpdated on: 2026-03-01 18:30:00\nGenres used: Rock, Punk",
		},
		{
			"mood group",
			Theme{Display: "Happy", Facets: []string{"Happy", "Cheerful"}, Kind: ThemeMoodGroup},
			"Moods used: Happy, Cheerful",
		},
		{
			"artist mix",
			Theme{Display: "Blur", Kind: ThemeArtist},
			"Artist: Blur\nUpdated on: 2026-03-01 18:30:00\nUsed similar artists",
		},
		{
			"track mix",
			Theme{Display: "Song 2", Artist: "Blur", Kind: ThemeTrack},
			"Based on: Song 2 by Blur\nUpdated on: 2026-03-01 18:30:00\nUsed similar tracks from a liked song",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.theme, at); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
