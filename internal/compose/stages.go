// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"github.com/rs/zerolog"

	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/logging"
)

// Stage is one step of the quality filter chain. Apply receives the
// playlist so far and the full candidate universe for backfill, and
// returns the transformed list.
type Stage interface {
	Name() string
	Apply(rng Rand, tracks, universe []library.Track) []library.Track
}

// FilterChain runs the enabled quality stages in their fixed order:
// duration floor, album cap, anti-consecutive-artist reorder, mood
// clustering. Later stages assume the invariants of earlier ones, so
// the order is not configurable; stages disabled in the configuration
// are simply absent.
type FilterChain struct {
	stages []Stage
	log    zerolog.Logger
}

// NewFilterChain builds the chain for the given configuration.
func NewFilterChain(cfg SelectionConfig) *FilterChain {
	var stages []Stage
	if cfg.MinDurationSeconds > 0 {
		stages = append(stages, DurationFilter{MinSeconds: cfg.MinDurationSeconds})
	}
	if cfg.MaxSongsPerAlbum > 0 {
		stages = append(stages, AlbumCapFilter{MaxPerAlbum: cfg.MaxSongsPerAlbum})
	}
	if cfg.PreventConsecutiveArtists {
		stages = append(stages, ConsecutiveArtistReorder{})
	}
	if cfg.MoodGroupingEnabled {
		stages = append(stages, MoodClusterReorder{})
	}
	return &FilterChain{
		stages: stages,
		log:    logging.Component("compose"),
	}
}

// Apply runs every enabled stage in order.
func (c *FilterChain) Apply(rng Rand, tracks, universe []library.Track) []library.Track {
	for _, stage := range c.stages {
		before := len(tracks)
		tracks = stage.Apply(rng, tracks, universe)
		c.log.Debug().
			Str("stage", stage.Name()).
			Int("before", before).
			Int("after", len(tracks)).
			Msg("filter stage applied")
	}
	return tracks
}

// DurationFilter drops tracks with a known duration below the floor.
// Tracks with unknown duration pass through. No backfill: the list may
// shrink below target.
type DurationFilter struct {
	MinSeconds int
}

func (DurationFilter) Name() string { return "duration" }

func (f DurationFilter) Apply(_ Rand, tracks, _ []library.Track) []library.Track {
	out := make([]library.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.HasDuration() && t.DurationSec < f.MinSeconds {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AlbumCapFilter caps the number of tracks per album, keeping a
// uniform-random subset of over-represented albums and backfilling the
// shortfall from the universe, excluding capped albums. Tracks without
// an album are exempt.
type AlbumCapFilter struct {
	MaxPerAlbum int
}

func (AlbumCapFilter) Name() string { return "album-cap" }

func (f AlbumCapFilter) Apply(rng Rand, tracks, universe []library.Track) []library.Track {
	if len(tracks) == 0 {
		return tracks
	}
	targetSize := len(tracks)

	groups := make(map[string][]library.Track)
	var albumOrder []string
	out := make([]library.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Album == "" {
			out = append(out, t)
			continue
		}
		if _, ok := groups[t.Album]; !ok {
			albumOrder = append(albumOrder, t.Album)
		}
		groups[t.Album] = append(groups[t.Album], t)
	}

	capped := make(map[string]struct{})
	for _, album := range albumOrder {
		group := groups[album]
		if len(group) > f.MaxPerAlbum {
			out = append(out, sampleTracks(rng, group, f.MaxPerAlbum)...)
			capped[album] = struct{}{}
			continue
		}
		out = append(out, group...)
	}

	if len(out) >= targetSize || len(universe) == 0 {
		return out
	}

	selected := idSet(out)
	backfill := make([]library.Track, 0, len(universe))
	for _, t := range universe {
		if _, ok := selected[t.ID]; ok {
			continue
		}
		if _, ok := capped[t.Album]; ok {
			continue
		}
		backfill = append(backfill, t)
	}
	return append(out, sampleTracks(rng, backfill, targetSize-len(out))...)
}

// ConsecutiveArtistReorder rearranges tracks so adjacent tracks do not
// share an artist key, on a best-effort basis. It never drops a track:
// the output is always a permutation of the input.
type ConsecutiveArtistReorder struct{}

func (ConsecutiveArtistReorder) Name() string { return "consecutive-artists" }

func (ConsecutiveArtistReorder) Apply(rng Rand, tracks, _ []library.Track) []library.Track {
	if len(tracks) < 2 {
		return tracks
	}

	// Unknown-artist tracks form their own group under the empty key.
	groups := make(map[string][]library.Track)
	var keys []string
	for _, t := range tracks {
		if _, ok := groups[t.ArtistKey]; !ok {
			keys = append(keys, t.ArtistKey)
		}
		groups[t.ArtistKey] = append(groups[t.ArtistKey], t)
	}
	if len(keys) < 2 {
		return tracks
	}

	for _, k := range keys {
		g := groups[k]
		rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
	}
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	maxAttempts := len(tracks) * DefaultReorderAttemptsFactor
	out := make([]library.Track, 0, len(tracks))
	var lastKey string
	first := true
	for len(keys) > 0 {
		pick := -1
		for attempt := 0; attempt < maxAttempts; attempt++ {
			i := rng.Intn(len(keys))
			if first || keys[i] != lastKey {
				pick = i
				break
			}
		}
		if pick == -1 {
			// Retry bound exhausted: accept a repeat rather than stall.
			pick = rng.Intn(len(keys))
		}

		key := keys[pick]
		group := groups[key]
		out = append(out, group[0])
		lastKey = key
		first = false

		if len(group) == 1 {
			delete(groups, key)
			keys = append(keys[:pick], keys[pick+1:]...)
			continue
		}
		groups[key] = group[1:]
	}
	return out
}

// MoodClusterReorder front-loads a randomly chosen mood: one mood value
// is picked uniformly from the distinct moods present, its tracks are
// placed first (shuffled), the remaining mooded tracks follow
// (shuffled), and mood-less tracks are inserted at random positions
// after the matching block. With no mood data at all the whole list is
// shuffled. Flow shaping only: the output is a permutation of the
// input.
type MoodClusterReorder struct{}

func (MoodClusterReorder) Name() string { return "mood-cluster" }

func (MoodClusterReorder) Apply(rng Rand, tracks, _ []library.Track) []library.Track {
	if len(tracks) < 2 {
		return tracks
	}

	mooded := make([]library.Track, 0, len(tracks))
	moodless := make([]library.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.HasMood() {
			mooded = append(mooded, t)
		} else {
			moodless = append(moodless, t)
		}
	}
	if len(mooded) == 0 {
		return shuffledCopy(rng, tracks)
	}

	// Uniform pick over distinct mood values, not over tracks.
	var moods []string
	seen := make(map[string]struct{})
	for _, t := range mooded {
		if _, ok := seen[t.Mood]; !ok {
			seen[t.Mood] = struct{}{}
			moods = append(moods, t.Mood)
		}
	}
	chosen := moods[rng.Intn(len(moods))]

	matching := make([]library.Track, 0, len(mooded))
	others := make([]library.Track, 0, len(mooded))
	for _, t := range mooded {
		if t.Mood == chosen {
			matching = append(matching, t)
		} else {
			others = append(others, t)
		}
	}

	out := append(shuffledCopy(rng, matching), shuffledCopy(rng, others)...)
	for _, t := range moodless {
		pos := len(matching)
		if len(out) > pos {
			pos += rng.Intn(len(out) - pos + 1)
		}
		out = append(out, library.Track{})
		copy(out[pos+1:], out[pos:])
		out[pos] = t
	}
	return out
}
