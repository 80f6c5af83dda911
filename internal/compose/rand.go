// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"math/rand"
	"time"

	"github.com/plexcurator/curator/internal/library"
)

// Rand is the random source used by all composition algorithms.
// *math/rand.Rand satisfies it; tests inject a seeded instance for
// deterministic runs.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded random source for production use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// sampleTracks returns up to n tracks chosen uniformly at random
// without replacement. The input slice is not modified.
func sampleTracks(rng Rand, pool []library.Track, n int) []library.Track {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := shuffledCopy(rng, pool)
	return shuffled[:n]
}

// shuffledCopy returns a shuffled copy of tracks.
func shuffledCopy(rng Rand, tracks []library.Track) []library.Track {
	out := make([]library.Track, len(tracks))
	copy(out, tracks)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// idSet indexes tracks by ID for exclusion checks.
func idSet(tracks []library.Track) map[string]struct{} {
	s := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		s[t.ID] = struct{}{}
	}
	return s
}
