// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"testing"

	"github.com/plexcurator/curator/internal/library"
)

func TestSelectWithLikedVarietyFloor(t *testing.T) {
	// With target 50 and min variety 0.1 the output must hold at
	// least 5 non-liked tracks no matter how generous the liked cap.
	pool := append(makeTracks("Liked", "l", 100), makeTracks("Other", "o", 100)...)
	liked := library.NewLikedArtistSet("Liked")

	for seed := int64(0); seed < 10; seed++ {
		out := SelectWithLiked(testRand(seed), pool, liked, 50, 1.0, 0.1)

		nonLiked := 0
		for _, tr := range out {
			if !liked.Contains(tr.ArtistKey) {
				nonLiked++
			}
		}
		if nonLiked < 5 {
			t.Errorf("seed %d: %d non-liked tracks, variety floor is 5", seed, nonLiked)
		}
		if len(out) != 50 {
			t.Errorf("seed %d: output length %d, want 50", seed, len(out))
		}
	}
}

func TestSelectWithLikedAvailabilityBound(t *testing.T) {
	// 30 liked tracks against a cap of 45: the liked share is bounded
	// by availability, and others backfill to the full target.
	pool := append(makeTracks("A", "a", 30), makeTracks("B", "b", 70)...)
	liked := library.NewLikedArtistSet("A")

	out := SelectWithLiked(testRand(4), pool, liked, 50, 0.9, 0.1)
	counts := countByArtist(out)
	if counts["A"] != 30 {
		t.Errorf("liked count = %d, want all 30 available", counts["A"])
	}
	if counts["B"] != 20 {
		t.Errorf("other count = %d, want 20 backfilled", counts["B"])
	}
}

func TestSelectWithLikedCapEnforced(t *testing.T) {
	pool := append(makeTracks("A", "a", 100), makeTracks("B", "b", 100)...)
	liked := library.NewLikedArtistSet("A")

	for seed := int64(0); seed < 10; seed++ {
		out := SelectWithLiked(testRand(seed), pool, liked, 50, 0.6, 0.1)
		if got := countByArtist(out)["A"]; got > 30 {
			t.Errorf("seed %d: liked count %d exceeds cap 30", seed, got)
		}
	}
}

func TestSelectWithLikedEmptySet(t *testing.T) {
	pool := makeTracks("A", "a", 100)

	out := SelectWithLiked(testRand(2), pool, nil, 50, 0.5, 0.1)
	if len(out) != 50 {
		t.Errorf("uniform sample length = %d, want 50", len(out))
	}

	small := makeTracks("A", "a", 5)
	out = SelectWithLiked(testRand(2), small, library.LikedArtistSet{}, 50, 0.5, 0.1)
	if len(out) != 5 {
		t.Errorf("sample of small pool length = %d, want 5", len(out))
	}
}

func TestSelectWithLikedNoDuplicates(t *testing.T) {
	pool := append(makeTracks("A", "a", 20), makeTracks("B", "b", 20)...)
	liked := library.NewLikedArtistSet("A")

	out := SelectWithLiked(testRand(9), pool, liked, 40, 0.5, 0.2)
	seen := make(map[string]bool, len(out))
	for _, tr := range out {
		if seen[tr.ID] {
			t.Errorf("duplicate track %s in selection", tr.ID)
		}
		seen[tr.ID] = true
	}
}

func TestSelectWithLikedEmptyPool(t *testing.T) {
	if out := SelectWithLiked(testRand(1), nil, library.NewLikedArtistSet("A"), 50, 0.5, 0.1); len(out) != 0 {
		t.Errorf("empty pool should yield empty selection, got %d", len(out))
	}
}
