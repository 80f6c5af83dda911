// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import "github.com/plexcurator/curator/internal/library"

// SelectWithLiked composes a target-sized subset of pool that prefers
// tracks by liked artists without letting them crowd out everything
// else.
//
// A variety floor of floor(targetSize * minVarietyShare) tracks from
// non-liked artists is reserved first, so the output is never 100%
// liked even when maxLikedShare would allow it. Liked tracks then fill
// up to floor(targetSize * maxLikedShare), and remaining slots fall
// back to the other tracks. With an empty liked set the result is a
// plain uniform sample.
//
// The output length equals targetSize unless the pool is smaller.
func SelectWithLiked(rng Rand, pool []library.Track, liked library.LikedArtistSet, targetSize int, maxLikedShare, minVarietyShare float64) []library.Track {
	if targetSize <= 0 || len(pool) == 0 {
		return nil
	}
	if len(liked) == 0 {
		return sampleTracks(rng, pool, targetSize)
	}

	likedTracks := make([]library.Track, 0, len(pool))
	otherTracks := make([]library.Track, 0, len(pool))
	for _, t := range pool {
		if liked.Contains(t.ArtistKey) {
			likedTracks = append(likedTracks, t)
		} else {
			otherTracks = append(otherTracks, t)
		}
	}

	// Variety floor first: a guaranteed run of non-liked artists.
	varietyCount := int(float64(targetSize) * minVarietyShare)
	selected := sampleTracks(rng, otherTracks, varietyCount)

	// Liked preference, capped.
	likedCap := int(float64(targetSize) * maxLikedShare)
	slots := targetSize - len(selected)
	if slots > likedCap {
		slots = likedCap
	}
	selected = append(selected, sampleTracks(rng, likedTracks, slots)...)

	// Backfill remaining slots from the others not yet chosen.
	if need := targetSize - len(selected); need > 0 {
		chosen := idSet(selected)
		remaining := make([]library.Track, 0, len(otherTracks))
		for _, t := range otherTracks {
			if _, ok := chosen[t.ID]; !ok {
				remaining = append(remaining, t)
			}
		}
		selected = append(selected, sampleTracks(rng, remaining, need)...)
	}
	return selected
}
