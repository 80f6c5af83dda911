// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import "github.com/plexcurator/curator/internal/library"

// BalanceArtists enforces a maximum per-artist share of the track list.
//
// The cap is floor(targetSize * maxShare) tracks per artist key. Groups
// over the cap keep a uniform-random subset; the shortfall is then
// backfilled from universe, excluding tracks already selected and any
// artist that was just trimmed. Backfill is best-effort: when the
// universe cannot cover the shortfall the shorter result is returned.
//
// Tracks without an artist key are exempt from grouping and always
// kept. targetSize <= 0 defaults to len(tracks).
func BalanceArtists(rng Rand, tracks, universe []library.Track, maxShare float64, targetSize int) []library.Track {
	if len(tracks) == 0 {
		return tracks
	}
	if targetSize <= 0 {
		targetSize = len(tracks)
	}
	perArtistCap := int(float64(targetSize) * maxShare)

	// Group by artist key in first-seen order so results depend only
	// on the injected random source.
	groups := make(map[string][]library.Track)
	var keyOrder []string
	out := make([]library.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ArtistKey == "" {
			out = append(out, t)
			continue
		}
		if _, ok := groups[t.ArtistKey]; !ok {
			keyOrder = append(keyOrder, t.ArtistKey)
		}
		groups[t.ArtistKey] = append(groups[t.ArtistKey], t)
	}

	trimmed := make(map[string]struct{})
	for _, key := range keyOrder {
		group := groups[key]
		if len(group) > perArtistCap {
			out = append(out, sampleTracks(rng, group, perArtistCap)...)
			trimmed[key] = struct{}{}
			continue
		}
		out = append(out, group...)
	}

	if len(out) >= targetSize || len(universe) == 0 {
		return out
	}

	// Backfill, never re-introducing an artist that was over cap.
	selected := idSet(out)
	backfill := make([]library.Track, 0, len(universe))
	for _, t := range universe {
		if _, ok := selected[t.ID]; ok {
			continue
		}
		if _, ok := trimmed[t.ArtistKey]; ok {
			continue
		}
		backfill = append(backfill, t)
	}
	return append(out, sampleTracks(rng, backfill, targetSize-len(out))...)
}
