// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package library

// Track is the resolved view of one music track. Metadata fallback
// chains (artist vs grandparent title, album vs parent title) are
// resolved once at ingestion, so selection logic never re-derives them.
type Track struct {
	// ID is the library-unique track identifier (Plex rating key).
	ID string

	// Title is the track title.
	Title string

	// Artist is the display artist name, possibly empty when the
	// source metadata carried none.
	Artist string

	// ArtistKey is NormalizeArtist(Artist), computed at construction.
	// Empty when Artist is empty; tracks with an empty key are exempt
	// from artist quotas.
	ArtistKey string

	// ArtistID is the library identifier of the track's artist, when
	// the source metadata carried one.
	ArtistID string

	// Album is the album title, possibly empty.
	Album string

	// DurationSec is the track length in seconds, 0 when unknown.
	DurationSec int

	// Mood is the primary mood tag, empty when untagged.
	Mood string

	// Year is the release year, 0 when unknown.
	Year int
}

// NewTrack builds a Track with its artist key resolved.
func NewTrack(id, title, artist, album string, durationSec int, mood string, year int) Track {
	return Track{
		ID:          id,
		Title:       title,
		Artist:      artist,
		ArtistKey:   NormalizeArtist(artist),
		Album:       album,
		DurationSec: durationSec,
		Mood:        mood,
		Year:        year,
	}
}

// HasDuration reports whether the track carries a known duration.
func (t Track) HasDuration() bool {
	return t.DurationSec > 0
}

// HasMood reports whether the track carries a mood tag.
func (t Track) HasMood() bool {
	return t.Mood != ""
}

// ArtistRef identifies an artist in the media library.
type ArtistRef struct {
	ID   string
	Name string
}

// Key returns the normalized artist key for the reference.
func (a ArtistRef) Key() string {
	return NormalizeArtist(a.Name)
}

// Dedupe returns tracks with duplicate IDs removed, keeping the first
// occurrence and preserving order. Pools merged from several fetch
// facets routinely contain the same track more than once.
func Dedupe(tracks []Track) []Track {
	if len(tracks) < 2 {
		return tracks
	}
	seen := make(map[string]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TrackIDs returns the IDs of tracks in order.
func TrackIDs(tracks []Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// LikedArtistSet is a set of normalized artist keys considered liked.
// It is a read-only input to selection; an empty or nil set disables
// liked-artist preference.
type LikedArtistSet map[string]struct{}

// NewLikedArtistSet builds a set from raw artist names, normalizing
// each. Empty names are dropped.
func NewLikedArtistSet(names ...string) LikedArtistSet {
	s := make(LikedArtistSet, len(names))
	for _, n := range names {
		if key := NormalizeArtist(n); key != "" {
			s[key] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the normalized key is in the set.
// A nil set contains nothing.
func (s LikedArtistSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}
