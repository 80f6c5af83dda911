// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package plex

import "github.com/plexcurator/curator/internal/library"

// containerResponse is the top-level envelope of every Plex API
// response.
type containerResponse struct {
	MediaContainer mediaContainer `json:"MediaContainer"`
}

type mediaContainer struct {
	Size              int        `json:"size"`
	MachineIdentifier string     `json:"machineIdentifier,omitempty"`
	Directory         []section  `json:"Directory,omitempty"`
	Metadata          []Metadata `json:"Metadata,omitempty"`
}

// section is one library section from /library/sections.
type section struct {
	Key   string `json:"key"`
	Type  string `json:"type"` // "artist" marks a music library
	Title string `json:"title"`
}

// tag is a Plex tag value (genre, mood, style).
type tag struct {
	Tag string `json:"tag"`
}

// Metadata is one item from a Plex metadata listing. For tracks,
// grandparent is the artist and parent the album; OriginalTitle
// overrides the artist on various-artists albums.
type Metadata struct {
	RatingKey            string `json:"ratingKey"`
	Key                  string `json:"key"`
	ParentRatingKey      string `json:"parentRatingKey,omitempty"`
	GrandparentRatingKey string `json:"grandparentRatingKey,omitempty"`

	Type             string `json:"type"` // "track", "artist", "album", "playlist"
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle,omitempty"`
	ParentTitle      string `json:"parentTitle,omitempty"`
	OriginalTitle    string `json:"originalTitle,omitempty"`

	Duration   int64   `json:"duration,omitempty"` // milliseconds
	Year       int     `json:"year,omitempty"`
	UserRating float64 `json:"userRating,omitempty"`

	Mood  []tag `json:"Mood,omitempty"`
	Genre []tag `json:"Genre,omitempty"`

	// Playlist fields
	Summary   string `json:"summary,omitempty"`
	LeafCount int    `json:"leafCount,omitempty"`
}

// Track converts track metadata into the resolved library model,
// applying the artist fallback chain once at ingestion.
func (m Metadata) Track() library.Track {
	artist := m.OriginalTitle
	if artist == "" {
		artist = m.GrandparentTitle
	}
	mood := ""
	if len(m.Mood) > 0 {
		mood = m.Mood[0].Tag
	}
	t := library.NewTrack(
		m.RatingKey,
		m.Title,
		artist,
		m.ParentTitle,
		int(m.Duration/1000),
		mood,
		m.Year,
	)
	t.ArtistID = m.GrandparentRatingKey
	return t
}

// tracksOf converts and filters a metadata listing down to tracks.
func tracksOf(items []Metadata) []library.Track {
	out := make([]library.Track, 0, len(items))
	for _, m := range items {
		if m.Type != "" && m.Type != "track" {
			continue
		}
		out = append(out, m.Track())
	}
	return out
}

// Playlist is a Plex audio playlist reference.
type Playlist struct {
	RatingKey string
	Title     string
	Summary   string
	LeafCount int
}
