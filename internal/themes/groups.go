// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package themes loads the genre and mood group definitions that
// drive theme selection. A group file maps a display name to the
// library facet values fetched for it:
//
//	{"Rock & Metal": ["Rock", "Hard Rock", "Metal"], ...}
package themes

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/plexcurator/curator/internal/compose"
)

// Groups maps group names to library facet values.
type Groups map[string][]string

// LoadGroups reads a group definition file. An empty path returns the
// built-in defaults for the given kind.
func LoadGroups(path string, kind compose.ThemeKind) (Groups, error) {
	if path == "" {
		return defaults(kind), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group file: %w", err)
	}
	var groups Groups
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse group file %s: %w", path, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group file %s defines no groups", path)
	}
	return groups, nil
}

// Themes converts the groups into composition themes, sorted by name
// so theme order is stable across runs.
func (g Groups) Themes(kind compose.ThemeKind) []compose.Theme {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	themes := make([]compose.Theme, 0, len(names))
	for _, name := range names {
		themes = append(themes, compose.Theme{
			Key:     name,
			Display: name,
			Facets:  g[name],
			Kind:    kind,
		})
	}
	return themes
}

func defaults(kind compose.ThemeKind) Groups {
	if kind == compose.ThemeMoodGroup {
		return defaultMoodGroups()
	}
	return defaultGenreGroups()
}

// defaultGenreGroups covers the common Plex genre tags out of the box;
// users override them with a JSON file.
func defaultGenreGroups() Groups {
	return Groups{
		"Rock & Metal":      {"Rock", "Hard Rock", "Classic Rock", "Metal", "Heavy Metal", "Punk"},
		"Pop":               {"Pop", "Pop Rock", "Synthpop", "Indie Pop", "Dance Pop"},
		"Electronic":        {"Electronic", "House", "Techno", "Trance", "Ambient", "Drum And Bass"},
		"Hip-Hop & R&B":     {"Hip-Hop", "Rap", "R&B", "Soul", "Funk"},
		"Jazz & Blues":      {"Jazz", "Blues", "Swing", "Bebop"},
		"Classical":         {"Classical", "Orchestral", "Opera", "Chamber Music"},
		"Folk & Country":    {"Folk", "Country", "Americana", "Bluegrass", "Singer-Songwriter"},
		"Latin & World":     {"Latin", "Reggae", "Reggaeton", "Salsa", "World", "Afrobeat"},
		"Indie & Alt":       {"Indie", "Indie Rock", "Alternative", "Alternative Rock", "Shoegaze"},
		"Chill & Acoustic":  {"Acoustic", "Lo-Fi", "Downtempo", "Chillout", "Easy Listening"},
	}
}

// defaultMoodGroups mirrors the mood tags Plex assigns from sonic
// analysis.
func defaultMoodGroups() Groups {
	return Groups{
		"Energetic":  {"Energetic", "Excited", "Aggressive", "Intense"},
		"Happy":      {"Happy", "Cheerful", "Playful", "Carefree"},
		"Calm":       {"Calm", "Peaceful", "Relaxed", "Gentle", "Soothing"},
		"Melancholy": {"Melancholy", "Sad", "Wistful", "Brooding", "Somber"},
		"Romantic":   {"Romantic", "Sensual", "Passionate", "Intimate"},
		"Focus":      {"Hypnotic", "Atmospheric", "Ethereal", "Dreamy"},
	}
}
