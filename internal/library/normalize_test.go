// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package library

import "testing"

func TestNormalizeArtist(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Miles Davis", "Miles Davis"},
		{"leading and trailing space", "  Miles Davis  ", "Miles Davis"},
		{"internal run collapse", "Miles    Davis", "Miles Davis"},
		{"slash spaced both sides", "AC / DC", "AC/DC"},
		{"slash spaced left", "AC /DC", "AC/DC"},
		{"slash spaced right", "AC/ DC", "AC/DC"},
		{"slash tight unchanged", "AC/DC", "AC/DC"},
		{"ampersand spacing", "Simon & Garfunkel", "Simon&Garfunkel"},
		{"plus spacing", "Nat King Cole + Trio", "Nat King Cole+Trio"},
		{"en dash folds to hyphen", "Sigur Rós – Live", "Sigur Rós - Live"},
		{"curly apostrophe folds", "D’Angelo", "D'Angelo"},
		{"curly double quotes fold", "“Weird Al” Yankovic", "\"Weird Al\" Yankovic"},
		{"zero width removed", "Björk\u200b", "Björk"},
		{"nbsp folds to space", "Daft Punk", "Daft Punk"},
		{"nfc composes", "Björk", "Björk"},
		{"case preserved", "beyonce", "beyonce"},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeArtist(tt.in); got != tt.want {
				t.Errorf("NormalizeArtist(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeArtistIdempotent(t *testing.T) {
	inputs := []string{
		"AC / DC",
		"Simon  &  Garfunkel",
		"  D’Angelo  ",
		"Björk\u200b",
		"plain name",
		"A/ B /C",
	}
	for _, in := range inputs {
		once := NormalizeArtist(in)
		twice := NormalizeArtist(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeArtistEquivalence(t *testing.T) {
	variants := []string{"Artist / Featuring", "Artist/Featuring", "Artist /Featuring", "Artist/ Featuring"}
	want := NormalizeArtist(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeArtist(v); got != want {
			t.Errorf("NormalizeArtist(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestNormalizeArtistCaseSensitive(t *testing.T) {
	if NormalizeArtist("MGMT") == NormalizeArtist("mgmt") {
		t.Error("case-folded keys should remain distinct")
	}
}
