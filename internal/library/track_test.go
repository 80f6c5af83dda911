// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package library

import (
	"reflect"
	"testing"
)

func TestNewTrackResolvesArtistKey(t *testing.T) {
	tr := NewTrack("1", "Thunderstruck", "AC / DC", "The Razors Edge", 292, "Energetic", 1990)
	if tr.ArtistKey != "AC/DC" {
		t.Errorf("ArtistKey = %q, want %q", tr.ArtistKey, "AC/DC")
	}
	if !tr.HasDuration() {
		t.Error("expected HasDuration true")
	}
	if !tr.HasMood() {
		t.Error("expected HasMood true")
	}
}

func TestNewTrackEmptyArtist(t *testing.T) {
	tr := NewTrack("2", "Untitled", "", "", 0, "", 0)
	if tr.ArtistKey != "" {
		t.Errorf("ArtistKey = %q, want empty", tr.ArtistKey)
	}
	if tr.HasDuration() {
		t.Error("expected HasDuration false for zero duration")
	}
}

func TestDedupe(t *testing.T) {
	a := NewTrack("1", "A", "X", "", 0, "", 0)
	b := NewTrack("2", "B", "Y", "", 0, "", 0)
	c := NewTrack("1", "A again", "X", "", 0, "", 0)

	got := Dedupe([]Track{a, b, c, b})
	want := []string{"1", "2"}
	if !reflect.DeepEqual(TrackIDs(got), want) {
		t.Errorf("Dedupe IDs = %v, want %v", TrackIDs(got), want)
	}
}

func TestDedupeSmallInputs(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v, want empty", got)
	}
	one := []Track{NewTrack("1", "A", "X", "", 0, "", 0)}
	if got := Dedupe(one); len(got) != 1 {
		t.Errorf("Dedupe(one) length = %d, want 1", len(got))
	}
}

func TestLikedArtistSet(t *testing.T) {
	s := NewLikedArtistSet("AC / DC", "D’Angelo", "")
	if len(s) != 2 {
		t.Fatalf("set size = %d, want 2", len(s))
	}
	if !s.Contains(NormalizeArtist("AC/DC")) {
		t.Error("expected AC/DC in set")
	}
	if !s.Contains("D'Angelo") {
		t.Error("expected D'Angelo in set")
	}
	if s.Contains("Nobody") {
		t.Error("unexpected member")
	}

	var nilSet LikedArtistSet
	if nilSet.Contains("AC/DC") {
		t.Error("nil set should contain nothing")
	}
}
