// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"reflect"
	"testing"
)

func TestRotationLogFIFO(t *testing.T) {
	l := NewRotationLog(nil, 3)
	for _, k := range []string{"a", "b", "c", "d"} {
		l.Append(k)
	}

	want := []string{"b", "c", "d"}
	if !reflect.DeepEqual(l.Entries(), want) {
		t.Errorf("entries = %v, want %v", l.Entries(), want)
	}
	if l.Contains("a") {
		t.Error("oldest entry should have been evicted")
	}
	if !l.Contains("d") {
		t.Error("most recent entry missing")
	}
}

func TestRotationLogTrimsPersistedHistory(t *testing.T) {
	l := NewRotationLog([]string{"a", "b", "c", "d", "e"}, 2)
	want := []string{"d", "e"}
	if !reflect.DeepEqual(l.Entries(), want) {
		t.Errorf("entries = %v, want %v", l.Entries(), want)
	}
}

func TestRotationLogReset(t *testing.T) {
	l := NewRotationLog([]string{"a", "b"}, 10)
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("length after reset = %d, want 0", l.Len())
	}
	if l.Contains("a") {
		t.Error("reset log should contain nothing")
	}
}

func TestRotationLogUnbounded(t *testing.T) {
	l := NewRotationLog(nil, 0)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		l.Append(k)
	}
	if l.Len() != 5 {
		t.Errorf("unbounded log length = %d, want 5", l.Len())
	}
}

func TestRotationLogNilSafe(t *testing.T) {
	var l *RotationLog
	l.Append("a")
	l.Reset()
	if l.Contains("a") {
		t.Error("nil log should contain nothing")
	}
	if l.Len() != 0 {
		t.Error("nil log should be empty")
	}
	if l.Entries() != nil {
		t.Error("nil log entries should be nil")
	}
}
