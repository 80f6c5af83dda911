// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

// RotationLog is a bounded, insertion-ordered history of theme keys
// used by previous runs, so consecutive runs avoid repeating the same
// genre group or artist. Oldest entries are evicted first.
//
// A nil RotationLog is valid and behaves as an empty, unbounded no-op;
// profiles without rotation pass nil.
type RotationLog struct {
	entries []string
	max     int
}

// NewRotationLog builds a log from previously persisted entries,
// trimming to the most recent max when the history is longer.
// max <= 0 means unbounded.
func NewRotationLog(entries []string, max int) *RotationLog {
	l := &RotationLog{
		entries: append([]string(nil), entries...),
		max:     max,
	}
	l.trim()
	return l
}

// Contains reports whether the key was used recently.
func (l *RotationLog) Contains(key string) bool {
	if l == nil {
		return false
	}
	for _, e := range l.entries {
		if e == key {
			return true
		}
	}
	return false
}

// Append records a used theme key, evicting the oldest entries beyond
// the cap.
func (l *RotationLog) Append(key string) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, key)
	l.trim()
}

// Reset clears the whole history. Called when every candidate theme
// has been used and the cycle starts over.
func (l *RotationLog) Reset() {
	if l == nil {
		return
	}
	l.entries = l.entries[:0]
}

// Entries returns a copy of the history, most recent last.
func (l *RotationLog) Entries() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.entries...)
}

// Len returns the number of recorded entries.
func (l *RotationLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *RotationLog) trim() {
	if l.max > 0 && len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}
