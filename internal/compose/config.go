// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import "fmt"

// Default bounds applied when a SelectionConfig leaves them zero.
const (
	// DefaultFetchAttempts bounds how many themes one composition run
	// tries before giving up and reporting an insufficient pool.
	DefaultFetchAttempts = 10

	// DefaultReorderAttemptsFactor scales the bounded retry count of
	// the anti-consecutive-artist reorder: attempts = tracks * factor.
	DefaultReorderAttemptsFactor = 2
)

// SelectionConfig is the immutable configuration bundle for one
// playlist composition run. Construct it once per run and pass it by
// value; the engine keeps no ambient state.
type SelectionConfig struct {
	// TargetSize is the number of tracks to aim for. Must be > 0.
	TargetSize int

	// MaxArtistShare caps any single artist's share of the final
	// playlist, as a fraction of TargetSize in [0,1].
	MaxArtistShare float64

	// MaxLikedShare caps the share of tracks from liked artists.
	MaxLikedShare float64

	// MinVarietyShare reserves a floor of tracks from non-liked
	// artists, guaranteed before any liked-artist preference applies.
	MinVarietyShare float64

	// MinDurationSeconds drops tracks with a known duration below
	// this floor. 0 disables the duration filter.
	MinDurationSeconds int

	// MaxSongsPerAlbum caps tracks per album. 0 disables the cap.
	MaxSongsPerAlbum int

	// PreventConsecutiveArtists enables the adjacency reorder stage.
	PreventConsecutiveArtists bool

	// MoodGroupingEnabled enables the mood-clustering reorder stage.
	MoodGroupingEnabled bool

	// RequiredFraction is the minimum candidate pool size expressed
	// as a fraction of TargetSize; smaller pools cause the composer
	// to try another theme.
	RequiredFraction float64

	// FetchAttempts bounds theme retries during the fetch phase.
	// 0 means DefaultFetchAttempts.
	FetchAttempts int
}

// Validate checks that the configuration is internally consistent.
// Out-of-range values are configuration errors surfaced at load time,
// before any composition runs.
func (c SelectionConfig) Validate() error {
	if c.TargetSize <= 0 {
		return fmt.Errorf("target size must be positive, got %d", c.TargetSize)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max artist share", c.MaxArtistShare},
		{"max liked share", c.MaxLikedShare},
		{"min variety share", c.MinVarietyShare},
		{"required fraction", c.RequiredFraction},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", f.name, f.value)
		}
	}
	if c.MinDurationSeconds < 0 {
		return fmt.Errorf("min duration must not be negative, got %d", c.MinDurationSeconds)
	}
	if c.MaxSongsPerAlbum < 0 {
		return fmt.Errorf("max songs per album must not be negative, got %d", c.MaxSongsPerAlbum)
	}
	if c.FetchAttempts < 0 {
		return fmt.Errorf("fetch attempts must not be negative, got %d", c.FetchAttempts)
	}
	return nil
}

// fetchAttempts returns the configured attempt bound with defaulting.
func (c SelectionConfig) fetchAttempts() int {
	if c.FetchAttempts > 0 {
		return c.FetchAttempts
	}
	return DefaultFetchAttempts
}

// requiredPoolSize returns the minimum usable candidate pool size.
func (c SelectionConfig) requiredPoolSize() int {
	return int(float64(c.TargetSize) * c.RequiredFraction)
}
