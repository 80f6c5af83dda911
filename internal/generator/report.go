// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package generator

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the final state of one playlist generation request.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// PlaylistReport records how one playlist request ended. Skipped and
// failed requests never abort their siblings; they are collected here
// and surfaced at the end of the batch.
type PlaylistReport struct {
	Name       string
	Theme      string
	Outcome    Outcome
	TrackCount int
	Err        error
}

// Report summarizes one batch run.
type Report struct {
	RunID     string
	Profile   string
	Playlists []PlaylistReport
	Started   time.Time
	Finished  time.Time
}

// add appends one playlist outcome.
func (r *Report) add(p PlaylistReport) {
	r.Playlists = append(r.Playlists, p)
}

// Counts returns how many playlists ended in each outcome.
func (r *Report) Counts() (done, skipped, failed int) {
	for _, p := range r.Playlists {
		switch p.Outcome {
		case OutcomeDone:
			done++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return done, skipped, failed
}

// Summary renders the end-of-run report shown to the user.
func (r *Report) Summary() string {
	done, skipped, failed := r.Counts()

	var b strings.Builder
	fmt.Fprintf(&b, "%s run finished in %s: %d generated, %d skipped, %d failed\n",
		r.Profile, r.Finished.Sub(r.Started).Round(time.Millisecond), done, skipped, failed)
	for _, p := range r.Playlists {
		switch p.Outcome {
		case OutcomeDone:
			fmt.Fprintf(&b, "  %-10s %s (%s, %d tracks)\n", p.Outcome, p.Name, p.Theme, p.TrackCount)
		case OutcomeSkipped:
			fmt.Fprintf(&b, "  %-10s %s (not enough candidate tracks)\n", p.Outcome, p.Name)
		case OutcomeFailed:
			fmt.Fprintf(&b, "  %-10s %s: %v\n", p.Outcome, p.Name, p.Err)
		}
	}
	return b.String()
}

// Merge appends another report's playlists into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Playlists = append(r.Playlists, other.Playlists...)
}
