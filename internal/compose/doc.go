// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package compose implements the playlist composition engine.
//
// A composition run flows through a fixed pipeline: candidate fetch,
// liked-artist-aware selection, per-artist balancing, and a quality
// filter chain (duration floor, album cap, anti-consecutive-artist
// reorder, mood clustering). Every function takes its inputs
// explicitly, including the random source, so runs are reproducible
// under a seeded Rand and safe to execute concurrently.
package compose
