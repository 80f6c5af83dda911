// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package store persists the small state Curator keeps between runs:
// the liked-artist cache and per-profile theme rotation logs.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/plexcurator/curator/internal/library"
)

// LikedCache is a snapshot of the user's liked artists, derived from
// track ratings. Refreshing it requires a full rated-tracks scan, so
// the snapshot is reused until it goes stale.
type LikedCache struct {
	Artists    []library.ArtistRef
	TrackCount int
	TrackIDs   []string
	Timestamp  time.Time
}

// likedCacheFile is the on-disk JSON layout. The flat liked_artists
// name list is kept alongside the detailed entries so files written by
// older versions still load.
type likedCacheFile struct {
	ArtistsDetailed []likedArtistEntry `json:"liked_artists_detailed"`
	ArtistNames     []string           `json:"liked_artists"`
	TrackCount      int                `json:"liked_track_count"`
	Timestamp       string             `json:"cache_timestamp"`
	TrackKeys       []string           `json:"liked_track_keys,omitempty"`
}

type likedArtistEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// timestampLayouts are accepted cache_timestamp formats, newest first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// LoadLikedCache reads the cache file. A missing file returns
// (nil, nil): absence is an expected first-run state, not an error.
func LoadLikedCache(path string) (*LikedCache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read liked cache: %w", err)
	}

	var file likedCacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse liked cache %s: %w", path, err)
	}

	cache := &LikedCache{
		TrackCount: file.TrackCount,
		TrackIDs:   file.TrackKeys,
	}
	if file.Timestamp != "" {
		ts, err := parseTimestamp(file.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse liked cache timestamp: %w", err)
		}
		cache.Timestamp = ts
	}

	if len(file.ArtistsDetailed) > 0 {
		cache.Artists = make([]library.ArtistRef, 0, len(file.ArtistsDetailed))
		for _, e := range file.ArtistsDetailed {
			cache.Artists = append(cache.Artists, library.ArtistRef{ID: e.ID, Name: e.Name})
		}
		return cache, nil
	}

	// Legacy files predate artist IDs and carry names only.
	cache.Artists = make([]library.ArtistRef, 0, len(file.ArtistNames))
	for _, name := range file.ArtistNames {
		cache.Artists = append(cache.Artists, library.ArtistRef{Name: name})
	}
	return cache, nil
}

// SaveLikedCache writes the cache, creating parent directories as
// needed. Both the detailed and the legacy flat layout are written.
func SaveLikedCache(path string, cache *LikedCache) error {
	file := likedCacheFile{
		ArtistsDetailed: make([]likedArtistEntry, 0, len(cache.Artists)),
		ArtistNames:     make([]string, 0, len(cache.Artists)),
		TrackCount:      cache.TrackCount,
		Timestamp:       cache.Timestamp.Format(time.RFC3339),
		TrackKeys:       cache.TrackIDs,
	}
	for _, a := range cache.Artists {
		file.ArtistsDetailed = append(file.ArtistsDetailed, likedArtistEntry{ID: a.ID, Name: a.Name})
		file.ArtistNames = append(file.ArtistNames, a.Name)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode liked cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write liked cache: %w", err)
	}
	return nil
}

// Fresh reports whether the cache is younger than maxAge at now.
// A zero timestamp is never fresh.
func (c *LikedCache) Fresh(maxAge time.Duration, now time.Time) bool {
	if c == nil || c.Timestamp.IsZero() {
		return false
	}
	return now.Sub(c.Timestamp) < maxAge
}

// ArtistSet returns the normalized artist keys of the cached artists.
func (c *LikedCache) ArtistSet() library.LikedArtistSet {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Artists))
	for _, a := range c.Artists {
		names = append(names, a.Name)
	}
	return library.NewLikedArtistSet(names...)
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
