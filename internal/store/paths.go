// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package store

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "curator"

// DefaultLikedCacheFile is the XDG-conformant default location of the
// liked-artist cache.
func DefaultLikedCacheFile() string {
	return filepath.Join(xdg.CacheHome, appDir, "liked_artists.json")
}

// DefaultRotationFile returns the default rotation log path for a
// profile ("daily", "weekly", "liked-artists").
func DefaultRotationFile(profile string) string {
	return filepath.Join(xdg.StateHome, appDir, profile+"_rotation.log")
}

// DefaultPosterDir is the default directory for local poster images.
func DefaultPosterDir() string {
	return filepath.Join(xdg.DataHome, appDir, "posters")
}

// DefaultConfigFile is the default YAML configuration path.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
}
