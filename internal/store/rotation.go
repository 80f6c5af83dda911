// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadRotationEntries reads a rotation log file: one theme key per
// line, most recent last. A missing file returns (nil, nil).
func LoadRotationEntries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rotation log: %w", err)
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// SaveRotationEntries overwrites the rotation log file with the given
// entries, creating parent directories as needed.
func SaveRotationEntries(path string, entries []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rotation log directory: %w", err)
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write rotation log: %w", err)
	}
	return nil
}
