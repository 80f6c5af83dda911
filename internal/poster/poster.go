// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package poster supplies playlist cover art: generated artist-mix
// covers fetched from Spotify's public seed-mix image service, and
// local images picked from a user-provided directory.
package poster

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/plexcurator/curator/internal/logging"
)

// seedMixURL is Spotify's public cover generator for artist mixes.
const seedMixURL = "https://seed-mix-image.spotifycdn.com/v6/img/desc/%s/en/default"

// Source provides poster images for generated playlists.
type Source struct {
	client *resty.Client
	dir    string
	used   map[string]struct{}
	log    zerolog.Logger
}

// NewSource builds a poster source. dir may be empty when no local
// poster directory is configured.
func NewSource(dir string) *Source {
	return &Source{
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(1 * time.Second),
		dir:  dir,
		used: make(map[string]struct{}),
		log:  logging.Component("poster"),
	}
}

// SpotifyMix fetches a generated mix cover for the given artist name.
// Failure is non-fatal for callers: a playlist without a poster is
// still a valid playlist.
func (s *Source) SpotifyMix(ctx context.Context, artistName string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf(seedMixURL, url.PathEscape(artistName)))
	if err != nil {
		return nil, fmt.Errorf("fetch mix cover for %q: %w", artistName, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch mix cover for %q: status %d", artistName, resp.StatusCode())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("fetch mix cover for %q: empty body", artistName)
	}
	return resp.Body(), nil
}

// RandomLocal picks an unused image from the poster directory. Once
// every image has been used the used set resets, so a long batch run
// cycles rather than failing. rng is any Intn source.
func (s *Source) RandomLocal(rng interface{ Intn(n int) int }) (string, []byte, error) {
	if s.dir == "" {
		return "", nil, fmt.Errorf("no poster directory configured")
	}

	images, err := s.listImages()
	if err != nil {
		return "", nil, err
	}
	if len(images) == 0 {
		return "", nil, fmt.Errorf("no images in poster directory %s", s.dir)
	}

	unused := make([]string, 0, len(images))
	for _, img := range images {
		if _, ok := s.used[img]; !ok {
			unused = append(unused, img)
		}
	}
	if len(unused) == 0 {
		s.used = make(map[string]struct{})
		unused = images
	}

	pick := unused[rng.Intn(len(unused))]
	s.used[pick] = struct{}{}

	data, err := os.ReadFile(pick)
	if err != nil {
		return "", nil, fmt.Errorf("read poster %s: %w", pick, err)
	}
	return pick, data, nil
}

func (s *Source) listImages() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read poster directory: %w", err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp":
			images = append(images, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
