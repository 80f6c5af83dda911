// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package plex

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/plexcurator/curator/internal/library"
)

// machineIdentifier resolves and caches the server machine identifier
// needed to build playlist item URIs.
func (c *Client) machineIdentifier(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machineID != "" {
		return c.machineID, nil
	}

	var resp containerResponse
	if err := c.doJSONRequest(ctx, "/identity", &resp); err != nil {
		return "", fmt.Errorf("server identity: %w", err)
	}
	if resp.MediaContainer.MachineIdentifier == "" {
		return "", fmt.Errorf("server identity response missing machine identifier")
	}
	c.machineID = resp.MediaContainer.MachineIdentifier
	return c.machineID, nil
}

// itemsURI builds the server URI addressing a set of metadata items.
func (c *Client) itemsURI(ctx context.Context, trackIDs []string) (string, error) {
	machine, err := c.machineIdentifier(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		machine, strings.Join(trackIDs, ",")), nil
}

// Playlists lists all audio playlists on the server.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	query := url.Values{}
	query.Set("playlistType", "audio")

	var resp containerResponse
	if err := c.doJSONRequestWithQuery(ctx, "/playlists", query, &resp); err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	playlists := make([]Playlist, 0, len(resp.MediaContainer.Metadata))
	for _, m := range resp.MediaContainer.Metadata {
		playlists = append(playlists, Playlist{
			RatingKey: m.RatingKey,
			Title:     m.Title,
			Summary:   m.Summary,
			LeafCount: m.LeafCount,
		})
	}
	return playlists, nil
}

// PlaylistItems lists the tracks of a playlist in order.
func (c *Client) PlaylistItems(ctx context.Context, ratingKey string) ([]library.Track, error) {
	var resp containerResponse
	if err := c.doJSONRequest(ctx, fmt.Sprintf("/playlists/%s/items", ratingKey), &resp); err != nil {
		return nil, fmt.Errorf("playlist items of %s: %w", ratingKey, err)
	}
	return tracksOf(resp.MediaContainer.Metadata), nil
}

// FindPlaylist looks up an audio playlist by exact title. The second
// return value reports whether it exists.
func (c *Client) FindPlaylist(ctx context.Context, title string) (Playlist, bool, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return Playlist{}, false, err
	}
	for _, p := range playlists {
		if p.Title == title {
			return p, true, nil
		}
	}
	return Playlist{}, false, nil
}

// CreatePlaylist creates a new audio playlist with the given tracks
// and returns its rating key.
func (c *Client) CreatePlaylist(ctx context.Context, title string, trackIDs []string) (string, error) {
	uri, err := c.itemsURI(ctx, trackIDs)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("type", "audio")
	query.Set("smart", "0")
	query.Set("title", title)
	query.Set("uri", uri)

	var resp containerResponse
	err = c.doRequest(ctx, requestConfig{
		method:      http.MethodPost,
		path:        "/playlists",
		query:       query,
		acceptJSON:  true,
		expectNoErr: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("create playlist %q: %w", title, err)
	}
	if len(resp.MediaContainer.Metadata) == 0 {
		return "", fmt.Errorf("create playlist %q: empty response", title)
	}
	return resp.MediaContainer.Metadata[0].RatingKey, nil
}

// ClearPlaylist removes all items from a playlist.
func (c *Client) ClearPlaylist(ctx context.Context, ratingKey string) error {
	err := c.doRequest(ctx, requestConfig{
		method:      http.MethodDelete,
		path:        fmt.Sprintf("/playlists/%s/items", ratingKey),
		expectNoErr: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("clear playlist %s: %w", ratingKey, err)
	}
	return nil
}

// AddPlaylistItems appends tracks to an existing playlist.
func (c *Client) AddPlaylistItems(ctx context.Context, ratingKey string, trackIDs []string) error {
	uri, err := c.itemsURI(ctx, trackIDs)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("uri", uri)

	err = c.doRequest(ctx, requestConfig{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/playlists/%s/items", ratingKey),
		query:       query,
		expectNoErr: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("add items to playlist %s: %w", ratingKey, err)
	}
	return nil
}

// SetPlaylistSummary updates a playlist's summary text.
func (c *Client) SetPlaylistSummary(ctx context.Context, ratingKey, summary string) error {
	query := url.Values{}
	query.Set("summary", summary)

	err := c.doRequest(ctx, requestConfig{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/playlists/%s", ratingKey),
		query:       query,
		expectNoErr: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("set summary of playlist %s: %w", ratingKey, err)
	}
	return nil
}

// UploadPoster sets a playlist's poster image from raw image bytes.
func (c *Client) UploadPoster(ctx context.Context, ratingKey string, image []byte) error {
	err := c.doRequest(ctx, requestConfig{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/library/metadata/%s/posters", ratingKey),
		body:        bytes.NewReader(image),
		contentType: "image/jpeg",
		expectNoErr: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("upload poster for %s: %w", ratingKey, err)
	}
	return nil
}

// UpsertPlaylist creates the playlist or replaces the contents of an
// existing one with the same title, then sets the summary. Returns the
// playlist rating key.
func (c *Client) UpsertPlaylist(ctx context.Context, title string, trackIDs []string, summary string) (string, error) {
	existing, found, err := c.FindPlaylist(ctx, title)
	if err != nil {
		return "", err
	}

	var ratingKey string
	if found {
		if err := c.ClearPlaylist(ctx, existing.RatingKey); err != nil {
			return "", err
		}
		if err := c.AddPlaylistItems(ctx, existing.RatingKey, trackIDs); err != nil {
			return "", err
		}
		ratingKey = existing.RatingKey
		c.log.Debug().Str("playlist", title).Msg("updated existing playlist in place")
	} else {
		ratingKey, err = c.CreatePlaylist(ctx, title, trackIDs)
		if err != nil {
			return "", err
		}
		c.log.Debug().Str("playlist", title).Msg("created playlist")
	}

	if summary != "" {
		if err := c.SetPlaylistSummary(ctx, ratingKey, summary); err != nil {
			return "", err
		}
	}
	return ratingKey, nil
}
