// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package plex

import (
	"context"
	"fmt"
	"net/url"

	"github.com/plexcurator/curator/internal/library"
)

// Facet is a library filter dimension for track searches.
type Facet string

const (
	FacetGenre Facet = "genre"
	FacetMood  Facet = "mood"
)

// Sonic similarity defaults, matching the server's analysis endpoint.
const (
	sonicLimit       = 50
	sonicMaxDistance = "0.25"
)

// plexTypeTrack is the Plex metadata type code for music tracks.
const plexTypeTrack = "10"

// musicSection resolves and caches the key of the first music library
// section on the server.
func (c *Client) musicSection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sectionKey != "" {
		return c.sectionKey, nil
	}

	var resp containerResponse
	if err := c.doJSONRequest(ctx, "/library/sections", &resp); err != nil {
		return "", fmt.Errorf("list library sections: %w", err)
	}
	for _, s := range resp.MediaContainer.Directory {
		if s.Type == "artist" {
			c.sectionKey = s.Key
			c.log.Debug().Str("section", s.Title).Str("key", s.Key).Msg("resolved music section")
			return c.sectionKey, nil
		}
	}
	return "", fmt.Errorf("no music library section found")
}

// SearchTracksByFacet lists tracks matching one facet value, such as
// a single genre or mood tag. An empty result is not an error.
func (c *Client) SearchTracksByFacet(ctx context.Context, facet Facet, value string) ([]library.Track, error) {
	key, err := c.musicSection(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("type", plexTypeTrack)
	query.Set(string(facet), value)

	var resp containerResponse
	path := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.doJSONRequestWithQuery(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("search tracks by %s %q: %w", facet, value, err)
	}
	return tracksOf(resp.MediaContainer.Metadata), nil
}

// TracksByArtist lists all tracks belonging to the artist with the
// given rating key.
func (c *Client) TracksByArtist(ctx context.Context, artistID string) ([]library.Track, error) {
	key, err := c.musicSection(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("type", plexTypeTrack)
	query.Set("artist.id", artistID)

	var resp containerResponse
	path := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.doJSONRequestWithQuery(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("tracks by artist %s: %w", artistID, err)
	}
	return tracksOf(resp.MediaContainer.Metadata), nil
}

// TracksByRatingAtLeast lists tracks with a user rating at or above
// the threshold (Plex ratings are 1-10; 8 corresponds to 4 stars).
func (c *Client) TracksByRatingAtLeast(ctx context.Context, minRating int) ([]library.Track, error) {
	key, err := c.musicSection(ctx)
	if err != nil {
		return nil, err
	}

	// The ">=" comparison lives in the query key, which url.Values
	// cannot express, so the query is pre-encoded.
	var resp containerResponse
	err = c.doRequest(ctx, requestConfig{
		method:     "GET",
		path:       fmt.Sprintf("/library/sections/%s/all", key),
		rawQuery:   fmt.Sprintf("type=%s&userRating%%3E=%d", plexTypeTrack, minRating),
		acceptJSON: true,
		expectOK:   true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("tracks rated >= %d: %w", minRating, err)
	}
	return tracksOf(resp.MediaContainer.Metadata), nil
}

// Artists lists all artists in the music section.
func (c *Client) Artists(ctx context.Context) ([]library.ArtistRef, error) {
	key, err := c.musicSection(ctx)
	if err != nil {
		return nil, err
	}

	var resp containerResponse
	if err := c.doJSONRequest(ctx, fmt.Sprintf("/library/sections/%s/all", key), &resp); err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}

	refs := make([]library.ArtistRef, 0, len(resp.MediaContainer.Metadata))
	for _, m := range resp.MediaContainer.Metadata {
		if m.Type != "" && m.Type != "artist" {
			continue
		}
		refs = append(refs, library.ArtistRef{ID: m.RatingKey, Name: m.Title})
	}
	return refs, nil
}

// FindArtistByName resolves an artist reference by exact title match.
func (c *Client) FindArtistByName(ctx context.Context, name string) (library.ArtistRef, error) {
	key, err := c.musicSection(ctx)
	if err != nil {
		return library.ArtistRef{}, err
	}

	query := url.Values{}
	query.Set("title", name)

	var resp containerResponse
	path := fmt.Sprintf("/library/sections/%s/all", key)
	if err := c.doJSONRequestWithQuery(ctx, path, query, &resp); err != nil {
		return library.ArtistRef{}, fmt.Errorf("find artist %q: %w", name, err)
	}
	for _, m := range resp.MediaContainer.Metadata {
		if m.Title == name {
			return library.ArtistRef{ID: m.RatingKey, Name: m.Title}, nil
		}
	}
	return library.ArtistRef{}, fmt.Errorf("artist %q not found", name)
}

// SimilarArtists lists artists sonically near the given artist, using
// the server's audio analysis. Empty results are valid: not every
// library has sonic analysis data.
func (c *Client) SimilarArtists(ctx context.Context, artistID string) ([]library.ArtistRef, error) {
	items, err := c.nearest(ctx, artistID)
	if err != nil {
		return nil, err
	}
	refs := make([]library.ArtistRef, 0, len(items))
	for _, m := range items {
		if m.Type != "" && m.Type != "artist" {
			continue
		}
		refs = append(refs, library.ArtistRef{ID: m.RatingKey, Name: m.Title})
	}
	return refs, nil
}

// TrackByID fetches a single track by its rating key.
func (c *Client) TrackByID(ctx context.Context, trackID string) (library.Track, error) {
	var resp containerResponse
	path := fmt.Sprintf("/library/metadata/%s", trackID)
	if err := c.doJSONRequest(ctx, path, &resp); err != nil {
		return library.Track{}, fmt.Errorf("track %s: %w", trackID, err)
	}
	for _, m := range resp.MediaContainer.Metadata {
		if m.Type == "track" {
			return m.Track(), nil
		}
	}
	return library.Track{}, fmt.Errorf("track %s not found", trackID)
}

// SimilarTracks lists tracks sonically near the given track.
func (c *Client) SimilarTracks(ctx context.Context, trackID string) ([]library.Track, error) {
	items, err := c.nearest(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return tracksOf(items), nil
}

// nearest queries the sonic-analysis nearest-neighbor endpoint for a
// metadata item.
func (c *Client) nearest(ctx context.Context, ratingKey string) ([]Metadata, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", sonicLimit))
	query.Set("maxDistance", sonicMaxDistance)

	var resp containerResponse
	path := fmt.Sprintf("/library/metadata/%s/nearest", ratingKey)
	if err := c.doJSONRequestWithQuery(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("sonic neighbors of %s: %w", ratingKey, err)
	}
	return resp.MediaContainer.Metadata, nil
}
