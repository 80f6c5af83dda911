// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/logging"
)

// ThemeKind classifies the selection criterion behind a theme.
type ThemeKind int

const (
	ThemeGenreGroup ThemeKind = iota
	ThemeMoodGroup
	ThemeArtist
	ThemeTrack
)

func (k ThemeKind) String() string {
	switch k {
	case ThemeGenreGroup:
		return "genre-group"
	case ThemeMoodGroup:
		return "mood-group"
	case ThemeArtist:
		return "artist"
	case ThemeTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Theme is one selection criterion for a playlist: a genre group, a
// mood group, or a liked artist/track used for similarity search.
type Theme struct {
	// Key identifies the theme in the rotation log.
	Key string

	// Display is the human-readable theme name used in playlist
	// titles and summaries.
	Display string

	// Facets are the concrete library facets fetched for this theme,
	// such as the genres of a genre group.
	Facets []string

	// Ref is an opaque media-library identifier backing the theme,
	// such as the rating key of a seed artist or track. Empty for
	// facet themes.
	Ref string

	// Artist names the seed track's artist. Set for track themes only.
	Artist string

	Kind ThemeKind
}

// CandidatePool is the raw material for one composition run.
type CandidatePool struct {
	// Tracks is the full candidate set, also used as the backfill
	// universe. May contain duplicates from overlapping facets.
	Tracks []library.Track

	// Seed tracks are placed at the front of the selection before
	// random sampling fills the rest. Used by similarity mixes where
	// the seed artist must anchor the playlist.
	Seed []library.Track
}

// Fetcher obtains the candidate pool for a theme. Implementations talk
// to the media library; an empty pool is a valid, non-error outcome.
type Fetcher interface {
	Fetch(ctx context.Context, theme Theme) (CandidatePool, error)
}

// State names the phase a composition run is in, for logging.
type State int

const (
	StateFetching State = iota
	StateSelecting
	StateBalancing
	StateFiltering
	StateNaming
	StateDone
	StateSkipped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateSelecting:
		return "selecting"
	case StateBalancing:
		return "balancing"
	case StateFiltering:
		return "filtering"
	case StateNaming:
		return "naming"
	case StateDone:
		return "done"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrInsufficientPool reports that no theme yielded a candidate pool
// of the required size within the attempt bound. It marks a skipped
// playlist, an expected outcome rather than a failure.
var ErrInsufficientPool = errors.New("candidate pool below required size")

// Result is the final product of one composition run.
type Result struct {
	Theme       Theme
	Tracks      []library.Track
	Description string
	GeneratedAt time.Time
}

// Composer drives one playlist composition through its phases:
// fetching, selecting, balancing, filtering, naming. A Composer is
// cheap to construct and composes one playlist per Compose call;
// independent calls share no state beyond the rotation log.
type Composer struct {
	cfg      SelectionConfig
	fetcher  Fetcher
	rng      Rand
	rotation *RotationLog
	chain    *FilterChain
	log      zerolog.Logger
}

// NewComposer builds a composer. rotation may be nil for profiles
// without theme rotation.
func NewComposer(cfg SelectionConfig, fetcher Fetcher, rng Rand, rotation *RotationLog) *Composer {
	return &Composer{
		cfg:      cfg,
		fetcher:  fetcher,
		rng:      rng,
		rotation: rotation,
		chain:    NewFilterChain(cfg),
		log:      logging.Component("compose"),
	}
}

// Compose picks an eligible theme, fetches its candidates and runs the
// full pipeline. Themes present in the rotation log are excluded; when
// that excludes everything the log is reset and all themes become
// eligible again. Themes whose pool is too small are retried with a
// different theme up to the attempt bound.
//
// Returns ErrInsufficientPool (possibly wrapped) when no theme
// produced a usable pool; any other error means the last fetch attempt
// failed. Both leave sibling compositions in a batch unaffected.
func (c *Composer) Compose(ctx context.Context, themes []Theme, liked library.LikedArtistSet) (*Result, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("no themes available: %w", ErrInsufficientPool)
	}

	eligible := c.eligibleThemes(themes)
	required := c.cfg.requiredPoolSize()
	attempts := c.cfg.fetchAttempts()

	var lastErr error
	for attempt := 0; attempt < attempts && len(eligible) > 0; attempt++ {
		i := c.rng.Intn(len(eligible))
		theme := eligible[i]
		eligible = append(eligible[:i], eligible[i+1:]...)

		c.logState(StateFetching, theme)
		pool, err := c.fetcher.Fetch(ctx, theme)
		if err != nil {
			lastErr = err
			c.log.Warn().Err(err).Str("theme", theme.Key).Msg("fetch failed, trying another theme")
			continue
		}

		pool.Tracks = library.Dedupe(pool.Tracks)
		if len(pool.Tracks) < required {
			c.log.Info().
				Str("theme", theme.Key).
				Int("pool", len(pool.Tracks)).
				Int("required", required).
				Msg("pool too small, trying another theme")
			continue
		}
		return c.compose(theme, pool, liked)
	}

	if lastErr != nil {
		c.logState(StateFailed, Theme{})
		return nil, fmt.Errorf("all fetch attempts failed: %w", lastErr)
	}
	c.logState(StateSkipped, Theme{})
	return nil, ErrInsufficientPool
}

// compose runs the in-memory pipeline once a usable pool exists.
func (c *Composer) compose(theme Theme, pool CandidatePool, liked library.LikedArtistSet) (*Result, error) {
	c.logState(StateSelecting, theme)
	selected := c.selectTracks(pool, liked)

	c.logState(StateBalancing, theme)
	// The seed share governs initial selection only; the artist cap
	// still applies to the selected list, seed tracks included.
	selected = BalanceArtists(c.rng, selected, pool.Tracks, c.cfg.MaxArtistShare, c.cfg.TargetSize)

	c.logState(StateFiltering, theme)
	selected = c.chain.Apply(c.rng, selected, pool.Tracks)

	c.logState(StateNaming, theme)
	now := time.Now()
	result := &Result{
		Theme:       theme,
		Tracks:      selected,
		Description: describe(theme, now),
		GeneratedAt: now,
	}

	c.rotation.Append(theme.Key)
	c.logState(StateDone, theme)
	c.log.Info().
		Str("theme", theme.Key).
		Int("tracks", len(selected)).
		Msg("playlist composed")
	return result, nil
}

// selectTracks performs the initial selection: seed tracks anchor the
// front, then liked-aware selection when a liked set is present, else
// a uniform sample.
func (c *Composer) selectTracks(pool CandidatePool, liked library.LikedArtistSet) []library.Track {
	seed := pool.Seed
	if len(seed) > c.cfg.TargetSize {
		seed = sampleTracks(c.rng, seed, c.cfg.TargetSize)
	}
	if len(seed) == 0 {
		return SelectWithLiked(c.rng, pool.Tracks, liked, c.cfg.TargetSize, c.cfg.MaxLikedShare, c.cfg.MinVarietyShare)
	}

	seeded := idSet(seed)
	rest := make([]library.Track, 0, len(pool.Tracks))
	for _, t := range pool.Tracks {
		if _, ok := seeded[t.ID]; !ok {
			rest = append(rest, t)
		}
	}
	out := append([]library.Track(nil), seed...)
	return append(out, sampleTracks(c.rng, rest, c.cfg.TargetSize-len(out))...)
}

// eligibleThemes filters out recently used themes, resetting the
// rotation log when a full cycle completes.
func (c *Composer) eligibleThemes(themes []Theme) []Theme {
	eligible := make([]Theme, 0, len(themes))
	for _, t := range themes {
		if !c.rotation.Contains(t.Key) {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		c.log.Info().Int("themes", len(themes)).Msg("all themes used, resetting rotation")
		c.rotation.Reset()
		eligible = append(eligible, themes...)
	}
	return eligible
}

func (c *Composer) logState(s State, theme Theme) {
	e := c.log.Debug().Str("state", s.String())
	if theme.Key != "" {
		e = e.Str("theme", theme.Key)
	}
	e.Msg("composer state")
}

// describe builds the playlist summary text per theme kind: a genre
// summary carries the group name, timestamp and genre list; a mood
// summary just its mood list; similarity mixes name their seed and
// the method used.
func describe(theme Theme, at time.Time) string {
	ts := at.Format("2006-01-02 15:04:05")
	switch theme.Kind {
	case ThemeMoodGroup:
		return fmt.Sprintf("Moods used: %s", strings.Join(theme.Facets, ", "))
	case ThemeArtist:
		return fmt.Sprintf("Artist: %s\nUpdated on: %s\nUsed similar artists", theme.Display, ts)
	case ThemeTrack:
		return fmt.Sprintf("Based on: %s by %s\nUpdated on: %s\nUsed similar tracks from a liked song",
			theme.Display, theme.Artist, ts)
	default:
		return fmt.Sprintf("%s\nUpdated on: %s\nGenres used: %s",
			theme.Display, ts, strings.Join(theme.Facets, ", "))
	}
}
