// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plexcurator/curator/internal/compose"
	"github.com/plexcurator/curator/internal/config"
	"github.com/plexcurator/curator/internal/library"
	"github.com/plexcurator/curator/internal/plex"
	"github.com/plexcurator/curator/internal/store"
	"github.com/plexcurator/curator/internal/themes"
)

// RunDaily generates the daily genre-rotation playlists.
func (g *Generator) RunDaily(ctx context.Context) (*Report, error) {
	return g.runGenreProfile(ctx, "daily", g.cfg.Daily, "Daily Mix")
}

// RunWeekly generates the weekly genre-rotation playlists. Weekly
// playlists are longer and rotate through a shorter history.
func (g *Generator) RunWeekly(ctx context.Context) (*Report, error) {
	return g.runGenreProfile(ctx, "weekly", g.cfg.Weekly, "Weekly Mix")
}

// runGenreProfile is the shared driver for the daily and weekly
// profiles: rotate through genre groups, prefer liked artists when a
// cache exists, write each result back.
func (g *Generator) runGenreProfile(ctx context.Context, profile string, cfg config.ProfileConfig, namePrefix string) (*Report, error) {
	report := g.newReport(profile)
	defer func() { report.Finished = time.Now() }()

	groups, err := themes.LoadGroups(cfg.GenreGroupsFile, compose.ThemeGenreGroup)
	if err != nil {
		return report, err
	}
	themeList := groups.Themes(compose.ThemeGenreGroup)

	rotation, err := g.loadRotation(cfg.RotationFile, cfg.MaxLogEntries)
	if err != nil {
		return report, err
	}
	liked := g.likedSet()

	selCfg := g.selectionConfig(cfg.SongsPerPlaylist, cfg.RequiredFraction)
	fetcher := &facetFetcher{lib: g.lib, facet: plex.FacetGenre, workers: g.cfg.Workers}
	composer := compose.NewComposer(selCfg, fetcher, g.rng, rotation)

	for i := 0; i < cfg.PlaylistCount; i++ {
		name := namePrefix
		if cfg.PlaylistCount > 1 {
			name = fmt.Sprintf("%s %d", namePrefix, i+1)
		}
		res, err := composer.Compose(ctx, themeList, liked)
		report.add(g.writeBack(ctx, name, res, err, g.localPoster))
	}

	if err := store.SaveRotationEntries(cfg.RotationFile, rotation.Entries()); err != nil {
		g.log.Warn().Err(err).Msg("persist rotation log failed")
	}
	return report, nil
}

// RunMoods generates one playlist per mood group, named "<Group> Mix".
// Mood playlists do not rotate: every group is attempted every run.
func (g *Generator) RunMoods(ctx context.Context) (*Report, error) {
	report := g.newReport("moods")
	defer func() { report.Finished = time.Now() }()

	if !g.cfg.Moods.Enabled {
		return report, nil
	}

	groups, err := themes.LoadGroups(g.cfg.Moods.MoodGroupsFile, compose.ThemeMoodGroup)
	if err != nil {
		return report, err
	}

	selCfg := g.selectionConfig(0, g.cfg.Moods.RequiredFraction)
	fetcher := &facetFetcher{lib: g.lib, facet: plex.FacetMood, workers: g.cfg.Workers}
	composer := compose.NewComposer(selCfg, fetcher, g.rng, nil)

	for _, theme := range groups.Themes(compose.ThemeMoodGroup) {
		name := theme.Display + " Mix"
		res, err := composer.Compose(ctx, []compose.Theme{theme}, nil)
		report.add(g.writeBack(ctx, name, res, err, g.localPoster))
	}
	return report, nil
}

// RunLikedArtists generates similarity mixes seeded from the user's
// liked artists, one playlist per artist, rotating through the liked
// set across runs.
func (g *Generator) RunLikedArtists(ctx context.Context) (*Report, error) {
	report := g.newReport("liked-artists")
	defer func() { report.Finished = time.Now() }()

	cache, err := g.FetchLiked(ctx, false)
	if err != nil {
		return report, err
	}
	if cache == nil || len(cache.Artists) == 0 {
		g.log.Info().Msg("no liked artists found, nothing to generate")
		return report, nil
	}

	cfg := g.cfg.LikedArtists
	themeList := make([]compose.Theme, 0, len(cache.Artists))
	for _, a := range cache.Artists {
		themeList = append(themeList, compose.Theme{
			Key:     library.NormalizeArtist(a.Name),
			Display: a.Name,
			Ref:     a.ID,
			Kind:    compose.ThemeArtist,
		})
	}

	rotation, err := g.loadRotation(cfg.RotationFile, cfg.MaxLogEntries)
	if err != nil {
		return report, err
	}

	selCfg := g.selectionConfig(0, cfg.RequiredFraction)
	fetcher := &similarityFetcher{
		lib: g.lib,
		rng: g.rng,
		cfg: &similarityConfig{
			targetSize:        selCfg.TargetSize,
			maxSimilarArtists: cfg.MaxSimilarArtists,
			seedShareMin:      cfg.SeedShareMin,
			seedShareMax:      cfg.SeedShareMax,
			workers:           g.cfg.Workers,
		},
	}
	composer := compose.NewComposer(selCfg, fetcher, g.rng, rotation)

	for i := 0; i < cfg.PlaylistCount; i++ {
		themes := themeList
		if g.pickMethod(cfg.SimilarityMethod) == "similar_tracks" && len(cache.TrackIDs) > 0 {
			theme, err := g.likedTrackTheme(ctx, cache.TrackIDs)
			if err != nil {
				g.log.Warn().Err(err).Msg("liked track lookup failed, falling back to artist mix")
			} else {
				themes = []compose.Theme{theme}
			}
		}
		res, err := composer.Compose(ctx, themes, nil)
		name := "Artist Mix"
		if res != nil {
			name = res.Theme.Display + " Mix"
		}
		report.add(g.writeBack(ctx, name, res, err, g.spotifyPoster))
	}

	if err := store.SaveRotationEntries(cfg.RotationFile, rotation.Entries()); err != nil {
		g.log.Warn().Err(err).Msg("persist rotation log failed")
	}
	return report, nil
}

// RunAll runs every enabled profile in sequence and merges the
// reports. A failing profile does not stop the rest.
func (g *Generator) RunAll(ctx context.Context) (*Report, error) {
	report := g.newReport("all")
	defer func() { report.Finished = time.Now() }()

	runs := []func(context.Context) (*Report, error){
		g.RunDaily,
		g.RunWeekly,
		g.RunMoods,
		g.RunLikedArtists,
	}
	var firstErr error
	for _, run := range runs {
		sub, err := run(ctx)
		report.Merge(sub)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return report, firstErr
}

// pickMethod resolves the configured similarity method; "random"
// chooses anew for every playlist.
func (g *Generator) pickMethod(method string) string {
	if method != "random" {
		return method
	}
	if g.rng.Intn(2) == 0 {
		return "similar_artists"
	}
	return "similar_tracks"
}

// likedTrackTheme builds a track-seeded theme from a random cached
// liked track.
func (g *Generator) likedTrackTheme(ctx context.Context, trackIDs []string) (compose.Theme, error) {
	id := trackIDs[g.rng.Intn(len(trackIDs))]
	seed, err := g.lib.TrackByID(ctx, id)
	if err != nil {
		return compose.Theme{}, fmt.Errorf("liked track %s: %w", id, err)
	}
	return compose.Theme{
		Key:     "track/" + id,
		Display: seed.Title,
		Ref:     id,
		Artist:  seed.Artist,
		Kind:    compose.ThemeTrack,
	}, nil
}

// FetchLiked returns the liked-artist cache, refreshing it from track
// ratings when stale or when force is set.
func (g *Generator) FetchLiked(ctx context.Context, force bool) (*store.LikedCache, error) {
	maxAge := time.Duration(g.cfg.Cache.MaxAgeDays) * 24 * time.Hour

	cache, err := store.LoadLikedCache(g.cfg.Cache.File)
	if err != nil {
		g.log.Warn().Err(err).Msg("liked cache unreadable, refreshing")
	} else if !force && cache.Fresh(maxAge, time.Now()) {
		g.log.Debug().Int("artists", len(cache.Artists)).Msg("liked cache is fresh")
		return cache, nil
	}

	tracks, err := g.lib.TracksByRatingAtLeast(ctx, g.cfg.LikedArtists.MinRating)
	if err != nil {
		// A stale cache beats no data when the library is unreachable.
		if cache != nil {
			g.log.Warn().Err(err).Msg("rating scan failed, using stale liked cache")
			return cache, nil
		}
		return nil, fmt.Errorf("scan liked tracks: %w", err)
	}

	fresh := buildLikedCache(tracks, time.Now())
	if err := store.SaveLikedCache(g.cfg.Cache.File, fresh); err != nil {
		g.log.Warn().Err(err).Msg("persist liked cache failed")
	}
	g.log.Info().
		Int("artists", len(fresh.Artists)).
		Int("tracks", fresh.TrackCount).
		Msg("liked artist cache refreshed")
	return fresh, nil
}

// buildLikedCache derives the distinct liked artists from a rated
// track scan, in first-seen order.
func buildLikedCache(tracks []library.Track, now time.Time) *store.LikedCache {
	cache := &store.LikedCache{
		TrackCount: len(tracks),
		TrackIDs:   library.TrackIDs(tracks),
		Timestamp:  now,
	}
	seen := make(map[string]struct{})
	for _, t := range tracks {
		if t.ArtistKey == "" {
			continue
		}
		if _, ok := seen[t.ArtistKey]; ok {
			continue
		}
		seen[t.ArtistKey] = struct{}{}
		cache.Artists = append(cache.Artists, library.ArtistRef{ID: t.ArtistID, Name: t.Artist})
	}
	return cache
}

// ShufflePlaylist reorders an existing playlist in place. The
// anti-consecutive-artist reorder applies when enabled, otherwise a
// plain shuffle.
func (g *Generator) ShufflePlaylist(ctx context.Context, title string) error {
	playlist, found, err := g.writer.FindPlaylist(ctx, title)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("playlist %q not found", title)
	}

	tracks, err := g.writer.PlaylistItems(ctx, playlist.RatingKey)
	if err != nil {
		return err
	}
	if len(tracks) < 2 {
		return nil
	}

	g.rng.Shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
	if g.cfg.Selection.PreventConsecutiveArtists {
		tracks = compose.ConsecutiveArtistReorder{}.Apply(g.rng, tracks, nil)
	}

	if err := g.writer.ClearPlaylist(ctx, playlist.RatingKey); err != nil {
		return err
	}
	if err := g.writer.AddPlaylistItems(ctx, playlist.RatingKey, library.TrackIDs(tracks)); err != nil {
		return err
	}
	g.log.Info().Str("playlist", title).Int("tracks", len(tracks)).Msg("playlist shuffled")
	return nil
}

// writeBack persists one composition result and records the outcome.
// Skipped and failed requests are reported, never propagated: one bad
// playlist must not stop the batch.
func (g *Generator) writeBack(ctx context.Context, name string, res *compose.Result, composeErr error, posterFn func(context.Context, string, *compose.Result)) PlaylistReport {
	if composeErr != nil {
		if errors.Is(composeErr, compose.ErrInsufficientPool) {
			g.log.Info().Str("playlist", name).Msg("skipped: not enough candidate tracks")
			return PlaylistReport{Name: name, Outcome: OutcomeSkipped}
		}
		g.log.Error().Err(composeErr).Str("playlist", name).Msg("generation failed")
		return PlaylistReport{Name: name, Outcome: OutcomeFailed, Err: composeErr}
	}

	ratingKey, err := g.writer.UpsertPlaylist(ctx, name, library.TrackIDs(res.Tracks), res.Description)
	if err != nil {
		g.log.Error().Err(err).Str("playlist", name).Msg("write-back failed")
		return PlaylistReport{Name: name, Theme: res.Theme.Display, Outcome: OutcomeFailed, Err: err}
	}

	if posterFn != nil && g.cfg.Posters.Enabled {
		posterFn(ctx, ratingKey, res)
	}

	return PlaylistReport{
		Name:       name,
		Theme:      res.Theme.Display,
		Outcome:    OutcomeDone,
		TrackCount: len(res.Tracks),
	}
}

// spotifyPoster uploads a generated artist-mix cover. Poster failures
// only warn: the playlist itself is already written.
func (g *Generator) spotifyPoster(ctx context.Context, ratingKey string, res *compose.Result) {
	if g.posters == nil || !g.cfg.Posters.Spotify {
		return
	}
	artist := res.Theme.Display
	if res.Theme.Artist != "" {
		artist = res.Theme.Artist
	}
	image, err := g.posters.SpotifyMix(ctx, artist)
	if err != nil {
		g.log.Warn().Err(err).Str("artist", artist).Msg("mix cover fetch failed")
		return
	}
	if err := g.writer.UploadPoster(ctx, ratingKey, image); err != nil {
		g.log.Warn().Err(err).Msg("poster upload failed")
	}
}

// localPoster uploads a random image from the poster directory.
func (g *Generator) localPoster(ctx context.Context, ratingKey string, _ *compose.Result) {
	if g.posters == nil || g.cfg.Posters.Dir == "" {
		return
	}
	path, image, err := g.posters.RandomLocal(g.rng)
	if err != nil {
		g.log.Debug().Err(err).Msg("no local poster available")
		return
	}
	if err := g.writer.UploadPoster(ctx, ratingKey, image); err != nil {
		g.log.Warn().Err(err).Str("poster", path).Msg("poster upload failed")
	}
}

// likedSet loads the liked-artist set for selection preference. A
// missing or unreadable cache disables the preference.
func (g *Generator) likedSet() library.LikedArtistSet {
	cache, err := store.LoadLikedCache(g.cfg.Cache.File)
	if err != nil || cache == nil {
		return nil
	}
	return cache.ArtistSet()
}

// loadRotation reads a persisted rotation log.
func (g *Generator) loadRotation(path string, maxEntries int) (*compose.RotationLog, error) {
	entries, err := store.LoadRotationEntries(path)
	if err != nil {
		return nil, err
	}
	return compose.NewRotationLog(entries, maxEntries), nil
}

func (g *Generator) newReport(profile string) *Report {
	return &Report{
		RunID:   g.runID,
		Profile: profile,
		Started: time.Now(),
	}
}
