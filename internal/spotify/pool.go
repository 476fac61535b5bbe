package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/game"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"
)

// PoolMode selects which popularity the game compares.
type PoolMode string

const (
	// ModeTracks compares track popularity.
	ModeTracks PoolMode = "songs"
	// ModeArtists compares artist popularity.
	ModeArtists PoolMode = "artists"
)

// ErrInvalidMode means the mode token was neither songs nor artists.
var ErrInvalidMode = errors.New("invalid game mode")

// ParsePoolMode validates a user supplied mode token.
func ParsePoolMode(s string) (PoolMode, error) {
	switch PoolMode(strings.ToLower(s)) {
	case ModeTracks:
		return ModeTracks, nil
	case ModeArtists:
		return ModeArtists, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// GamePool builds the item pool for a game from a playlist reference, which
// is either a plain name or a share URL. It returns the pool together with
// the playlist's display name.
func (c *Client) GamePool(ctx context.Context, ref string, isURL bool, mode PoolMode) ([]game.Item, string, error) {
	var (
		playlist Playlist
		err      error
	)
	if isURL {
		playlist, err = c.PlaylistByID(ctx, playlistIDFromURL(ref))
	} else {
		playlist, err = c.Playlist(ctx, strings.ToLower(ref))
	}
	if err != nil {
		return nil, "", fmt.Errorf("resolve playlist %q: %w", ref, err)
	}

	switch mode {
	case ModeTracks:
		return trackPool(playlist), playlist.Name, nil
	case ModeArtists:
		return c.artistPool(ctx, playlist), playlist.Name, nil
	default:
		return nil, playlist.Name, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// playlistIDFromURL extracts the playlist ID from a share URL: the last
// path segment, query string stripped.
func playlistIDFromURL(ref string) string {
	id := ref
	if idx := strings.LastIndex(id, "/"); idx != -1 {
		id = id[idx+1:]
	}
	if idx := strings.Index(id, "?"); idx != -1 {
		id = id[:idx]
	}
	return id
}

func trackPool(playlist Playlist) []game.Item {
	items := []game.Item{}
	for _, entry := range playlist.Tracks.Items {
		if entry.Track == nil || entry.Track.Name == "" {
			continue
		}
		items = append(items, game.Item{
			Name:       entry.Track.Name,
			Popularity: entry.Track.Popularity,
		})
	}
	return items
}

// artistPool deduplicates the playlist's primary artists and looks each one
// up for its popularity. A single failed lookup drops that artist from the
// pool instead of failing the whole fetch.
func (c *Client) artistPool(ctx context.Context, playlist Playlist) []game.Item {
	seen := map[string]struct{}{}
	names := []string{}
	for _, entry := range playlist.Tracks.Items {
		if entry.Track == nil || len(entry.Track.Artists) == 0 {
			continue
		}
		name := entry.Track.Artists[0].Name
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	items := []game.Item{}
	for _, name := range names {
		artist, err := c.SearchArtist(ctx, name)
		if err != nil {
			logger.Logger.Warn().Err(err).
				Str("artist", name).
				Str("playlist", playlist.Name).
				Msg("Skipping artist, lookup failed")
			continue
		}
		items = append(items, game.Item{
			Name:       name,
			Popularity: artist.Popularity,
		})
	}

	return items
}
