// Package spotify is a thin client for the parts of the Spotify Web API the
// bot consumes: catalog lookups and the playlist pool the game is built on.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com/api/token"
	defaultBaseURL     = "https://api.spotify.com/v1"

	// topTracksCountry is the market used for top track charts.
	topTracksCountry = "PT"
)

// ErrNotFound means the named catalog entity could not be resolved.
var ErrNotFound = errors.New("not found")

type ClientOption func(*Client)

// WithBaseURL points the client at a different API root, used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithAccountsURL points the token endpoint elsewhere, used by tests.
func WithAccountsURL(accountsURL string) ClientOption {
	return func(c *Client) {
		c.accountsURL = accountsURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the Spotify Web API with a client-credentials token.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	accountsURL  string
	clientID     string
	clientSecret string

	mu    sync.RWMutex
	token string
}

func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		baseURL:      defaultBaseURL,
		accountsURL:  defaultAccountsURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}

	// Override defaults with given options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Authenticate fetches a client-credentials access token and stores it for
// later requests.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request token: unexpected status %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return errors.New("token response carried no access token")
	}

	c.mu.Lock()
	c.token = payload.AccessToken
	c.mu.Unlock()

	logger.Logger.Info().Msg("Spotify token acquired")

	return nil
}

// get performs an authenticated GET against path and decodes the JSON body
// into out. 404 responses map to ErrNotFound.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	c.mu.RLock()
	req.Header.Set("Authorization", "Bearer "+c.token)
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("request %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s: unexpected status %s: %s", path, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}

	return nil
}

type page[T any] struct {
	Items []T `json:"items"`
}

type searchResponse struct {
	Artists   *page[Artist]          `json:"artists"`
	Albums    *page[AlbumSummary]    `json:"albums"`
	Playlists *page[PlaylistSummary] `json:"playlists"`
	Tracks    *page[Track]           `json:"tracks"`
}

func (c *Client) search(ctx context.Context, kind, query string) (searchResponse, error) {
	var result searchResponse
	err := c.get(ctx, "/search", url.Values{"q": {query}, "type": {kind}}, &result)
	return result, err
}

// pickMatch prefers the item whose name matches the query exactly (case
// insensitive) and falls back to the first result.
func pickMatch[T any](items []T, name func(T) string, query string) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	for _, item := range items {
		if strings.EqualFold(name(item), query) {
			return item, nil
		}
	}
	return items[0], nil
}

// SearchArtist resolves an artist by name.
func (c *Client) SearchArtist(ctx context.Context, name string) (Artist, error) {
	result, err := c.search(ctx, "artist", name)
	if err != nil {
		return Artist{}, err
	}
	if result.Artists == nil {
		return Artist{}, ErrNotFound
	}
	return pickMatch(result.Artists.Items, func(a Artist) string { return a.Name }, name)
}

// SearchPlaylist resolves a playlist by name.
func (c *Client) SearchPlaylist(ctx context.Context, name string) (PlaylistSummary, error) {
	result, err := c.search(ctx, "playlist", name)
	if err != nil {
		return PlaylistSummary{}, err
	}
	if result.Playlists == nil {
		return PlaylistSummary{}, ErrNotFound
	}
	return pickMatch(result.Playlists.Items, func(p PlaylistSummary) string { return p.Name }, name)
}

// SearchAlbum resolves an album by name.
func (c *Client) SearchAlbum(ctx context.Context, name string) (AlbumSummary, error) {
	result, err := c.search(ctx, "album", name)
	if err != nil {
		return AlbumSummary{}, err
	}
	if result.Albums == nil {
		return AlbumSummary{}, ErrNotFound
	}
	return pickMatch(result.Albums.Items, func(a AlbumSummary) string { return a.Name }, name)
}

// SearchTrack resolves a track by name.
func (c *Client) SearchTrack(ctx context.Context, name string) (Track, error) {
	result, err := c.search(ctx, "track", name)
	if err != nil {
		return Track{}, err
	}
	if result.Tracks == nil {
		return Track{}, ErrNotFound
	}
	return pickMatch(result.Tracks.Items, func(t Track) string { return t.Name }, name)
}

// ArtistAlbums returns the artist's studio albums together with the
// resolved artist name.
func (c *Client) ArtistAlbums(ctx context.Context, name string) (string, []AlbumSummary, error) {
	artist, err := c.SearchArtist(ctx, name)
	if err != nil {
		return "", nil, err
	}

	var albums page[AlbumSummary]
	err = c.get(ctx, "/artists/"+artist.ID+"/albums",
		url.Values{"include_groups": {"album"}}, &albums)
	if err != nil {
		return "", nil, err
	}

	return artist.Name, albums.Items, nil
}

// ArtistTopTracks returns the artist's current top tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, name string) (string, []Track, error) {
	artist, err := c.SearchArtist(ctx, name)
	if err != nil {
		return "", nil, err
	}

	var result struct {
		Tracks []Track `json:"tracks"`
	}
	err = c.get(ctx, "/artists/"+artist.ID+"/top-tracks",
		url.Values{"country": {topTracksCountry}}, &result)
	if err != nil {
		return "", nil, err
	}

	return artist.Name, result.Tracks, nil
}

// RelatedArtists returns artists similar to the named one.
func (c *Client) RelatedArtists(ctx context.Context, name string) (string, []Artist, error) {
	artist, err := c.SearchArtist(ctx, name)
	if err != nil {
		return "", nil, err
	}

	var result struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.get(ctx, "/artists/"+artist.ID+"/related-artists", nil, &result); err != nil {
		return "", nil, err
	}

	return artist.Name, result.Artists, nil
}

// Album resolves an album by name and fetches its full record, track list
// and label included.
func (c *Client) Album(ctx context.Context, name string) (Album, error) {
	summary, err := c.SearchAlbum(ctx, name)
	if err != nil {
		return Album{}, err
	}

	var album Album
	if err := c.get(ctx, "/albums/"+summary.ID, nil, &album); err != nil {
		return Album{}, err
	}

	return album, nil
}

// NewReleases lists newly released albums, optionally scoped to a country.
func (c *Client) NewReleases(ctx context.Context, country string) ([]AlbumSummary, error) {
	query := url.Values{}
	if country != "" {
		query.Set("country", country)
	}

	var result struct {
		Albums page[AlbumSummary] `json:"albums"`
	}
	if err := c.get(ctx, "/browse/new-releases", query, &result); err != nil {
		return nil, err
	}

	return result.Albums.Items, nil
}

// Categories lists the browse categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var result struct {
		Categories page[Category] `json:"categories"`
	}
	if err := c.get(ctx, "/browse/categories", nil, &result); err != nil {
		return nil, err
	}

	return result.Categories.Items, nil
}

// CategoryPlaylists lists the playlists filed under a category.
func (c *Client) CategoryPlaylists(ctx context.Context, categoryID string) ([]PlaylistSummary, error) {
	var result struct {
		Playlists page[PlaylistSummary] `json:"playlists"`
	}
	err := c.get(ctx, "/browse/categories/"+categoryID+"/playlists",
		url.Values{"limit": {"50"}}, &result)
	if err != nil {
		return nil, err
	}

	return result.Playlists.Items, nil
}

// FeaturedPlaylists lists Spotify's currently featured playlists.
func (c *Client) FeaturedPlaylists(ctx context.Context) ([]PlaylistSummary, error) {
	var result struct {
		Playlists page[PlaylistSummary] `json:"playlists"`
	}
	if err := c.get(ctx, "/browse/featured-playlists", nil, &result); err != nil {
		return nil, err
	}

	return result.Playlists.Items, nil
}

// Genres lists the available recommendation genre seeds.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var result struct {
		Genres []string `json:"genres"`
	}
	if err := c.get(ctx, "/recommendations/available-genre-seeds", nil, &result); err != nil {
		return nil, err
	}

	return result.Genres, nil
}

// Playlist resolves a playlist by name and fetches its full record.
func (c *Client) Playlist(ctx context.Context, name string) (Playlist, error) {
	summary, err := c.SearchPlaylist(ctx, name)
	if err != nil {
		return Playlist{}, err
	}
	return c.PlaylistByID(ctx, summary.ID)
}

// PlaylistByID fetches a full playlist record.
func (c *Client) PlaylistByID(ctx context.Context, id string) (Playlist, error) {
	var playlist Playlist
	if err := c.get(ctx, "/playlists/"+id, nil, &playlist); err != nil {
		return Playlist{}, err
	}
	return playlist, nil
}

// Track resolves a track by name and fetches its full record.
func (c *Client) Track(ctx context.Context, name string) (Track, error) {
	summary, err := c.SearchTrack(ctx, name)
	if err != nil {
		return Track{}, err
	}

	var track Track
	if err := c.get(ctx, "/tracks/"+summary.ID, nil, &track); err != nil {
		return Track{}, err
	}

	return track, nil
}

// TrackFeatures resolves a track by name and fetches its audio features.
func (c *Client) TrackFeatures(ctx context.Context, name string) (string, AudioFeatures, error) {
	track, err := c.SearchTrack(ctx, name)
	if err != nil {
		return "", AudioFeatures{}, err
	}

	var result struct {
		AudioFeatures []AudioFeatures `json:"audio_features"`
	}
	err = c.get(ctx, "/audio-features", url.Values{"ids": {track.ID}}, &result)
	if err != nil {
		return "", AudioFeatures{}, err
	}
	if len(result.AudioFeatures) == 0 {
		return "", AudioFeatures{}, fmt.Errorf("audio features for %q: %w", track.Name, ErrNotFound)
	}

	return track.Name, result.AudioFeatures[0], nil
}

// Recommendations returns up to limit track suggestions seeded by artist,
// genre and track names. Spotify caps the combined seed count at five.
func (c *Client) Recommendations(ctx context.Context, limit int, artists, genres, tracks []string) ([]Track, error) {
	if limit <= 0 || limit > 100 {
		return nil, fmt.Errorf("recommendation limit %d out of range 1-100", limit)
	}
	if len(artists)+len(genres)+len(tracks) > 5 {
		return nil, errors.New("the sum of artists, genres, and tracks must not be greater than 5")
	}

	artistIDs := make([]string, 0, len(artists))
	for _, name := range artists {
		artist, err := c.SearchArtist(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve seed artist %q: %w", name, err)
		}
		artistIDs = append(artistIDs, artist.ID)
	}

	trackIDs := make([]string, 0, len(tracks))
	for _, name := range tracks {
		track, err := c.SearchTrack(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve seed track %q: %w", name, err)
		}
		trackIDs = append(trackIDs, track.ID)
	}

	query := url.Values{
		"limit":        {strconv.Itoa(limit)},
		"seed_artists": {strings.Join(artistIDs, ",")},
		"seed_genres":  {strings.Join(genres, ",")},
		"seed_tracks":  {strings.Join(trackIDs, ",")},
	}

	var result struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.get(ctx, "/recommendations", query, &result); err != nil {
		return nil, err
	}

	return result.Tracks, nil
}
