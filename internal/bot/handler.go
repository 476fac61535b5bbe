// Package bot dispatches chat commands to the Spotify catalog and the
// higher-or-lower game.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/game"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/highscore"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/integration/discord"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/spotify"

	"github.com/bwmarrin/discordgo"
)

const catalogTimeout = 30 * time.Second

type HandlerOption func(*Handler)

// WithVoteWindow sets the game's per-wait reaction timeout.
func WithVoteWindow(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.voteWindow = d
	}
}

// WithRoundCap sets the game's per-round upper bound.
func WithRoundCap(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.roundCap = d
	}
}

// Handler routes incoming messages. One instance serves all channels; game
// sessions run independently per channel.
type Handler struct {
	session    discord.Sessioner
	catalog    *spotify.Client
	store      *highscore.Store
	voteWindow time.Duration
	roundCap   time.Duration

	mu          sync.Mutex
	activeGames map[string]struct{}
}

func New(session discord.Sessioner, catalog *spotify.Client, store *highscore.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		session:     session,
		catalog:     catalog,
		store:       store,
		voteWindow:  game.DefaultVoteWindow,
		roundCap:    game.DefaultRoundCap,
		activeGames: map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleMessage is registered on the discordgo session for message-create
// events.
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	cmd, ok := ParseCommand(m.Content)
	if !ok {
		return
	}

	logger.Logger.Debug().
		Str("command", cmd.Name).
		Str("channel_id", m.ChannelID).
		Str("user", m.Author.Username).
		Msg("Dispatching command")

	if cmd.Name == "game" {
		// Long-running, never DM-routed.
		go h.runGame(s, m, cmd.Args)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()

	var (
		reply game.Announcement
		err   error
	)
	switch cmd.Name {
	case "artist":
		reply, err = h.artistInfo(ctx, cmd.Args)
	case "albums":
		reply, err = h.artistAlbums(ctx, cmd.Args)
	case "toptracks":
		reply, err = h.topTracks(ctx, cmd.Args)
	case "relatedartists":
		reply, err = h.relatedArtists(ctx, cmd.Args)
	case "album":
		reply, err = h.albumInfo(ctx, cmd.Args)
	case "newreleases":
		reply, err = h.newReleases(ctx, cmd.Args)
	case "categories":
		reply, err = h.categories(ctx)
	case "genres":
		reply, err = h.genres(ctx)
	case "playlist":
		reply, err = h.playlistInfo(ctx, cmd.Args)
	case "featuredplaylists":
		reply, err = h.featuredPlaylists(ctx)
	case "categoryplaylist":
		reply, err = h.categoryPlaylist(ctx, cmd.Args)
	case "track":
		reply, err = h.trackInfo(ctx, cmd.Args)
	case "featurestrack":
		reply, err = h.trackFeatures(ctx, cmd.Args)
	case "infotrackfeatures":
		reply = formatFeaturesHelp(cmd.Args)
	case "recommendations", "recomendations":
		reply, err = h.recommendations(ctx, cmd.Args)
	case "highscores":
		reply, err = h.highScores()
	case "help":
		reply = helpMessage()
	default:
		return
	}

	if err != nil {
		logger.Logger.Error().Err(err).Str("command", cmd.Name).Msg("Command failed")
		reply = errorNotice(err)
	}

	h.reply(m, reply, cmd.Private)
}

func (h *Handler) artistInfo(ctx context.Context, name string) (game.Announcement, error) {
	artist, err := h.catalog.SearchArtist(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("artist %q: %w", name, err)
	}
	return formatArtist(artist), nil
}

func (h *Handler) artistAlbums(ctx context.Context, name string) (game.Announcement, error) {
	artistName, albums, err := h.catalog.ArtistAlbums(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("albums by %q: %w", name, err)
	}
	return formatArtistAlbums(artistName, albums), nil
}

func (h *Handler) topTracks(ctx context.Context, name string) (game.Announcement, error) {
	artistName, tracks, err := h.catalog.ArtistTopTracks(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("top tracks by %q: %w", name, err)
	}
	return formatTopTracks(artistName, tracks), nil
}

func (h *Handler) relatedArtists(ctx context.Context, name string) (game.Announcement, error) {
	artistName, related, err := h.catalog.RelatedArtists(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("related artists to %q: %w", name, err)
	}
	return formatRelatedArtists(artistName, related), nil
}

func (h *Handler) albumInfo(ctx context.Context, name string) (game.Announcement, error) {
	album, err := h.catalog.Album(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("album %q: %w", name, err)
	}
	return formatAlbum(album), nil
}

func (h *Handler) newReleases(ctx context.Context, country string) (game.Announcement, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	releases, err := h.catalog.NewReleases(ctx, country)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("new releases: %w", err)
	}
	return formatNewReleases(country, releases), nil
}

func (h *Handler) categories(ctx context.Context) (game.Announcement, error) {
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("categories: %w", err)
	}
	return formatCategories(categories), nil
}

func (h *Handler) genres(ctx context.Context) (game.Announcement, error) {
	genres, err := h.catalog.Genres(ctx)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("genres: %w", err)
	}
	return formatGenres(genres), nil
}

func (h *Handler) playlistInfo(ctx context.Context, name string) (game.Announcement, error) {
	playlist, err := h.catalog.Playlist(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("playlist %q: %w", name, err)
	}
	return formatPlaylist(playlist), nil
}

func (h *Handler) featuredPlaylists(ctx context.Context) (game.Announcement, error) {
	playlists, err := h.catalog.FeaturedPlaylists(ctx)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("featured playlists: %w", err)
	}
	return formatFeaturedPlaylists(playlists), nil
}

// categoryPlaylist shows a random playlist from the named category; with no
// category given, one is picked at random.
func (h *Handler) categoryPlaylist(ctx context.Context, categoryName string) (game.Announcement, error) {
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("categories: %w", err)
	}
	if len(categories) == 0 {
		return game.Announcement{}, fmt.Errorf("categories: %w", spotify.ErrNotFound)
	}

	categoryName = strings.TrimSpace(categoryName)
	categoryID := ""
	if categoryName == "" {
		categoryID = categories[rand.IntN(len(categories))].ID
	} else {
		for _, c := range categories {
			if strings.EqualFold(c.Name, categoryName) {
				categoryID = c.ID
				break
			}
		}
		if categoryID == "" {
			return game.Announcement{}, fmt.Errorf("category %q: %w", categoryName, spotify.ErrNotFound)
		}
	}

	playlists, err := h.catalog.CategoryPlaylists(ctx, categoryID)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("category playlists: %w", err)
	}
	if len(playlists) == 0 {
		return game.Announcement{}, fmt.Errorf("category %q playlists: %w", categoryName, spotify.ErrNotFound)
	}

	pick := playlists[rand.IntN(len(playlists))]
	playlist, err := h.catalog.PlaylistByID(ctx, pick.ID)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("playlist %q: %w", pick.Name, err)
	}

	return formatPlaylist(playlist), nil
}

func (h *Handler) trackInfo(ctx context.Context, name string) (game.Announcement, error) {
	track, err := h.catalog.Track(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("track %q: %w", name, err)
	}
	return formatTrack(track), nil
}

func (h *Handler) trackFeatures(ctx context.Context, name string) (game.Announcement, error) {
	trackName, features, err := h.catalog.TrackFeatures(ctx, name)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("track features %q: %w", name, err)
	}
	return formatTrackFeatures(trackName, features), nil
}

// recommendations parses "limit | artists | genres | tracks" and fetches
// suggestions for the given seeds.
func (h *Handler) recommendations(ctx context.Context, args string) (game.Announcement, error) {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 || limit > 100 {
		return game.Announcement{
			Title: "Error",
			Body:  "The number of results must be greater than 0 and less than 100",
		}, nil
	}

	var artists, genres, tracks []string
	if len(parts) > 1 {
		artists = splitSeeds(parts[1])
	}
	if len(parts) > 2 {
		genres = splitSeeds(parts[2])
	}
	if len(parts) > 3 {
		tracks = splitSeeds(parts[3])
	}

	if len(artists)+len(genres)+len(tracks) > 5 {
		return game.Announcement{
			Title: "Error",
			Body:  "The sum of artists, genres, and tracks must not be greater than 5",
		}, nil
	}

	suggested, err := h.catalog.Recommendations(ctx, limit, artists, genres, tracks)
	if err != nil {
		return game.Announcement{}, fmt.Errorf("recommendations: %w", err)
	}

	return formatRecommendations(suggested), nil
}

func (h *Handler) highScores() (game.Announcement, error) {
	entries, err := h.store.Load()
	if err != nil {
		return game.Announcement{}, fmt.Errorf("load high scores: %w", err)
	}
	return formatHighScores(entries), nil
}

// runGame validates the game arguments, builds the pool and drives a full
// session. It holds the per-channel game slot for the whole run.
func (h *Handler) runGame(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	ref, modeToken, err := parseGameArgs(args)
	if err != nil {
		h.reply(m, game.Announcement{
			Title: "Something went wrong",
			Body:  "Check the playlist url or the name you have provided. Make sure you also specify a mode.",
		}, false)
		return
	}

	mode, err := spotify.ParsePoolMode(modeToken)
	if err != nil {
		h.reply(m, game.Announcement{
			Title: "Invalid mode",
			Body:  "Supported game modes are 'songs' and 'artists'.",
		}, false)
		return
	}

	if !h.claimGameSlot(m.ChannelID) {
		h.reply(m, game.Announcement{
			Title: "Game already running",
			Body:  "Wait for the current game in this channel to finish.",
		}, false)
		return
	}
	defer h.releaseGameSlot(m.ChannelID)

	ctx := context.Background()

	if mode == spotify.ModeArtists {
		// Artist pools need one lookup per artist, warn about the delay.
		h.reply(m, game.Announcement{
			Title: "Please standby.",
			Body:  "The game will start in a few seconds.",
		}, false)
	}

	isURL := strings.HasPrefix(ref, "https://")
	pool, playlistName, err := h.catalog.GamePool(ctx, ref, isURL, mode)
	if err != nil {
		logger.Logger.Error().Err(err).
			Str("playlist_ref", ref).
			Str("mode", string(mode)).
			Msg("Failed to build game pool")
		h.reply(m, game.Announcement{
			Title: "Something went wrong",
			Body:  "Check the playlist url or the name you have provided.",
		}, false)
		return
	}

	botUserID := ""
	if s.State != nil && s.State.User != nil {
		botUserID = s.State.User.ID
	}

	channel := discord.NewChannel(h.session, m.ChannelID, botUserID)
	defer channel.Close()

	session := game.New(channel, h.store,
		game.WithVoteWindow(h.voteWindow),
		game.WithRoundCap(h.roundCap),
	)
	if err := session.Run(ctx, pool, playlistName, string(mode)); err != nil {
		logger.Logger.Error().Err(err).
			Str("channel_id", m.ChannelID).
			Str("playlist", playlistName).
			Msg("Game session aborted")
	}
}

func (h *Handler) claimGameSlot(channelID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, running := h.activeGames[channelID]; running {
		return false
	}
	h.activeGames[channelID] = struct{}{}
	return true
}

func (h *Handler) releaseGameSlot(channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.activeGames, channelID)
}

// reply sends the announcement to the invoking channel, or to the author's
// DMs when the command carried the private marker.
func (h *Handler) reply(m *discordgo.MessageCreate, a game.Announcement, private bool) {
	target := m.ChannelID
	if private {
		dm, err := h.session.UserChannelCreate(m.Author.ID)
		if err != nil {
			logger.Logger.Error().Err(err).
				Str("user_id", m.Author.ID).
				Msg("Failed to open DM channel")
			return
		}
		target = dm.ID
	}

	if err := discord.SendEmbed(h.session, target, a); err != nil {
		logger.Logger.Error().Err(err).
			Str("channel_id", target).
			Str("payload", a.Title).
			Msg("Error sending channel message")
	}
}

func errorNotice(err error) game.Announcement {
	if errors.Is(err, spotify.ErrNotFound) {
		return game.Announcement{
			Title: "Error",
			Body:  "Not found or invalid name. For more informations type '#help'.",
		}
	}
	return game.Announcement{
		Title: "Error",
		Body:  "An error occurred while talking to Spotify. Try again later.",
	}
}

func splitSeeds(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	seeds := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			seeds = append(seeds, trimmed)
		}
	}
	return seeds
}
