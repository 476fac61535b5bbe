package bot

import (
	"fmt"
	"strings"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/game"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/highscore"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/spotify"
)

// Responses are wrapped in backticks so Discord renders them monospaced,
// same as every other block the bot posts.

func artistNames(artists []spotify.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func formatArtist(artist spotify.Artist) game.Announcement {
	body := fmt.Sprintf("`Name: %s\nGenres: %s\nPopularity: %d\nFollowers: %d`",
		artist.Name,
		strings.Join(artist.Genres, ", "),
		artist.Popularity,
		artist.Followers.Total,
	)
	return game.Announcement{Title: artist.Name + " Info", Body: body}
}

func formatArtistAlbums(artistName string, albums []spotify.AlbumSummary) game.Announcement {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`Albums by %s:\n", artistName)
	for _, album := range albums {
		fmt.Fprintf(&sb, "\t%s\n", album.Name)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Albums By " + artistName, Body: sb.String()}
}

func formatTopTracks(artistName string, tracks []spotify.Track) game.Announcement {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`Top trending tracks by %s:\n", artistName)
	for i, track := range tracks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, track.Name)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Top Tracks By " + artistName, Body: sb.String()}
}

func formatRelatedArtists(artistName string, related []spotify.Artist) game.Announcement {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`Related artists to %s:\n", artistName)
	for i, artist := range related {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, artist.Name)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Related Artists To " + artistName, Body: sb.String()}
}

func formatAlbum(album spotify.Album) game.Announcement {
	var tracks strings.Builder
	for _, track := range album.Tracks.Items {
		fmt.Fprintf(&tracks, "\t%d: %s\n", track.TrackNumber, track.Name)
	}

	body := fmt.Sprintf("`Name: %s\nArtists: %s\nRelease Date: %s\nTracks:\n%s\nPopularity: %d\nLabel: %s`",
		album.Name,
		artistNames(album.Artists),
		album.ReleaseDate,
		strings.TrimRight(tracks.String(), "\n"),
		album.Popularity,
		album.Label,
	)
	return game.Announcement{Title: album.Name + " Info", Body: body}
}

func formatNewReleases(country string, releases []spotify.AlbumSummary) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`New Albums:\n")
	for _, album := range releases {
		// Singles and compilations are filtered out, full albums only.
		if album.AlbumType != "album" {
			continue
		}
		artist := ""
		if len(album.Artists) > 0 {
			artist = album.Artists[0].Name
		}
		fmt.Fprintf(&sb, "\t%s - %s - %s\n", album.Name, artist, album.ReleaseDate)
	}
	sb.WriteString("`")
	return game.Announcement{Title: strings.TrimSpace("New Album Releases " + country), Body: sb.String()}
}

func formatCategories(categories []spotify.Category) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`Categories:\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "\t%s\n", category.Name)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Spotify Categories", Body: sb.String()}
}

func formatGenres(genres []string) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`Genres:\n")
	for _, genre := range genres {
		fmt.Fprintf(&sb, "\t%s\n", genre)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Spotify Genres", Body: sb.String()}
}

func formatPlaylist(playlist spotify.Playlist) game.Announcement {
	body := fmt.Sprintf("`Name: %s\nOwner: %s\nDescription: %s\nFollowers: %d\nTracks: %d\nLink: `%s",
		playlist.Name,
		playlist.Owner.DisplayName,
		playlist.Description,
		playlist.Followers.Total,
		playlist.Tracks.Total,
		playlist.ExternalURLs.Spotify,
	)
	return game.Announcement{Title: playlist.Name + " Info", Body: body}
}

func formatFeaturedPlaylists(playlists []spotify.PlaylistSummary) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`Playlists:\n")
	for _, playlist := range playlists {
		fmt.Fprintf(&sb, "\t%s - %s\n", playlist.Name, playlist.Owner.DisplayName)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Spotify Featured Playlists", Body: sb.String()}
}

func formatTrack(track spotify.Track) game.Announcement {
	body := fmt.Sprintf("`Name: %s\nArtists: %s\nAlbum: %s\nRelease Date: %s\nPopularity: %d\nLink: `%s",
		track.Name,
		artistNames(track.Artists),
		track.Album.Name,
		track.Album.ReleaseDate,
		track.Popularity,
		track.ExternalURLs.Spotify,
	)
	return game.Announcement{Title: track.Name + " Info", Body: body}
}

var keyNames = []string{"C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B"}

func formatTrackFeatures(trackName string, features spotify.AudioFeatures) game.Announcement {
	key := "unknown"
	if features.Key >= 0 && features.Key < len(keyNames) {
		key = keyNames[features.Key]
	}
	mode := "Major"
	if features.Mode == 0 {
		mode = "Minor"
	}

	body := fmt.Sprintf("`Key: %s\nMode: %s\nTime Signature: %d/4\nTempo (BPM): %g\n"+
		"Danceability (Range: 0-1): %g\nInstrumentalness (Range: 0-1): %g\n"+
		"Acousticness (Range: 0-1): %g\nEnergy (Range: 0-1): %g\n"+
		"Loudness (Range: -60-0 db): %g\nSpeechiness (Range: 0-1): %g\nValence (Range: 0-1): %g`",
		key, mode, features.TimeSignature, features.Tempo,
		features.Danceability, features.Instrumentalness,
		features.Acousticness, features.Energy,
		features.Loudness, features.Speechiness, features.Valence,
	)
	return game.Announcement{Title: trackName + " Features", Body: body}
}

func formatRecommendations(tracks []spotify.Track) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`Song recommendations:\n")
	for i, track := range tracks {
		artist := ""
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, track.Name, artist)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Recommended Tracks", Body: sb.String()}
}

func formatHighScores(entries []highscore.Entry) game.Announcement {
	var sb strings.Builder
	sb.WriteString("`Top 10 High Scores:\n")
	for i, e := range highscore.Ranked(entries) {
		fmt.Fprintf(&sb, "%d. %s: %d (Playlist: %s) (Mode: %s)\n", i+1, e.Player, e.Score, e.Playlist, e.Mode)
	}
	sb.WriteString("`")
	return game.Announcement{Title: "Highest Scores", Body: sb.String()}
}

// featureHelp maps a feature name to its explanation for #infotrackfeatures.
var featureHelp = []struct {
	name string
	text string
}{
	{"acousticness", "A confidence measure from 0.0 to 1.0 of whether the track is acoustic. " +
		"1.0 represents high confidence the track is acoustic."},
	{"danceability", "Describes how suitable a track is for dancing based on a combination of musical " +
		"elements including tempo, rhythm stability, beat strength, and overall regularity. " +
		"A value of 0.0 is least danceable and 1.0 is most danceable."},
	{"energy", "A measure from 0.0 to 1.0 representing a perceptual measure of intensity and activity. " +
		"Typically, energetic tracks feel fast, loud, and noisy."},
	{"instrumentalness", "Predicts whether a track contains no vocals. The closer the value is to 1.0, " +
		"the greater likelihood the track contains no vocal content."},
	{"liveness", "Detects the presence of an audience in the recording. A value above 0.8 provides " +
		"strong likelihood that the track is live."},
	{"loudness", "The overall loudness of a track in decibels (dB), averaged across the entire track. " +
		"Values typically range between -60 and 0 db."},
	{"speechiness", "Detects the presence of spoken words in a track. Values above 0.66 describe tracks " +
		"that are probably made entirely of spoken words, values below 0.33 most likely represent music."},
	{"tempo", "The overall estimated tempo of a track in beats per minute (BPM)."},
	{"valence", "A measure from 0.0 to 1.0 describing the musical positiveness conveyed by a track. " +
		"High valence sounds more positive, low valence more negative."},
}

func formatFeaturesHelp(filter string) game.Announcement {
	filter = strings.ToLower(strings.TrimSpace(filter))

	var sb strings.Builder
	for _, f := range featureHelp {
		if filter != "" && !strings.Contains(filter, f.name) {
			continue
		}
		fmt.Fprintf(&sb, "⇨ %s: %s\n", capitalize(f.name), f.text)
	}

	if sb.Len() == 0 {
		return game.Announcement{
			Title: "Track Features Help",
			Body:  "Please provide a valid feature name. For more informations type '#help'.",
		}
	}

	return game.Announcement{Title: "Track Features Help", Body: sb.String()}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func helpMessage() game.Announcement {
	lines := []string{
		"`# Commands Help:",
		"\t#artist artist_name",
		"\t#albums artist_name",
		"\t#toptracks artist_name",
		"\t#relatedartists artist_name",
		"\t#album album_name",
		"\t#newreleases country (e.g. PT, US - works best for US)",
		"\t#categories",
		"\t#genres",
		"\t#playlist playlist_name",
		"\t#featuredplaylists",
		"\t#categoryplaylist [category_name] (optional - if not given will be randomly selected)",
		"\t#track track_name",
		"\t#featurestrack track_name",
		"\t#infotrackfeatures [feature_name] (optional)",
		"\t#recommendations number_of_results | artists | genres | tracks",
		"\t\tExample: #recommendations 10 | Taylor Swift | pop, rock | Bad Blood, Shape of You",
		"\t\tNote: At least one of 'artists', 'genres', or 'tracks' is required. The sum of them can't be more than 5.",
		"\t#game playlist_name/playlist_url mode=songs/artists",
		"\t#highscores",
		"\tNote: If before every command you insert '?' the information will be sent to you via DM`",
	}
	return game.Announcement{Title: "Help:", Body: strings.Join(lines, "\n")}
}
