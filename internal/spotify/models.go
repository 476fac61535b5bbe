package spotify

// Payload types for the Web API endpoints the bot touches. Only the fields
// the command surface renders are mapped.

type Followers struct {
	Total int `json:"total"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Owner struct {
	DisplayName string `json:"display_name"`
}

type Artist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
}

type AlbumSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AlbumType   string   `json:"album_type"`
	ReleaseDate string   `json:"release_date"`
	Artists     []Artist `json:"artists"`
}

type AlbumTrack struct {
	Name        string `json:"name"`
	TrackNumber int    `json:"track_number"`
}

type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date"`
	Label       string   `json:"label"`
	Popularity  int      `json:"popularity"`
	Artists     []Artist `json:"artists"`
	Tracks      struct {
		Items []AlbumTrack `json:"items"`
	} `json:"tracks"`
}

type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	Artists      []Artist     `json:"artists"`
	Album        AlbumSummary `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type PlaylistSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner Owner  `json:"owner"`
}

type PlaylistItem struct {
	Track *Track `json:"track"`
}

type Playlist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Owner        Owner        `json:"owner"`
	Followers    Followers    `json:"followers"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Tracks       struct {
		Total int            `json:"total"`
		Items []PlaylistItem `json:"items"`
	} `json:"tracks"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AudioFeatures is Spotify's audio analysis summary for one track.
// Reference: https://developer.spotify.com/documentation/web-api/reference/get-audio-features
type AudioFeatures struct {
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
	Tempo            float64 `json:"tempo"`
	Danceability     float64 `json:"danceability"`
	Instrumentalness float64 `json:"instrumentalness"`
	Acousticness     float64 `json:"acousticness"`
	Energy           float64 `json:"energy"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Valence          float64 `json:"valence"`
}
