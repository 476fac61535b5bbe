package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/game"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("id", "secret",
		WithBaseURL(server.URL),
		WithAccountsURL(server.URL+"/api/token"),
		WithHTTPClient(server.Client()),
	)
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Token request method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		// base64("id:secret")
		if got := r.Header.Get("Authorization"); got != "Basic aWQ6c2VjcmV0" {
			t.Errorf("Authorization = %q, want basic credentials", got)
		}
		w.Write([]byte(`{"access_token":"token-123"}`))
	})
	mux.HandleFunc("/browse/categories", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{"categories":{"items":[{"id":"pop","name":"Pop"}]}}`))
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	if err := c.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}

	categories, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() unexpected error: %v", err)
	}
	expected := []Category{{ID: "pop", Name: "Pop"}}
	if diff := cmp.Diff(expected, categories); diff != "" {
		t.Fatalf("Categories mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchArtistPrefersExactMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "artist" {
			t.Errorf("search type = %q, want artist", got)
		}
		w.Write([]byte(`{"artists":{"items":[
			{"id":"1","name":"Queen Latifah","popularity":70},
			{"id":"2","name":"queen","popularity":90}
		]}}`))
	})

	c := newTestClient(t, mux)

	artist, err := c.SearchArtist(context.Background(), "Queen")
	if err != nil {
		t.Fatalf("SearchArtist() unexpected error: %v", err)
	}
	if artist.ID != "2" {
		t.Fatalf("SearchArtist() picked %q, want the exact case-insensitive match", artist.Name)
	}
}

func TestSearchArtistFallsBackToFirstResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"artists":{"items":[
			{"id":"1","name":"Queens of the Stone Age"},
			{"id":"2","name":"Queen Latifah"}
		]}}`))
	})

	c := newTestClient(t, mux)

	artist, err := c.SearchArtist(context.Background(), "Queen")
	if err != nil {
		t.Fatalf("SearchArtist() unexpected error: %v", err)
	}
	if artist.ID != "1" {
		t.Fatalf("SearchArtist() picked %q, want the first result", artist.Name)
	}
}

func TestSearchArtistNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"artists":{"items":[]}}`))
	})

	c := newTestClient(t, mux)

	if _, err := c.SearchArtist(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SearchArtist() error = %v, want ErrNotFound", err)
	}
}

func TestGamePoolTracksFromURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/playlists/p123", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"p123","name":"Road Trip","tracks":{"items":[
			{"track":{"name":"Song A","popularity":80}},
			{"track":null},
			{"track":{"name":"Song B","popularity":20}}
		]}}`))
	})

	c := newTestClient(t, mux)

	pool, name, err := c.GamePool(context.Background(),
		"https://open.spotify.com/playlist/p123?si=abc", true, ModeTracks)
	if err != nil {
		t.Fatalf("GamePool() unexpected error: %v", err)
	}
	if name != "Road Trip" {
		t.Fatalf("Playlist name = %q, want Road Trip", name)
	}

	expected := []game.Item{
		{Name: "Song A", Popularity: 80},
		{Name: "Song B", Popularity: 20},
	}
	if diff := cmp.Diff(expected, pool); diff != "" {
		t.Fatalf("Pool mismatch (-want +got):\n%s", diff)
	}
}

func TestGamePoolArtistsDeduplicatesAndSkipsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "Artist One":
			w.Write([]byte(`{"artists":{"items":[{"id":"a1","name":"Artist One","popularity":75}]}}`))
		default:
			// Lookup failures only drop the artist from the pool.
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/playlists/p123", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"p123","name":"Road Trip","tracks":{"items":[
			{"track":{"name":"Song A","artists":[{"name":"Artist One"}]}},
			{"track":{"name":"Song B","artists":[{"name":"Artist One"}]}},
			{"track":{"name":"Song C","artists":[{"name":"Artist Two"}]}}
		]}}`))
	})

	c := newTestClient(t, mux)

	pool, _, err := c.GamePool(context.Background(),
		"https://open.spotify.com/playlist/p123", true, ModeArtists)
	if err != nil {
		t.Fatalf("GamePool() unexpected error: %v", err)
	}

	expected := []game.Item{{Name: "Artist One", Popularity: 75}}
	if diff := cmp.Diff(expected, pool); diff != "" {
		t.Fatalf("Pool mismatch (-want +got):\n%s", diff)
	}
}

func TestGamePoolUnresolvablePlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", http.NotFound)

	c := newTestClient(t, mux)

	_, _, err := c.GamePool(context.Background(), "https://open.spotify.com/playlist/nope", true, ModeTracks)
	if err == nil {
		t.Fatal("GamePool() expected error for unresolvable playlist")
	}
}

func TestPlaylistIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "share url with query",
			ref:  "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd?si=abcdef",
			want: "37i9dQZF1DX0XUsuxWHRQd",
		},
		{
			name: "share url without query",
			ref:  "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd",
			want: "37i9dQZF1DX0XUsuxWHRQd",
		},
		{
			name: "bare id",
			ref:  "37i9dQZF1DX0XUsuxWHRQd",
			want: "37i9dQZF1DX0XUsuxWHRQd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playlistIDFromURL(tt.ref); got != tt.want {
				t.Errorf("playlistIDFromURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestParsePoolMode(t *testing.T) {
	tests := []struct {
		input   string
		want    PoolMode
		wantErr bool
	}{
		{input: "songs", want: ModeTracks},
		{input: "Artists", want: ModeArtists},
		{input: "albums", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePoolMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePoolMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePoolMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
