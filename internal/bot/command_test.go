package bot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Command
		wantOK bool
	}{
		{
			name:   "plain command",
			input:  "#artist Queen",
			want:   Command{Name: "artist", Args: "Queen"},
			wantOK: true,
		},
		{
			name:   "command without args",
			input:  "#categories",
			want:   Command{Name: "categories"},
			wantOK: true,
		},
		{
			name:   "private marker",
			input:  "?#track Bohemian Rhapsody",
			want:   Command{Name: "track", Args: "Bohemian Rhapsody", Private: true},
			wantOK: true,
		},
		{
			name:   "uppercase command is normalized",
			input:  "#Artist Queen",
			want:   Command{Name: "artist", Args: "Queen"},
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			input:  "  #genres  ",
			want:   Command{Name: "genres"},
			wantOK: true,
		},
		{
			name:   "not addressed to the bot",
			input:  "hello there",
			wantOK: false,
		},
		{
			name:   "bare prefix",
			input:  "#",
			wantOK: false,
		},
		{
			name:   "private marker without prefix",
			input:  "?just a question",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseCommand(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseGameArgs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRef  string
		wantMode string
		wantErr  error
	}{
		{
			name:     "name with mode",
			input:    "road trip mode=songs",
			wantRef:  "road trip",
			wantMode: "songs",
		},
		{
			name:     "url with mode",
			input:    "https://open.spotify.com/playlist/p123?si=x mode=artists",
			wantRef:  "https://open.spotify.com/playlist/p123?si=x",
			wantMode: "artists",
		},
		{
			name:     "multi word name",
			input:    "all out 80s mode=songs",
			wantRef:  "all out 80s",
			wantMode: "songs",
		},
		{
			name:    "missing mode",
			input:   "road trip",
			wantErr: ErrMissingMode,
		},
		{
			name:    "mode only",
			input:   "mode=songs",
			wantErr: ErrMissingMode,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrMissingMode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, mode, err := parseGameArgs(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseGameArgs(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if ref != tt.wantRef || mode != tt.wantMode {
				t.Errorf("parseGameArgs(%q) = (%q, %q), want (%q, %q)",
					tt.input, ref, mode, tt.wantRef, tt.wantMode)
			}
		})
	}
}
