package highscore

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "high_scores.txt"))
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Load() = %v, want empty leaderboard", entries)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)

	saved := []Entry{
		{Player: "alice", Score: 7, Playlist: "Road Trip", Mode: "songs"},
		{Player: "bob", Score: 3, Playlist: "Gym Hits", Mode: "artists"},
	}
	if err := s.Save(saved); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "high_scores.txt")
	if err := os.WriteFile(path, []byte("alice:7:Road Trip\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("Load() expected error for line with 3 fields")
	}
}

func TestMergeIntoEmptyBoard(t *testing.T) {
	s := newStore(t)

	entries, err := s.Merge([]Result{
		{Player: "alice", Score: 2},
		{Player: "bob", Score: 0},
	}, "Road Trip", "songs")
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}

	expected := []Entry{
		{Player: "alice", Score: 2, Playlist: "Road Trip", Mode: "songs"},
		{Player: "bob", Score: 0, Playlist: "Road Trip", Mode: "songs"},
	}
	if diff := cmp.Diff(expected, entries); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeEvictsOneMinimum(t *testing.T) {
	s := newStore(t)

	full := make([]Entry, 0, Capacity)
	for i := 0; i < Capacity; i++ {
		full = append(full, Entry{
			Player:   fmt.Sprintf("player%d", i),
			Score:    5,
			Playlist: "Old List",
			Mode:     "songs",
		})
	}
	if err := s.Save(full); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	entries, err := s.Merge([]Result{{Player: "newcomer", Score: 6}}, "Road Trip", "songs")
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}

	if len(entries) != Capacity {
		t.Fatalf("Board size = %d, want %d", len(entries), Capacity)
	}

	fives := 0
	foundNewcomer := false
	for _, e := range entries {
		if e.Score == 5 {
			fives++
		}
		if e.Player == "newcomer" && e.Score == 6 {
			foundNewcomer = true
		}
	}
	if fives != Capacity-1 {
		t.Fatalf("Entries with score 5 = %d, want exactly one evicted", fives)
	}
	if !foundNewcomer {
		t.Fatal("Newcomer entry missing after merge")
	}
}

func TestMergeLowScoreLeavesFullBoardUnchanged(t *testing.T) {
	s := newStore(t)

	full := make([]Entry, 0, Capacity)
	for i := 0; i < Capacity; i++ {
		full = append(full, Entry{
			Player:   fmt.Sprintf("player%d", i),
			Score:    5,
			Playlist: "Old List",
			Mode:     "songs",
		})
	}
	if err := s.Save(full); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	entries, err := s.Merge([]Result{{Player: "loser", Score: 4}}, "Road Trip", "songs")
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	if diff := cmp.Diff(full, entries); diff != "" {
		t.Fatalf("Full board changed by losing merge (-want +got):\n%s", diff)
	}
}

func TestMergeEqualScoreDoesNotQualify(t *testing.T) {
	s := newStore(t)

	full := make([]Entry, 0, Capacity)
	for i := 0; i < Capacity; i++ {
		full = append(full, Entry{Player: fmt.Sprintf("player%d", i), Score: 5, Playlist: "p", Mode: "songs"})
	}
	if err := s.Save(full); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	entries, err := s.Merge([]Result{{Player: "tied", Score: 5}}, "p", "songs")
	if err != nil {
		t.Fatalf("Merge() unexpected error: %v", err)
	}
	if diff := cmp.Diff(full, entries); diff != "" {
		t.Fatalf("Full board changed by tied merge (-want +got):\n%s", diff)
	}
}

func TestRankedIsStableOnTies(t *testing.T) {
	entries := []Entry{
		{Player: "first", Score: 3},
		{Player: "second", Score: 5},
		{Player: "third", Score: 3},
	}

	ranked := Ranked(entries)

	expected := []Entry{
		{Player: "second", Score: 5},
		{Player: "first", Score: 3},
		{Player: "third", Score: 3},
	}
	if diff := cmp.Diff(expected, ranked); diff != "" {
		t.Fatalf("Ranked mismatch (-want +got):\n%s", diff)
	}

	// Input order must be untouched.
	if entries[0].Player != "first" {
		t.Fatal("Ranked() mutated its input")
	}
}
