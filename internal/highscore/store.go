// Package highscore persists the bounded top list of past game results.
package highscore

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Capacity is the maximum number of entries the leaderboard keeps.
const Capacity = 10

// Entry is one persisted leaderboard record.
type Entry struct {
	Player   string
	Score    int
	Playlist string
	Mode     string
}

// Result is a single player's final score from a finished game.
type Result struct {
	Player string
	Score  int
}

// Store reads and writes the leaderboard file. All read-modify-write cycles
// are serialized so games finishing at the same time cannot lose updates.
//
// On-disk format: one entry per line, four colon-separated fields in fixed
// order player:score:playlist:mode. Field values must not contain colons.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns all persisted entries. A missing file is not an error and
// yields an empty leaderboard.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open high scores %q: %w", s.path, err)
	}
	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) != 4 {
			return nil, fmt.Errorf("high scores %q line %d: expected 4 fields, got %d",
				s.path, lineNum, len(fields))
		}
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("high scores %q line %d: parse score: %w", s.path, lineNum, err)
		}

		entries = append(entries, Entry{
			Player:   fields[0],
			Score:    score,
			Playlist: fields[2],
			Mode:     fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read high scores %q: %w", s.path, err)
	}

	return entries, nil
}

// Save overwrites the leaderboard file with the given entries.
func (s *Store) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(entries)
}

func (s *Store) save(entries []Entry) error {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s:%d:%s:%s\n", e.Player, e.Score, e.Playlist, e.Mode)
	}

	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write high scores %q: %w", s.path, err)
	}

	return nil
}

// Merge folds a finished game's results into the leaderboard and persists
// the outcome. A result qualifies when the board has room or its score beats
// the current minimum; every insertion over capacity evicts one minimum
// entry. Returns the merged set.
func (s *Store) Merge(results []Result, playlist, mode string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if len(entries) >= Capacity && r.Score <= minScore(entries) {
			continue
		}
		entries = append(entries, Entry{
			Player:   r.Player,
			Score:    r.Score,
			Playlist: playlist,
			Mode:     mode,
		})
		if len(entries) > Capacity {
			entries = evictMin(entries)
		}
	}

	if err := s.save(entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Ranked returns entries ordered by score descending. The sort is stable so
// equal scores keep their insertion order.
func Ranked(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func minScore(entries []Entry) int {
	min := entries[0].Score
	for _, e := range entries[1:] {
		if e.Score < min {
			min = e.Score
		}
	}
	return min
}

func evictMin(entries []Entry) []Entry {
	lowest := 0
	for i, e := range entries {
		if e.Score < entries[lowest].Score {
			lowest = i
		}
	}
	return append(entries[:lowest], entries[lowest+1:]...)
}
