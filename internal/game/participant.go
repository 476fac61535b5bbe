package game

import "fmt"

// Item is one comparable entry from the playlist pool, immutable once
// fetched. Popularity is Spotify's 0-100 scale.
type Item struct {
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
}

func (i Item) String() string {
	return fmt.Sprintf("%s (popularity %d)", i.Name, i.Popularity)
}

// Participant is a player who reacted during the first round. Elimination
// only clears Active, the accumulated score stays for the leaderboard.
type Participant struct {
	Name   string
	Score  int
	Active bool
}

func NewParticipant(name string) *Participant {
	return &Participant{
		Name:   name,
		Active: true,
	}
}
