package game

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout signals that no reaction arrived within a single wait.
// It marks the end of a voting window, not a failure.
var ErrWaitTimeout = errors.New("reaction wait timed out")

// Reaction symbols that count as votes. Everything else is ignored.
const (
	SymbolUp   = "⬆️"
	SymbolDown = "⬇️"
)

// Reaction is a single emoji reaction from a player.
type Reaction struct {
	Player string
	Symbol string
}

// Announcement is a structured message posted to the game channel.
type Announcement struct {
	Title string
	Body  string
	Field string
	Value string
}

// Notifier is the channel the game talks through. Implementations post
// messages to all participants and collect timed reactions back. Any send
// error is fatal to the running session.
type Notifier interface {
	// Announce posts a plain message.
	Announce(ctx context.Context, a Announcement) error

	// PostPrompt posts a round comparison prompt, seeds the vote symbols on
	// it and returns the message ID reactions will arrive for.
	PostPrompt(ctx context.Context, text string) (string, error)

	// AwaitReaction blocks until a reaction to the current prompt arrives or
	// the timeout elapses, in which case it returns ErrWaitTimeout.
	AwaitReaction(ctx context.Context, timeout time.Duration) (Reaction, error)
}
