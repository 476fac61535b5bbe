// Package game implements the higher-or-lower elimination game. A session
// pulls a pool of items once, then runs strictly sequential rounds: post a
// comparison prompt, collect reaction votes for a bounded window, score and
// eliminate, until the pool is exhausted or nobody is left. Final scores are
// merged into the persistent high score list.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/highscore"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"

	"github.com/google/uuid"
)

// ErrInvalidPool is returned when the pool is too small to play.
var ErrInvalidPool = errors.New("pool needs at least two items")

const (
	// DefaultVoteWindow is how long one reaction wait lasts. Each accepted
	// reaction re-arms the wait with a fresh window, so voting stays open
	// while reactions keep arriving within this gap.
	DefaultVoteWindow = 5 * time.Second

	// DefaultRoundCap bounds the whole voting phase of a round. Without it a
	// steady stream of reactions could keep a round open forever.
	DefaultRoundCap = 30 * time.Second
)

type SessionOption func(*Session)

// WithVoteWindow overrides the per-wait reaction timeout.
func WithVoteWindow(d time.Duration) SessionOption {
	return func(s *Session) {
		s.voteWindow = d
	}
}

// WithRoundCap overrides the upper bound on a single voting round.
func WithRoundCap(d time.Duration) SessionOption {
	return func(s *Session) {
		s.roundCap = d
	}
}

// WithRand replaces the randomness source, used by tests to pin item order.
func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rnd = r
	}
}

// Session owns the state of one running game. Sessions in different
// channels are fully independent, they share only the high score store.
type Session struct {
	notifier     Notifier
	store        *highscore.Store
	rnd          *rand.Rand
	id           uuid.UUID
	participants []*Participant
	voteWindow   time.Duration
	roundCap     time.Duration
}

func New(notifier Notifier, store *highscore.Store, opts ...SessionOption) *Session {
	s := &Session{
		notifier:     notifier,
		store:        store,
		id:           uuid.New(),
		participants: []*Participant{},
		voteWindow:   DefaultVoteWindow,
		roundCap:     DefaultRoundCap,
	}

	// Override defaults with given options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run plays a full game over the given pool and merges the outcome into the
// high score list. It returns ErrInvalidPool for unplayable pools and the
// underlying send error when the channel fails mid-game; in both cases no
// scores are persisted.
func (s *Session) Run(ctx context.Context, pool []Item, playlistName, mode string) error {
	if len(pool) < 2 {
		logger.Logger.Warn().
			Str("session_id", s.id.String()).
			Int("pool_size", len(pool)).
			Msg("Pool too small to play")
		s.announce(ctx, Announcement{
			Title: "Invalid playlist size.",
			Body:  "Please make sure your playlist has more than 1 song.",
		})
		return ErrInvalidPool
	}

	startedAt := time.Now()
	logger.Logger.Info().
		Str("session_id", s.id.String()).
		Str("playlist", playlistName).
		Str("mode", mode).
		Int("pool_size", len(pool)).
		Msg("Game started")

	consumed := make(map[int]struct{}, len(pool))
	current := s.intN(len(pool))
	consumed[current] = struct{}{}

	numRounds := len(pool)
	firstRound := true

	for numRounds > 0 {
		// Should be impossible past the guard above, but a broken pool must
		// end with a notice instead of a crash.
		if len(pool) < 2 {
			s.announce(ctx, Announcement{
				Title: "Invalid playlist size.",
				Body:  "Please make sure your playlist has more than 1 song.",
			})
			break
		}

		next, ok := s.pickNext(pool, consumed)
		if !ok {
			logger.Logger.Info().
				Str("session_id", s.id.String()).
				Msg("Pool exhausted, ending game")
			break
		}

		currentItem := pool[current]
		nextItem := pool[next]
		isHigher := currentItem.Popularity > nextItem.Popularity
		current = next

		prompt := fmt.Sprintf("Is the popularity of '%s' higher or lower than '%s'?",
			currentItem.Name, nextItem.Name)
		if _, err := s.notifier.PostPrompt(ctx, prompt); err != nil {
			return fmt.Errorf("post round prompt: %w", err)
		}

		votes := s.collectVotes(ctx, firstRound)
		eliminated := s.scoreRound(votes, isHigher)

		logger.Logger.Info().
			Str("session_id", s.id.String()).
			Stringer("current_item", currentItem).
			Stringer("next_item", nextItem).
			Bool("is_higher", isHigher).
			Strs("eliminated", eliminated).
			Msg("Round scored")

		if err := s.notifier.Announce(ctx, Announcement{
			Title: "Round Over!",
			Body:  renderEliminated(eliminated),
			Field: "Points table",
			Value: renderScoreTable(s.participants),
		}); err != nil {
			return fmt.Errorf("announce round summary: %w", err)
		}

		if s.activeCount() == 0 {
			break
		}

		firstRound = false
		numRounds--
	}

	logger.Logger.Info().
		Str("session_id", s.id.String()).
		Dur("duration", time.Since(startedAt)).
		Int("participants", len(s.participants)).
		Msg("Game finished")

	s.finish(ctx, playlistName, mode)

	return nil
}

// Participants returns every player who joined, eliminated ones included.
func (s *Session) Participants() []*Participant {
	return s.participants
}

// finish merges all final scores into the high score list and announces the
// top entries. Store failures are logged and the game outcome is still
// shown, persistence is best effort.
func (s *Session) finish(ctx context.Context, playlistName, mode string) {
	results := make([]highscore.Result, 0, len(s.participants))
	for _, p := range s.participants {
		results = append(results, highscore.Result{Player: p.Name, Score: p.Score})
	}

	entries, err := s.store.Merge(results, playlistName, mode)
	if err != nil {
		logger.Logger.Error().Err(err).
			Str("session_id", s.id.String()).
			Msg("Failed to merge high scores")
		s.announce(ctx, Announcement{Title: "Game over! Thanks for playing."})
		return
	}

	s.announce(ctx, Announcement{
		Title: "Game over! Thanks for playing.",
		Field: "Highest Scores",
		Value: renderHighScores(entries),
	})
}

// pickNext draws an unconsumed pool index. It tries uniformly at random a
// bounded number of times, then falls back to scanning the complement so a
// nearly exhausted pool cannot loop forever. Returns false when every index
// has been used.
func (s *Session) pickNext(pool []Item, consumed map[int]struct{}) (int, bool) {
	if len(consumed) >= len(pool) {
		return 0, false
	}

	for range pool {
		idx := s.intN(len(pool))
		if _, used := consumed[idx]; !used {
			consumed[idx] = struct{}{}
			return idx, true
		}
	}

	for idx := range pool {
		if _, used := consumed[idx]; !used {
			consumed[idx] = struct{}{}
			return idx, true
		}
	}

	return 0, false
}

// collectVotes gathers reactions for the current round. Every wait uses a
// fresh voteWindow timeout and the whole phase runs under roundCap. During
// the first round every reactor becomes a permanent participant; joining
// later is not possible. Only the first up/down reaction per player counts.
func (s *Session) collectVotes(ctx context.Context, firstRound bool) map[string]string {
	votes := make(map[string]string)

	roundCtx, cancel := context.WithTimeout(ctx, s.roundCap)
	defer cancel()

	for {
		reaction, err := s.notifier.AwaitReaction(roundCtx, s.voteWindow)
		if err != nil {
			if !errors.Is(err, ErrWaitTimeout) {
				logger.Logger.Debug().Err(err).
					Str("session_id", s.id.String()).
					Msg("Vote collection stopped")
			}
			break
		}

		// The cap closes voting even when the notifier keeps yielding
		// reactions past it.
		if roundCtx.Err() != nil {
			break
		}

		if firstRound {
			s.addParticipant(reaction.Player)
		}

		if reaction.Symbol != SymbolUp && reaction.Symbol != SymbolDown {
			continue
		}
		if _, voted := votes[reaction.Player]; voted {
			continue
		}
		votes[reaction.Player] = reaction.Symbol
	}

	return votes
}

// scoreRound eliminates every active participant who did not vote or voted
// against the outcome, awards a point to the rest, and returns the names of
// the newly eliminated.
func (s *Session) scoreRound(votes map[string]string, isHigher bool) []string {
	eliminated := []string{}

	for _, p := range s.participants {
		if !p.Active {
			continue
		}

		symbol, voted := votes[p.Name]
		switch {
		case !voted:
			p.Active = false
			eliminated = append(eliminated, p.Name)
		case (isHigher && symbol == SymbolUp) || (!isHigher && symbol == SymbolDown):
			p.Score++
		default:
			p.Active = false
			eliminated = append(eliminated, p.Name)
		}
	}

	return eliminated
}

func (s *Session) addParticipant(name string) {
	for _, p := range s.participants {
		if p.Name == name {
			return
		}
	}
	s.participants = append(s.participants, NewParticipant(name))
	logger.Logger.Info().
		Str("session_id", s.id.String()).
		Str("player", name).
		Msg("Player joined the game")
}

func (s *Session) activeCount() int {
	count := 0
	for _, p := range s.participants {
		if p.Active {
			count++
		}
	}
	return count
}

func (s *Session) intN(n int) int {
	if s.rnd != nil {
		return s.rnd.IntN(n)
	}
	return rand.IntN(n)
}

// announce sends a message and logs failed sends. Used on paths where the
// game is ending anyway and the error cannot change the outcome.
func (s *Session) announce(ctx context.Context, a Announcement) {
	if err := s.notifier.Announce(ctx, a); err != nil {
		logger.Logger.Error().Err(err).
			Str("session_id", s.id.String()).
			Str("payload", a.Title).
			Msg("Error sending channel message")
	}
}
