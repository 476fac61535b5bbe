// Package discord wraps the discordgo session behind small interfaces so
// the rest of the code never touches the gateway client directly.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/game"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"

	"github.com/bwmarrin/discordgo"
)

// EmbedColor matches the green accent used on every bot embed.
const EmbedColor = 0x2ecc71

// Sessioner covers the discordgo session methods the bot uses.
type Sessioner interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	AddHandler(handler interface{}) func()
}

// NewEmbed builds the bot's standard embed from an announcement.
func NewEmbed(a game.Announcement) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       a.Title,
		Description: a.Body,
		Color:       EmbedColor,
	}

	if a.Field != "" || a.Value != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   "⇨ " + a.Field,
				Value:  a.Value,
				Inline: true,
			},
		}
	}

	return embed
}

// SendEmbed posts an announcement embed to the given channel.
func SendEmbed(session Sessioner, channelID string, a game.Announcement) error {
	if _, err := session.ChannelMessageSendEmbed(channelID, NewEmbed(a)); err != nil {
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}

// Channel is a game notifier bound to one Discord channel. Reaction events
// for the current prompt are funneled into an internal buffer the engine
// drains through AwaitReaction.
type Channel struct {
	session   Sessioner
	channelID string
	botUserID string
	reactions chan game.Reaction
	remove    func()

	mu       sync.Mutex
	promptID string
}

// NewChannel registers a reaction listener on the session. Callers must
// Close the channel when the game ends to detach the listener.
func NewChannel(session Sessioner, channelID, botUserID string) *Channel {
	c := &Channel{
		session:   session,
		channelID: channelID,
		botUserID: botUserID,
		reactions: make(chan game.Reaction, 64),
	}
	c.remove = session.AddHandler(c.onReactionAdd)

	return c
}

// Close detaches the reaction listener.
func (c *Channel) Close() {
	if c.remove != nil {
		c.remove()
	}
}

// Announce implements game.Notifier.
func (c *Channel) Announce(_ context.Context, a game.Announcement) error {
	return SendEmbed(c.session, c.channelID, a)
}

// PostPrompt implements game.Notifier. It posts the comparison prompt and
// seeds the two vote symbols on it so players only have to tap them.
func (c *Channel) PostPrompt(_ context.Context, text string) (string, error) {
	msg, err := c.session.ChannelMessageSendEmbed(c.channelID, NewEmbed(game.Announcement{Title: text}))
	if err != nil {
		return "", fmt.Errorf("send round prompt: %w", err)
	}

	c.mu.Lock()
	c.promptID = msg.ID
	c.drainLocked()
	c.mu.Unlock()

	for _, symbol := range []string{game.SymbolUp, game.SymbolDown} {
		if err := c.session.MessageReactionAdd(c.channelID, msg.ID, symbol); err != nil {
			// Players can still react manually, keep the round going.
			logger.Logger.Warn().Err(err).
				Str("channel_id", c.channelID).
				Str("symbol", symbol).
				Msg("Failed to seed vote reaction")
		}
	}

	return msg.ID, nil
}

// AwaitReaction implements game.Notifier.
func (c *Channel) AwaitReaction(ctx context.Context, timeout time.Duration) (game.Reaction, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reaction := <-c.reactions:
		return reaction, nil
	case <-timer.C:
		return game.Reaction{}, game.ErrWaitTimeout
	case <-ctx.Done():
		return game.Reaction{}, ctx.Err()
	}
}

func (c *Channel) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.ChannelID != c.channelID || r.UserID == c.botUserID {
		return
	}

	c.mu.Lock()
	promptID := c.promptID
	c.mu.Unlock()
	if r.MessageID != promptID {
		return
	}

	select {
	case c.reactions <- game.Reaction{Player: reactorName(r), Symbol: r.Emoji.Name}:
	default:
		logger.Logger.Warn().
			Str("channel_id", c.channelID).
			Str("user_id", r.UserID).
			Msg("Reaction buffer full, dropping reaction")
	}
}

// drainLocked discards buffered reactions left over from the previous
// prompt. Callers must hold c.mu.
func (c *Channel) drainLocked() {
	for {
		select {
		case <-c.reactions:
		default:
			return
		}
	}
}

func reactorName(r *discordgo.MessageReactionAdd) string {
	if r.Member != nil && r.Member.User != nil && r.Member.User.Username != "" {
		return r.Member.User.Username
	}
	return r.UserID
}
