// Package config handles application configuration via environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration. Values are loaded from
// environment variables with the prefix "BOT", e.g. BOT_DISCORD_TOKEN.
type Config struct {
	Discord DiscordConfig
	Spotify SpotifyConfig
	Game    GameConfig
	Log     LogConfig
}

// DiscordConfig holds the Discord gateway credentials.
type DiscordConfig struct {
	// Token is the bot token used to authenticate against the gateway.
	Token string `envconfig:"DISCORD_TOKEN" required:"true"`
}

// SpotifyConfig holds the Spotify client credentials.
type SpotifyConfig struct {
	ClientID     string `envconfig:"SPOTIFY_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET" required:"true"`
}

// GameConfig holds the higher-or-lower game settings.
type GameConfig struct {
	// HighScoreFile is the flat file the leaderboard persists to.
	HighScoreFile string `envconfig:"HIGH_SCORE_FILE" default:"high_scores.txt"`

	// VoteWindow is how long a single reaction wait lasts. Every accepted
	// reaction re-arms the wait, so the round keeps running while votes
	// keep arriving within this gap.
	VoteWindow time.Duration `envconfig:"VOTE_WINDOW" default:"5s"`

	// RoundCap bounds a whole voting round regardless of reaction traffic.
	RoundCap time.Duration `envconfig:"ROUND_CAP" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables. It returns an error
// if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("BOT", &cfg.Discord); err != nil {
		return nil, fmt.Errorf("load discord config: %w", err)
	}
	if err := envconfig.Process("BOT", &cfg.Spotify); err != nil {
		return nil, fmt.Errorf("load spotify config: %w", err)
	}
	if err := envconfig.Process("BOT", &cfg.Game); err != nil {
		return nil, fmt.Errorf("load game config: %w", err)
	}
	if err := envconfig.Process("BOT", &cfg.Log); err != nil {
		return nil, fmt.Errorf("load log config: %w", err)
	}

	return &cfg, nil
}
