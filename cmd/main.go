package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Fredd124/Spotify-Discord-Bot/internal/bot"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/config"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/highscore"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/logger"
	"github.com/Fredd124/Spotify-Discord-Bot/internal/spotify"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

var flagConfigFile string

func loadConfigFile() {
	flag.StringVar(&flagConfigFile, "f", "", "Default config file location")
	flag.Parse()

	if flagConfigFile == "" {
		// No file given, rely on the process environment.
		return
	}

	configFileAbs, err := filepath.Abs(flagConfigFile)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Cannot get absolute path of config file")
	}

	if err = godotenv.Load(configFileAbs); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Cannot load config file")
	}

	logger.Logger.Info().Msgf("Config file %s succesfully loaded", configFileAbs)
}

func main() {
	loadConfigFile()

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.SetLevel(cfg.Log.Level)

	catalog := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err := catalog.Authenticate(context.Background()); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Spotify authentication failed")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create new bot")
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	store := highscore.NewStore(cfg.Game.HighScoreFile)

	handler := bot.New(session, catalog, store,
		bot.WithVoteWindow(cfg.Game.VoteWindow),
		bot.WithRoundCap(cfg.Game.RoundCap),
	)
	session.AddHandler(handler.HandleMessage)

	if err := session.Open(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Cannot open gateway connection")
	}
	defer session.Close()

	logger.Logger.Info().Msg("Waiting for messages...")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Logger.Info().Msg("Shutting down")
}
