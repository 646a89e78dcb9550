package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Senkoslav/discord-bot/internal/command"
	musiccmd "github.com/Senkoslav/discord-bot/internal/command/music"
	utilcmd "github.com/Senkoslav/discord-bot/internal/command/util"
	"github.com/Senkoslav/discord-bot/internal/config"
	"github.com/Senkoslav/discord-bot/internal/discord"
	"github.com/Senkoslav/discord-bot/internal/logger"
	"github.com/Senkoslav/discord-bot/internal/music/extractor"
	"github.com/Senkoslav/discord-bot/internal/storage"
	"github.com/Senkoslav/discord-bot/pkg/ratelimit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogPath)
	log.Info().Msg("starting music bot")

	store, err := storage.New(storage.Config{
		UseRedis:   cfg.UseRedis,
		RedisURL:   cfg.RedisURL,
		SQLitePath: cfg.SQLitePath,
	}, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ext := extractor.New(cfg.YouTubeCookiesPath, log)
	registry := command.NewRegistry()

	bot, err := discord.New(cfg, store, ext, registry, log)
	if err != nil {
		return err
	}

	limiter := ratelimit.NewPerUser(cfg.RateLimitCommands, 5)
	deps := musiccmd.Deps{Bot: bot, Extractor: ext, Store: store}

	mws := []command.Middleware{
		command.WithGuildOnly(),
		command.WithRateLimit(limiter),
		command.WithCommandLogger(),
	}
	for _, cmd := range []command.Command{
		&musiccmd.Play{Deps: deps},
		musiccmd.NewSearch(deps),
		&musiccmd.Pause{Deps: deps},
		&musiccmd.Resume{Deps: deps},
		&musiccmd.Skip{Deps: deps},
		&musiccmd.Previous{Deps: deps},
		&musiccmd.Jump{Deps: deps},
		&musiccmd.Stop{Deps: deps},
		&musiccmd.Seek{Deps: deps},
		&musiccmd.Volume{Deps: deps},
		&musiccmd.Queue{Deps: deps},
		&musiccmd.Now{Deps: deps},
		&musiccmd.History{Deps: deps},
		&musiccmd.Remove{Deps: deps},
		&musiccmd.Move{Deps: deps},
		&musiccmd.Clear{Deps: deps},
		&musiccmd.Shuffle{Deps: deps},
		&musiccmd.Loop{Deps: deps},
		&musiccmd.Join{Deps: deps},
		&musiccmd.Leave{Deps: deps},
		&musiccmd.Playlist{Deps: deps},
	} {
		registry.Register(command.Chain(cmd, mws...))
	}

	// Utility commands work in DMs too, so they skip the guild-only check.
	utilMws := []command.Middleware{
		command.WithRateLimit(limiter),
		command.WithCommandLogger(),
	}
	registry.Register(command.Chain(&utilcmd.Ping{}, utilMws...))
	registry.Register(command.Chain(&utilcmd.Info{StartedAt: time.Now()}, utilMws...))
	registry.Register(command.Chain(&utilcmd.Invite{}, utilMws...))
	registry.Register(command.Chain(&utilcmd.Help{Registry: registry}, utilMws...))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	log.Info().Msg("music bot exited cleanly")
	return nil
}
