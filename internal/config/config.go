// Package config loads bot configuration from environment variables, with a
// .env file taken into account when present.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	BotOwnerID   string `env:"BOT_OWNER_ID"`

	UseRedis   bool   `env:"USE_REDIS" envDefault:"false"`
	RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/music_bot.db"`

	DefaultVolume     int `env:"DEFAULT_VOLUME" envDefault:"100"`
	MaxQueueSize      int `env:"MAX_QUEUE_SIZE" envDefault:"500"`
	InactivityTimeout int `env:"INACTIVITY_TIMEOUT" envDefault:"300"` // seconds

	RateLimitCommands int `env:"RATE_LIMIT_COMMANDS" envDefault:"20"` // per user per minute

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath  string `env:"LOG_PATH"`

	YouTubeCookiesPath string `env:"YOUTUBE_COOKIES_PATH"`
}

// New parses the environment into a Config and applies bounds.
func New() (*Config, error) {
	// Missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DefaultVolume < 0 {
		cfg.DefaultVolume = 0
	}
	if cfg.DefaultVolume > 200 {
		cfg.DefaultVolume = 200
	}
	if cfg.MaxQueueSize < 1 {
		cfg.MaxQueueSize = 1
	}
	if cfg.InactivityTimeout < 60 {
		cfg.InactivityTimeout = 60
	}
	if cfg.RateLimitCommands < 1 {
		cfg.RateLimitCommands = 1
	}

	return cfg, nil
}
