// Package storage persists guild queue snapshots and user playlists.
// Redis is the primary backend; when it is unreachable at startup the store
// falls back to a local SQLite database. Each guild's state is an independent
// key, so last-writer-wins per key is sufficient.
package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

const (
	opTimeout = 5 * time.Second

	// queueTTL bounds how long an abandoned guild snapshot lives in Redis.
	queueTTL = 7 * 24 * time.Hour
)

// Config selects and locates the backend.
type Config struct {
	UseRedis   bool
	RedisURL   string
	SQLitePath string
}

// Store is the durable key-value mapping from guild/user identity to
// serialized queue and playlist state.
type Store struct {
	log zerolog.Logger
	rdb *redis.Client
	db  *gorm.DB
}

// New connects to Redis when configured and reachable, otherwise opens the
// SQLite fallback.
func New(cfg Config, log zerolog.Logger) (*Store, error) {
	s := &Store{log: log.With().Str("component", "storage").Logger()}

	if cfg.UseRedis {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			s.log.Warn().Err(err).Msg("invalid redis url, falling back to sqlite")
		} else {
			client := redis.NewClient(opt)
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			err = client.Ping(ctx).Err()
			cancel()
			if err == nil {
				s.rdb = client
				s.log.Info().Msg("connected to redis")
				return s, nil
			}
			client.Close()
			s.log.Warn().Err(err).Msg("redis unreachable, falling back to sqlite")
		}
	}

	db, err := openSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	s.db = db
	s.log.Info().Str("path", cfg.SQLitePath).Msg("connected to sqlite")
	return s, nil
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

// SaveQueue persists a guild's queue snapshot.
func (s *Store) SaveQueue(guildID string, snap storagetypes.QueueSnapshot) error {
	if s.rdb != nil {
		return s.saveQueueRedis(guildID, snap)
	}
	return s.saveQueueSQLite(guildID, snap)
}

// LoadQueue returns the stored snapshot, or (nil, nil) when none exists.
func (s *Store) LoadQueue(guildID string) (*storagetypes.QueueSnapshot, error) {
	if s.rdb != nil {
		return s.loadQueueRedis(guildID)
	}
	return s.loadQueueSQLite(guildID)
}

// ClearGuildQueue deletes a guild's stored snapshot.
func (s *Store) ClearGuildQueue(guildID string) error {
	if s.rdb != nil {
		return s.clearQueueRedis(guildID)
	}
	return s.clearQueueSQLite(guildID)
}

// SavePlaylist stores a named playlist for a user, replacing any previous
// playlist with the same name.
func (s *Store) SavePlaylist(userID, name string, tracks []*track.Track) error {
	if s.rdb != nil {
		return s.savePlaylistRedis(userID, name, tracks)
	}
	return s.savePlaylistSQLite(userID, name, tracks)
}

// LoadPlaylist returns the named playlist, or (nil, nil) when absent.
func (s *Store) LoadPlaylist(userID, name string) ([]*track.Track, error) {
	if s.rdb != nil {
		return s.loadPlaylistRedis(userID, name)
	}
	return s.loadPlaylistSQLite(userID, name)
}

// ListPlaylists returns the user's playlist names.
func (s *Store) ListPlaylists(userID string) ([]string, error) {
	if s.rdb != nil {
		return s.listPlaylistsRedis(userID)
	}
	return s.listPlaylistsSQLite(userID)
}

// DeletePlaylist removes the named playlist.
func (s *Store) DeletePlaylist(userID, name string) error {
	if s.rdb != nil {
		return s.deletePlaylistRedis(userID, name)
	}
	return s.deletePlaylistSQLite(userID, name)
}
