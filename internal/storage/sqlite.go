package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

// GuildQueue is one guild's persisted queue snapshot.
type GuildQueue struct {
	GuildID      string `gorm:"primaryKey"`
	QueueData    string
	CurrentIndex int
	LoopMode     string `gorm:"default:off"`
	Volume       int    `gorm:"default:100"`
	UpdatedAt    time.Time
}

// UserPlaylist is a named playlist owned by a user.
type UserPlaylist struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_user_playlist"`
	Name      string `gorm:"uniqueIndex:idx_user_playlist"`
	Tracks    string
	CreatedAt time.Time
}

func openSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&GuildQueue{}, &UserPlaylist{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (s *Store) saveQueueSQLite(guildID string, snap storagetypes.QueueSnapshot) error {
	data, err := json.Marshal(snap.Tracks)
	if err != nil {
		return fmt.Errorf("marshal tracks: %w", err)
	}

	row := GuildQueue{
		GuildID:      guildID,
		QueueData:    string(data),
		CurrentIndex: snap.CurrentIndex,
		LoopMode:     snap.LoopMode,
		Volume:       snap.Volume,
		UpdatedAt:    time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (s *Store) loadQueueSQLite(guildID string) (*storagetypes.QueueSnapshot, error) {
	var row GuildQueue
	err := s.db.First(&row, "guild_id = ?", guildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tracks []*track.Track
	if row.QueueData != "" {
		if err := json.Unmarshal([]byte(row.QueueData), &tracks); err != nil {
			return nil, fmt.Errorf("unmarshal tracks: %w", err)
		}
	}

	return &storagetypes.QueueSnapshot{
		Tracks:       tracks,
		CurrentIndex: row.CurrentIndex,
		LoopMode:     row.LoopMode,
		Volume:       row.Volume,
	}, nil
}

func (s *Store) clearQueueSQLite(guildID string) error {
	return s.db.Delete(&GuildQueue{}, "guild_id = ?", guildID).Error
}

func (s *Store) savePlaylistSQLite(userID, name string, tracks []*track.Track) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("marshal playlist: %w", err)
	}

	row := UserPlaylist{
		UserID:    userID,
		Name:      name,
		Tracks:    string(data),
		CreatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracks"}),
	}).Create(&row).Error
}

func (s *Store) loadPlaylistSQLite(userID, name string) ([]*track.Track, error) {
	var row UserPlaylist
	err := s.db.First(&row, "user_id = ? AND name = ?", userID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tracks []*track.Track
	if err := json.Unmarshal([]byte(row.Tracks), &tracks); err != nil {
		return nil, fmt.Errorf("unmarshal playlist: %w", err)
	}
	return tracks, nil
}

func (s *Store) listPlaylistsSQLite(userID string) ([]string, error) {
	var names []string
	err := s.db.Model(&UserPlaylist{}).
		Where("user_id = ?", userID).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) deletePlaylistSQLite(userID, name string) error {
	return s.db.Delete(&UserPlaylist{}, "user_id = ? AND name = ?", userID, name).Error
}
