package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

func queueKey(guildID string) string {
	return "queue:" + guildID
}

func playlistKey(userID, name string) string {
	return "playlist:" + userID + ":" + name
}

func (s *Store) saveQueueRedis(guildID string, snap storagetypes.QueueSnapshot) error {
	data, err := json.Marshal(snap.Tracks)
	if err != nil {
		return fmt.Errorf("marshal tracks: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := queueKey(guildID)
	if err := s.rdb.HSet(ctx, key, map[string]interface{}{
		"queue_data":    string(data),
		"current_index": strconv.Itoa(snap.CurrentIndex),
		"loop_mode":     snap.LoopMode,
		"volume":        strconv.Itoa(snap.Volume),
	}).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, queueTTL).Err()
}

func (s *Store) loadQueueRedis(guildID string) (*storagetypes.QueueSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.rdb.HGetAll(ctx, queueKey(guildID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var tracks []*track.Track
	if raw := data["queue_data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
			return nil, fmt.Errorf("unmarshal tracks: %w", err)
		}
	}

	currentIndex, _ := strconv.Atoi(data["current_index"])
	volume := 100
	if v, err := strconv.Atoi(data["volume"]); err == nil {
		volume = v
	}

	return &storagetypes.QueueSnapshot{
		Tracks:       tracks,
		CurrentIndex: currentIndex,
		LoopMode:     data["loop_mode"],
		Volume:       volume,
	}, nil
}

func (s *Store) clearQueueRedis(guildID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, queueKey(guildID)).Err()
}

func (s *Store) savePlaylistRedis(userID, name string, tracks []*track.Track) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("marshal playlist: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Set(ctx, playlistKey(userID, name), data, 0).Err()
}

func (s *Store) loadPlaylistRedis(userID, name string) ([]*track.Track, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, playlistKey(userID, name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tracks []*track.Track
	if err := json.Unmarshal([]byte(data), &tracks); err != nil {
		return nil, fmt.Errorf("unmarshal playlist: %w", err)
	}
	return tracks, nil
}

func (s *Store) listPlaylistsRedis(userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	prefix := "playlist:" + userID + ":"
	var names []string
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) deletePlaylistRedis(userID, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, playlistKey(userID, name)).Err()
}
