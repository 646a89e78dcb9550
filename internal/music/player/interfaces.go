package player

import (
	"context"

	"github.com/Senkoslav/discord-bot/internal/music/track"
	"github.com/Senkoslav/discord-bot/internal/storagetypes"
)

// Extractor resolves search queries or URLs into tracks and refreshes
// ephemeral stream URLs. Extract never fails across this boundary; total
// failure is an empty result.
type Extractor interface {
	Extract(ctx context.Context, query, requesterID, requesterName string) []*track.Track
	StreamURL(ctx context.Context, t *track.Track) (string, error)
}

// Store persists queue snapshots. Writes are best-effort: the player logs
// failures and keeps playing.
type Store interface {
	SaveQueue(guildID string, snap storagetypes.QueueSnapshot) error
	LoadQueue(guildID string) (*storagetypes.QueueSnapshot, error) // (nil, nil) when no state exists
	ClearGuildQueue(guildID string) error
}

// Transport opens voice connections. Connecting to a different channel of a
// guild that already has a connection moves it.
type Transport interface {
	Connect(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Connection is a live voice connection. Play starts streaming the given
// audio URL and invokes onComplete exactly once when the stream finishes or
// errors; the callback may run on the transport's own goroutine.
type Connection interface {
	ChannelID() string
	Play(streamURL string, seekSeconds float64, volume float64, onComplete func(error)) error
	Pause() bool
	Resume() bool
	SetVolume(volume float64)
	Stop()
	Disconnect() error
}
