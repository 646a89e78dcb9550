// Package storagetypes holds the shapes shared between the player and the
// storage layer, so neither has to import the other.
package storagetypes

import (
	"github.com/Senkoslav/discord-bot/internal/music/track"
)

// QueueSnapshot is the persisted per-guild playback state. Tracks are stored
// in their serialized form, which never includes the ephemeral stream URL.
type QueueSnapshot struct {
	Tracks       []*track.Track `json:"tracks"`
	CurrentIndex int            `json:"current_index"`
	LoopMode     string         `json:"loop_mode"`
	Volume       int            `json:"volume"` // percent, 0-200
}
