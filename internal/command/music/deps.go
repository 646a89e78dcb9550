// Package music implements the music slash commands.
package music

import (
	"github.com/Senkoslav/discord-bot/internal/music/extractor"
	"github.com/Senkoslav/discord-bot/internal/music/player"
	"github.com/Senkoslav/discord-bot/internal/storage"
)

// Bot is the subset of the running bot the music commands need.
type Bot interface {
	Player(guildID string) *player.Player
	// UserVoiceChannel returns the voice channel the user currently
	// occupies in the guild, or an error when they are not in one.
	UserVoiceChannel(guildID, userID string) (string, error)
}

// Deps carries the shared collaborators, injected once at startup.
type Deps struct {
	Bot       Bot
	Extractor *extractor.Extractor
	Store     *storage.Store
}
