// Package discord wires the gateway session, the command registry and the
// per-guild players together.
package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/config"
	"github.com/Senkoslav/discord-bot/internal/music/extractor"
	"github.com/Senkoslav/discord-bot/internal/music/player"
	"github.com/Senkoslav/discord-bot/internal/music/voice"
	"github.com/Senkoslav/discord-bot/internal/storage"
)

// Bot is the running Discord bot.
type Bot struct {
	cfg       *config.Config
	dg        *discordgo.Session
	store     *storage.Store
	ext       *extractor.Extractor
	transport *voice.Transport
	registry  *command.Registry
	log       zerolog.Logger

	mu      sync.Mutex
	players map[string]*player.Player
}

// New creates the bot and its gateway session without opening it.
func New(cfg *config.Config, store *storage.Store, ext *extractor.Extractor, registry *command.Registry, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	b := &Bot{
		cfg:       cfg,
		dg:        dg,
		store:     store,
		ext:       ext,
		transport: voice.NewTransport(dg, log),
		registry:  registry,
		log:       log,
		players:   make(map[string]*player.Player),
	}

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildDelete)

	return b, nil
}

// Session exposes the underlying gateway session.
func (b *Bot) Session() *discordgo.Session { return b.dg }

// Run opens the gateway and blocks until ctx is cancelled, then shuts down
// every player and closes the session.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	<-ctx.Done()

	b.log.Info().Msg("shutting down, disconnecting players")
	b.mu.Lock()
	for guildID, p := range b.players {
		p.Close()
		delete(b.players, guildID)
	}
	b.mu.Unlock()

	return b.dg.Close()
}

// Player returns the guild's player, creating and restoring it on first use.
func (b *Bot) Player(guildID string) *player.Player {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.players[guildID]; ok {
		return p
	}

	p := player.New(player.Options{
		GuildID:       guildID,
		MaxQueueSize:  b.cfg.MaxQueueSize,
		VolumePercent: b.cfg.DefaultVolume,
		IdleTimeout:   time.Duration(b.cfg.InactivityTimeout) * time.Second,
		Extractor:     b.ext,
		Store:         b.store,
		Transport:     b.transport,
		Logger:        b.log.With().Str("guild_id", guildID).Logger(),
	})
	p.RestoreState()
	b.players[guildID] = p
	return p
}

// UserVoiceChannel returns the voice channel the user occupies in the guild.
func (b *Bot) UserVoiceChannel(guildID, userID string) (string, error) {
	vs, err := b.dg.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", fmt.Errorf("user %s is not in a voice channel", userID)
	}
	return vs.ChannelID, nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("username", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("gateway ready")

	if err := b.registerCommands(); err != nil {
		b.log.Error().Err(err).Msg("slash command registration failed")
	}
}

// registerCommands overwrites the global slash command set with the
// registry's definitions.
func (b *Bot) registerCommands() error {
	defs := make([]*discordgo.ApplicationCommand, 0)
	for _, cmd := range b.registry.All() {
		if def := cmd.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}

	_, err := b.dg.ApplicationCommandBulkOverwrite(b.dg.State.User.ID, "", defs)
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.Info().Int("count", len(defs)).Msg("slash commands registered")
	return nil
}

// onGuildDelete fires when the bot is removed from a guild: drop the player
// and forget the guild's stored queue.
func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return // outage, not a removal
	}

	b.mu.Lock()
	p, ok := b.players[g.ID]
	delete(b.players, g.ID)
	b.mu.Unlock()

	if ok {
		p.Close()
	}
	if err := b.store.ClearGuildQueue(g.ID); err != nil {
		b.log.Warn().Err(err).Str("guild_id", g.ID).Msg("clearing stored queue failed")
	}
	b.log.Info().Str("guild_id", g.ID).Msg("removed from guild")
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.registry.Get(name)
		if !ok {
			b.log.Warn().Str("command", name).Msg("unknown command")
			return
		}
		ctx := &command.Context{Session: s, Event: i, Log: b.log}
		if err := cmd.Run(ctx); err != nil {
			b.log.Error().Err(err).Str("command", name).Msg("command failed")
			b.replyError(s, i)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		for _, cmd := range b.registry.All() {
			if !strings.HasPrefix(customID, cmd.Name()+":") {
				continue
			}
			handler, ok := cmd.(command.ComponentHandler)
			if !ok {
				return
			}
			ctx := &command.Context{Session: s, Event: i, Log: b.log}
			if err := handler.Component(ctx); err != nil {
				b.log.Error().Err(err).Str("custom_id", customID).Msg("component failed")
			}
			return
		}
	}
}

func (b *Bot) replyError(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Best effort; the interaction may already be acknowledged.
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{ErrorEmbed("Something went wrong running that command.")},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
