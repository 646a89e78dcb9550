package music

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

const extractTimeout = 60 * time.Second

type Play struct{ Deps }

func (c *Play) Name() string        { return "play" }
func (c *Play) Description() string { return "Play a song from URL or search query" }

func (c *Play) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "YouTube/SoundCloud URL or search query",
				Required:    true,
			},
		},
	}
}

func (c *Play) Run(ctx *command.Context) error {
	query := ctx.StringOption("query")
	user := ctx.User()

	if err := ctx.Defer(); err != nil {
		return fmt.Errorf("defer play response: %w", err)
	}

	channelID, err := c.Bot.UserVoiceChannel(ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyEmbed(discord.ErrorEmbed("You need to be in a voice channel."))
	}

	p := c.Bot.Player(ctx.GuildID())

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if !p.IsConnected() && !p.Connect(cctx, channelID) {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to connect to voice channel."))
	}

	tracks := c.Extractor.Extract(cctx, query, user.ID, user.Username)
	if len(tracks) == 0 {
		return ctx.ReplyEmbed(discord.ErrorEmbed(fmt.Sprintf(
			"No results found for: `%s`\nMake sure the URL is valid or try a different search query.", query)))
	}

	added := p.AddTracks(tracks)
	if added == 0 {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Queue is full! Remove some tracks first."))
	}

	if !p.IsPlaying() && !p.IsPaused() {
		p.Play(cctx, nil)
	}

	if len(tracks) == 1 {
		size, _, _ := p.QueueInfo()
		if size == 1 {
			return ctx.ReplyEmbed(discord.TrackEmbed(tracks[0], "🎵 Now Playing", 0))
		}
		return ctx.ReplyEmbed(discord.TrackEmbed(tracks[0], "✅ Added to Queue", size-1))
	}

	size, _, _ := p.QueueInfo()
	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf(
		"Added **%d** tracks to the queue.\nQueue now has **%d** tracks.", added, size)))
}
