package music

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

// Playlist manages per-user saved playlists: the current queue can be saved
// under a name and loaded back later, in any guild.
type Playlist struct{ Deps }

func (c *Playlist) Name() string        { return "playlist" }
func (c *Playlist) Description() string { return "Save, load and manage your playlists" }

func (c *Playlist) SlashDefinition() *discordgo.ApplicationCommand {
	nameOpt := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: desc,
			Required:    true,
		}
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "save",
				Description: "Save the current queue as a playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt("Playlist name")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "load",
				Description: "Load a playlist into the queue",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt("Playlist name")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List your saved playlists",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a saved playlist",
				Options:     []*discordgo.ApplicationCommandOption{nameOpt("Playlist name")},
			},
		},
	}
}

func (c *Playlist) Run(ctx *command.Context) error {
	opts := ctx.Event.ApplicationCommandData().Options
	if len(opts) == 0 {
		return ctx.ReplyEphemeral("Missing subcommand.")
	}
	sub := opts[0]

	var name string
	for _, opt := range sub.Options {
		if opt.Name == "name" {
			name = strings.TrimSpace(opt.StringValue())
		}
	}

	switch sub.Name {
	case "save":
		return c.save(ctx, name)
	case "load":
		return c.load(ctx, name)
	case "list":
		return c.list(ctx)
	case "delete":
		return c.delete(ctx, name)
	default:
		return ctx.ReplyEphemeral("Unknown subcommand.")
	}
}

func (c *Playlist) save(ctx *command.Context, name string) error {
	if name == "" {
		return ctx.ReplyEphemeral("Playlist name cannot be empty.")
	}

	p := c.Bot.Player(ctx.GuildID())
	tracks := p.Tracks()
	if len(tracks) == 0 {
		return ctx.ReplyEphemeral("The queue is empty, nothing to save.")
	}

	if err := c.Store.SavePlaylist(ctx.User().ID, name, tracks); err != nil {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to save playlist."))
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf(
		"Saved **%d** tracks as playlist **%s**.", len(tracks), name)))
}

func (c *Playlist) load(ctx *command.Context, name string) error {
	user := ctx.User()

	tracks, err := c.Store.LoadPlaylist(user.ID, name)
	if err != nil {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to load playlist."))
	}
	if len(tracks) == 0 {
		return ctx.ReplyEphemeral(fmt.Sprintf("You have no playlist named **%s**.", name))
	}

	channelID, err := c.Bot.UserVoiceChannel(ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyEphemeral("You need to be in a voice channel.")
	}

	if err := ctx.Defer(); err != nil {
		return fmt.Errorf("defer playlist load response: %w", err)
	}

	p := c.Bot.Player(ctx.GuildID())

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if !p.IsConnected() && !p.Connect(cctx, channelID) {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to connect to voice channel."))
	}

	added := p.AddTracks(tracks)
	if added == 0 {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Queue is full! Remove some tracks first."))
	}
	if !p.IsPlaying() && !p.IsPaused() {
		p.Play(cctx, nil)
	}

	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf(
		"Loaded **%d** tracks from playlist **%s**.", added, name)))
}

func (c *Playlist) list(ctx *command.Context) error {
	names, err := c.Store.ListPlaylists(ctx.User().ID)
	if err != nil {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to list playlists."))
	}
	if len(names) == 0 {
		return ctx.ReplyEphemeral("You have no saved playlists.")
	}

	var lines []string
	for i, n := range names {
		lines = append(lines, fmt.Sprintf("`%d.` %s", i+1, n))
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🎶 Your Playlists",
		Description: strings.Join(lines, "\n"),
		Color:       discord.ColorInfo,
	})
}

func (c *Playlist) delete(ctx *command.Context, name string) error {
	if err := c.Store.DeletePlaylist(ctx.User().ID, name); err != nil {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to delete playlist."))
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf("Deleted playlist **%s**.", name)))
}
