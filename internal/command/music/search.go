package music

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
	"github.com/Senkoslav/discord-bot/internal/music/track"
)

const (
	searchLimit  = 5
	searchExpiry = 60 * time.Second
)

// Search shows the top results for a query and lets the requester pick one
// with a button. Pending results are held per user and expire.
type Search struct {
	Deps

	mu      sync.Mutex
	pending map[string]*pendingSearch
}

type pendingSearch struct {
	tracks  []*track.Track
	guildID string
	expires time.Time
}

func NewSearch(deps Deps) *Search {
	return &Search{Deps: deps, pending: make(map[string]*pendingSearch)}
}

func (c *Search) Name() string        { return "search" }
func (c *Search) Description() string { return "Search for a song and choose from results" }

func (c *Search) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Search query",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "source",
				Description: "Search source (default: YouTube)",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "YouTube", Value: track.SourceYouTube},
					{Name: "SoundCloud", Value: track.SourceSoundCloud},
				},
			},
		},
	}
}

func (c *Search) Run(ctx *command.Context) error {
	query := ctx.StringOption("query")
	source := ctx.StringOption("source")
	if source == "" {
		source = track.SourceYouTube
	}
	user := ctx.User()

	if _, err := c.Bot.UserVoiceChannel(ctx.GuildID(), user.ID); err != nil {
		return ctx.ReplyEphemeral("You need to be in a voice channel.")
	}

	if err := ctx.Defer(); err != nil {
		return fmt.Errorf("defer search response: %w", err)
	}

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	tracks := c.Extractor.Search(cctx, query, user.ID, user.Username, searchLimit, source)
	if len(tracks) == 0 {
		return ctx.ReplyEmbed(discord.ErrorEmbed(fmt.Sprintf("No results found for: `%s`", query)))
	}

	c.mu.Lock()
	c.pending[user.ID] = &pendingSearch{
		tracks:  tracks,
		guildID: ctx.GuildID(),
		expires: time.Now().Add(searchExpiry),
	}
	c.mu.Unlock()

	buttons := make([]discordgo.MessageComponent, 0, len(tracks)+1)
	for i := range tracks {
		buttons = append(buttons, discordgo.Button{
			Label:    strconv.Itoa(i + 1),
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("search:%d", i),
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.DangerButton,
		CustomID: "search:cancel",
	})

	_, err := ctx.Session.FollowupMessageCreate(ctx.Event.Interaction, false, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{discord.SearchEmbed(tracks, query)},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	})
	return err
}

// Component resolves a button press on a pending search.
func (c *Search) Component(ctx *command.Context) error {
	user := ctx.User()

	c.mu.Lock()
	ps := c.pending[user.ID]
	if ps != nil && time.Now().After(ps.expires) {
		delete(c.pending, user.ID)
		ps = nil
	}
	c.mu.Unlock()

	choice := strings.TrimPrefix(ctx.ComponentID(), "search:")
	if choice == "cancel" {
		c.mu.Lock()
		delete(c.pending, user.ID)
		c.mu.Unlock()
		return ctx.UpdateMessage(discord.InfoEmbed("Search cancelled."))
	}

	if ps == nil {
		return ctx.ReplyEphemeral("This search has expired. Run `/search` again.")
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 0 || idx >= len(ps.tracks) {
		return ctx.ReplyEphemeral("Invalid selection.")
	}

	c.mu.Lock()
	delete(c.pending, user.ID)
	c.mu.Unlock()

	picked := ps.tracks[idx]

	channelID, err := c.Bot.UserVoiceChannel(ps.guildID, user.ID)
	if err != nil {
		return ctx.UpdateMessage(discord.ErrorEmbed("You need to be in a voice channel."))
	}

	p := c.Bot.Player(ps.guildID)

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if !p.IsConnected() && !p.Connect(cctx, channelID) {
		return ctx.UpdateMessage(discord.ErrorEmbed("Failed to connect to voice channel."))
	}

	if !p.AddTrack(picked) {
		return ctx.UpdateMessage(discord.ErrorEmbed("Queue is full! Remove some tracks first."))
	}
	if !p.IsPlaying() && !p.IsPaused() {
		p.Play(cctx, nil)
	}

	size, _, _ := p.QueueInfo()
	if size == 1 {
		return ctx.UpdateMessage(discord.TrackEmbed(picked, "🎵 Now Playing", 0))
	}
	return ctx.UpdateMessage(discord.TrackEmbed(picked, "✅ Added to Queue", size-1))
}
