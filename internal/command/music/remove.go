package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Remove struct{ Deps }

func (c *Remove) Name() string        { return "remove" }
func (c *Remove) Description() string { return "Remove a track from the queue" }

func (c *Remove) SlashDefinition() *discordgo.ApplicationCommand {
	minPos := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Position in queue (1-based)",
				Required:    true,
				MinValue:    &minPos,
			},
		},
	}
}

func (c *Remove) Run(ctx *command.Context) error {
	position, _ := ctx.IntOption("position")
	p := c.Bot.Player(ctx.GuildID())

	size, _, _ := p.QueueInfo()
	index := position - 1
	if index < 0 || index >= size {
		return ctx.ReplyEphemeral(fmt.Sprintf("Invalid position. Queue has %d tracks.", size))
	}

	t := p.RemoveTrack(index)
	if t == nil {
		return ctx.ReplyEphemeral("Failed to remove track.")
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf("Removed: **%s**", t.DisplayTitle())))
}
