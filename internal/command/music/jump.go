package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Jump struct{ Deps }

func (c *Jump) Name() string        { return "jump" }
func (c *Jump) Description() string { return "Jump to a specific track in the queue" }

func (c *Jump) SlashDefinition() *discordgo.ApplicationCommand {
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

func (c *Jump) Run(ctx *command.Context) error {
	position, _ := ctx.IntOption("position")
	p := c.Bot.Player(ctx.GuildID())

	size, _, _ := p.QueueInfo()
	if position < 1 || position > size {
		return ctx.ReplyEphemeral(fmt.Sprintf("Invalid position. Queue has %d tracks.", size))
	}

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	t := p.Jump(cctx, position-1)
	if t == nil {
		return ctx.ReplyEphemeral("Failed to jump to that track.")
	}
	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("⏭️ Jumped to: **%s**", t.DisplayTitle())))
}
