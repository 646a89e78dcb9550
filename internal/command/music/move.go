package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Move struct{ Deps }

func (c *Move) Name() string        { return "move" }
func (c *Move) Description() string { return "Move a track to another position in the queue" }

func (c *Move) SlashDefinition() *discordgo.ApplicationCommand {
	minPos := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "from",
				Description: "Current position (1-based)",
				Required:    true,
				MinValue:    &minPos,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "to",
				Description: "New position (1-based)",
				Required:    true,
				MinValue:    &minPos,
			},
		},
	}
}

func (c *Move) Run(ctx *command.Context) error {
	from, _ := ctx.IntOption("from")
	to, _ := ctx.IntOption("to")
	p := c.Bot.Player(ctx.GuildID())

	if !p.MoveTrack(from-1, to-1) {
		return ctx.ReplyEphemeral("Invalid positions.")
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed("Track moved."))
}
