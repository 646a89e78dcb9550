package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Shuffle struct{ Deps }

func (c *Shuffle) Name() string        { return "shuffle" }
func (c *Shuffle) Description() string { return "Shuffle the queue" }

func (c *Shuffle) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Shuffle) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())

	size, _, _ := p.QueueInfo()
	if size <= 2 {
		return ctx.ReplyEphemeral("Not enough tracks to shuffle.")
	}

	p.Shuffle()
	return ctx.ReplyEmbed(discord.SuccessEmbed("🔀 Queue shuffled!"))
}
