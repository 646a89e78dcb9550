package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Clear struct{ Deps }

func (c *Clear) Name() string        { return "clear" }
func (c *Clear) Description() string { return "Clear the queue (keeps current track)" }

func (c *Clear) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Clear) Run(ctx *command.Context) error {
	c.Bot.Player(ctx.GuildID()).ClearUpcoming()
	return ctx.ReplyEmbed(discord.SuccessEmbed("🗑️ Queue cleared."))
}
