package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Leave struct{ Deps }

func (c *Leave) Name() string        { return "leave" }
func (c *Leave) Description() string { return "Leave the voice channel" }

func (c *Leave) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Leave) Run(ctx *command.Context) error {
	c.Bot.Player(ctx.GuildID()).Disconnect()
	return ctx.ReplyEmbed(discord.InfoEmbed("👋 Disconnected from voice channel."))
}
