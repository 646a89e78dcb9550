package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Stop struct{ Deps }

func (c *Stop) Name() string        { return "stop" }
func (c *Stop) Description() string { return "Stop playback and clear the queue" }

func (c *Stop) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Stop) Run(ctx *command.Context) error {
	c.Bot.Player(ctx.GuildID()).Stop()
	return ctx.ReplyEmbed(discord.InfoEmbed("⏹️ Playback stopped and queue cleared."))
}
