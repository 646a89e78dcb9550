package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Resume struct{ Deps }

func (c *Resume) Name() string        { return "resume" }
func (c *Resume) Description() string { return "Resume playback" }

func (c *Resume) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Resume) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())
	if !p.Resume() {
		return ctx.ReplyEphemeral("Playback is not paused.")
	}
	return ctx.ReplyEmbed(discord.InfoEmbed("▶️ Playback resumed."))
}
