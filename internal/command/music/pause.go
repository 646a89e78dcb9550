package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Pause struct{ Deps }

func (c *Pause) Name() string        { return "pause" }
func (c *Pause) Description() string { return "Pause playback" }

func (c *Pause) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Pause) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())
	if !p.Pause() {
		return ctx.ReplyEphemeral("Nothing is playing.")
	}
	return ctx.ReplyEmbed(discord.InfoEmbed("⏸️ Playback paused."))
}
