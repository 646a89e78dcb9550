package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Now struct{ Deps }

func (c *Now) Name() string        { return "now" }
func (c *Now) Description() string { return "Show the currently playing track" }

func (c *Now) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Now) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())

	t := p.Current()
	if t == nil {
		return ctx.ReplyEmbed(discord.InfoEmbed("Nothing is currently playing."))
	}

	embed := discord.TrackEmbed(t, "🎵 Now Playing", 0)

	status := "▶️ Playing"
	if p.IsPaused() {
		status = "⏸️ Paused"
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Status", Value: status, Inline: true},
		&discordgo.MessageEmbedField{Name: "Volume", Value: fmt.Sprintf("🔊 %d%%", p.Volume()), Inline: true},
		&discordgo.MessageEmbedField{Name: "Loop", Value: string(p.Loop()), Inline: true},
	)
	return ctx.ReplyEmbed(embed)
}
