package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type History struct{ Deps }

func (c *History) Name() string        { return "history" }
func (c *History) Description() string { return "Show recently played tracks" }

func (c *History) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *History) Run(ctx *command.Context) error {
	history := c.Bot.Player(ctx.GuildID()).History()
	if len(history) == 0 {
		return ctx.ReplyEphemeral("No playback history yet.")
	}

	// Newest first, capped to one embed's worth.
	const limit = 15
	var lines []string
	for i := len(history) - 1; i >= 0 && len(lines) < limit; i-- {
		t := history[i]
		lines = append(lines, fmt.Sprintf("`%d.` %s [%s]", len(lines)+1, t.DisplayTitle(), t.DurationString()))
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🕘 Recently Played",
		Description: strings.Join(lines, "\n"),
		Color:       discord.ColorInfo,
	})
}
