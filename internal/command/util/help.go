package util

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Help struct {
	Registry *command.Registry
}

func (c *Help) Name() string        { return "help" }
func (c *Help) Description() string { return "Show available commands" }

func (c *Help) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Help) Run(ctx *command.Context) error {
	var lines []string
	for _, cmd := range c.Registry.All() {
		lines = append(lines, fmt.Sprintf("`/%s` — %s", cmd.Name(), cmd.Description()))
	}
	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "📖 Commands",
		Description: strings.Join(lines, "\n"),
		Color:       discord.ColorInfo,
	})
}
