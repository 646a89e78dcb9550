// Package util implements the small utility slash commands.
package util

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Ping struct{}

func (c *Ping) Name() string        { return "ping" }
func (c *Ping) Description() string { return "Check bot latency" }

func (c *Ping) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Ping) Run(ctx *command.Context) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()

	status := "Poor"
	color := discord.ColorError
	switch {
	case latency < 100:
		status = "Excellent"
		color = discord.ColorSuccess
	case latency < 200:
		status = "Good"
		color = 0xFAA61A
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("**Latency:** %dms (%s)", latency, status),
		Color:       color,
	})
}
