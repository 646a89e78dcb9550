package util

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Info struct {
	StartedAt time.Time
}

func (c *Info) Name() string        { return "info" }
func (c *Info) Description() string { return "Show bot information" }

func (c *Info) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Info) Run(ctx *command.Context) error {
	uptime := time.Since(c.StartedAt)
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60

	var uptimeStr string
	switch {
	case days > 0:
		uptimeStr = fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		uptimeStr = fmt.Sprintf("%dh %dm %ds", hours, minutes, int(uptime.Seconds())%60)
	default:
		uptimeStr = fmt.Sprintf("%dm %ds", minutes, int(uptime.Seconds())%60)
	}

	embed := &discordgo.MessageEmbed{
		Title: "🎵 Music Bot Info",
		Color: discord.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📊 Stats",
				Value: fmt.Sprintf("**Servers:** %d\n**Uptime:** %s\n**Latency:** %dms",
					len(ctx.Session.State.Guilds), uptimeStr, ctx.Session.HeartbeatLatency().Milliseconds()),
				Inline: true,
			},
			{
				Name: "⚙️ System",
				Value: fmt.Sprintf("**Go:** %s\n**discordgo:** %s\n**Platform:** %s",
					runtime.Version(), discordgo.VERSION, runtime.GOOS),
				Inline: true,
			},
			{
				Name: "🎶 Features",
				Value: "• YouTube & SoundCloud support\n" +
					"• Queue management\n" +
					"• Loop & shuffle modes\n" +
					"• Volume control\n" +
					"• Playlist support",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use /help for command list"},
	}

	if u := ctx.Session.State.User; u != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL("")}
	}
	return ctx.ReplyEmbed(embed)
}
