package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
	"github.com/Senkoslav/discord-bot/internal/music/queue"
)

type Loop struct{ Deps }

func (c *Loop) Name() string        { return "loop" }
func (c *Loop) Description() string { return "Set loop mode" }

func (c *Loop) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "Loop mode",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Off", Value: string(queue.LoopOff)},
					{Name: "One (repeat current)", Value: string(queue.LoopOne)},
					{Name: "All (repeat queue)", Value: string(queue.LoopAll)},
				},
			},
		},
	}
}

func (c *Loop) Run(ctx *command.Context) error {
	mode := queue.ParseLoopMode(ctx.StringOption("mode"))
	c.Bot.Player(ctx.GuildID()).SetLoop(mode)

	emoji := map[queue.LoopMode]string{
		queue.LoopOff: "➡️",
		queue.LoopOne: "🔂",
		queue.LoopAll: "🔁",
	}[mode]
	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("%s Loop mode: **%s**", emoji, mode)))
}
