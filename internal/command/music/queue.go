package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Queue struct{ Deps }

func (c *Queue) Name() string        { return "queue" }
func (c *Queue) Description() string { return "Show the current queue" }

func (c *Queue) SlashDefinition() *discordgo.ApplicationCommand {
	minPage := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "page",
				Description: "Page number",
				MinValue:    &minPage,
			},
		},
	}
}

func (c *Queue) Run(ctx *command.Context) error {
	page, ok := ctx.IntOption("page")
	if !ok {
		page = 1
	}

	p := c.Bot.Player(ctx.GuildID())
	size, _, totalSeconds := p.QueueInfo()

	embed := discord.QueueEmbed(p.Current(), p.Upcoming(), size, totalSeconds, p.Loop(), page-1)
	return ctx.ReplyEmbed(embed)
}
