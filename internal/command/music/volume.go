package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Volume struct{ Deps }

func (c *Volume) Name() string        { return "volume" }
func (c *Volume) Description() string { return "Set playback volume" }

func (c *Volume) SlashDefinition() *discordgo.ApplicationCommand {
	minLevel := float64(0)
	maxLevel := float64(200)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Volume level (0-200)",
				Required:    true,
				MinValue:    &minLevel,
				MaxValue:    maxLevel,
			},
		},
	}
}

func (c *Volume) Run(ctx *command.Context) error {
	level, _ := ctx.IntOption("level")
	if level < 0 || level > 200 {
		return ctx.ReplyEphemeral("Volume must be between 0 and 200.")
	}

	c.Bot.Player(ctx.GuildID()).SetVolume(level)

	emoji := "🔊"
	switch {
	case level == 0:
		emoji = "🔇"
	case level < 50:
		emoji = "🔈"
	case level < 100:
		emoji = "🔉"
	}
	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("%s Volume set to **%d%%**", emoji, level)))
}
