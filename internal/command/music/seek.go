package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Seek struct{ Deps }

func (c *Seek) Name() string        { return "seek" }
func (c *Seek) Description() string { return "Seek to a position in the current track" }

func (c *Seek) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seconds",
				Description: "Position in seconds",
				Required:    true,
			},
		},
	}
}

func (c *Seek) Run(ctx *command.Context) error {
	seconds, _ := ctx.IntOption("seconds")
	p := c.Bot.Player(ctx.GuildID())

	if p.Current() == nil {
		return ctx.ReplyEphemeral("Nothing is playing.")
	}

	if err := ctx.Defer(); err != nil {
		return fmt.Errorf("defer seek response: %w", err)
	}

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if !p.Seek(cctx, seconds) {
		return ctx.ReplyEmbed(discord.ErrorEmbed("Failed to seek. Position may be invalid."))
	}
	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("⏩ Seeked to **%d:%02d**", seconds/60, seconds%60)))
}
