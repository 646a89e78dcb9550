package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Skip struct{ Deps }

func (c *Skip) Name() string        { return "skip" }
func (c *Skip) Description() string { return "Skip to the next track" }

func (c *Skip) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Skip) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())
	skipped := p.Current()
	if skipped == nil {
		return ctx.ReplyEphemeral("Nothing is playing.")
	}

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()
	p.Skip(cctx)

	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("⏭️ Skipped: **%s**", skipped.DisplayTitle())))
}
