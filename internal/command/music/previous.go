package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Previous struct{ Deps }

func (c *Previous) Name() string        { return "previous" }
func (c *Previous) Description() string { return "Go back to the previous track" }

func (c *Previous) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Previous) Run(ctx *command.Context) error {
	p := c.Bot.Player(ctx.GuildID())

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	t := p.Previous(cctx)
	if t == nil {
		return ctx.ReplyEphemeral("There is no previous track.")
	}
	return ctx.ReplyEmbed(discord.InfoEmbed(fmt.Sprintf("⏮️ Playing: **%s**", t.DisplayTitle())))
}
