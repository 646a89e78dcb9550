package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

type Join struct{ Deps }

func (c *Join) Name() string        { return "join" }
func (c *Join) Description() string { return "Join your voice channel" }

func (c *Join) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Join) Run(ctx *command.Context) error {
	user := ctx.User()

	channelID, err := c.Bot.UserVoiceChannel(ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyEphemeral("You're not in a voice channel.")
	}

	cctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	if !c.Bot.Player(ctx.GuildID()).Connect(cctx, channelID) {
		return ctx.ReplyEphemeral("Failed to join voice channel.")
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(fmt.Sprintf("Joined <#%s>", channelID)))
}
