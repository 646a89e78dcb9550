package util

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Senkoslav/discord-bot/internal/command"
	"github.com/Senkoslav/discord-bot/internal/discord"
)

const invitePermissions = discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionVoiceConnect |
	discordgo.PermissionVoiceSpeak |
	discordgo.PermissionVoiceUseVAD

type Invite struct{}

func (c *Invite) Name() string        { return "invite" }
func (c *Invite) Description() string { return "Get bot invite link" }

func (c *Invite) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *Invite) Run(ctx *command.Context) error {
	if ctx.Session.State.User == nil {
		return ctx.ReplyEphemeral("Bot is not ready yet.")
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "🔗 Invite Music Bot",
		Description: fmt.Sprintf("[Click here to invite the bot](%s)", inviteURL(ctx.Session.State.User.ID)),
		Color:       discord.ColorInfo,
	})
}

func inviteURL(clientID string) string {
	return fmt.Sprintf(
		"https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands",
		clientID, invitePermissions,
	)
}
