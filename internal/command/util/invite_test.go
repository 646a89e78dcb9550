package util

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestInviteURL(t *testing.T) {
	url := inviteURL("123456789")

	assert.Contains(t, url, "client_id=123456789")
	assert.Contains(t, url, "scope=bot%20applications.commands")
	assert.Contains(t, url, fmt.Sprintf("permissions=%d", invitePermissions))
}

func TestInvitePermissions(t *testing.T) {
	for _, p := range []int64{
		discordgo.PermissionSendMessages,
		discordgo.PermissionEmbedLinks,
		discordgo.PermissionVoiceConnect,
		discordgo.PermissionVoiceSpeak,
		discordgo.PermissionVoiceUseVAD,
	} {
		assert.NotZero(t, invitePermissions&p)
	}
}
