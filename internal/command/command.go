// Package command defines the slash command abstraction, its registry and
// the middleware chain applied to every command.
package command

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Command is a single slash command.
type Command interface {
	Name() string
	Description() string
	SlashDefinition() *discordgo.ApplicationCommand
	Run(ctx *Context) error
}

// ComponentHandler is implemented by commands that also handle message
// component interactions. A component is routed to the command whose name
// prefixes the component's custom ID.
type ComponentHandler interface {
	Component(ctx *Context) error
}

// Context carries everything a command needs for one invocation.
type Context struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Log     zerolog.Logger

	deferred bool
}

// GuildID returns the guild the interaction came from, empty in DMs.
func (c *Context) GuildID() string { return c.Event.GuildID }

// User returns the invoking user, regardless of guild or DM origin.
func (c *Context) User() *discordgo.User {
	if c.Event.Member != nil {
		return c.Event.Member.User
	}
	return c.Event.User
}

// Options returns the interaction's options keyed by name.
func (c *Context) Options() map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := c.Event.ApplicationCommandData().Options
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

// StringOption returns the named string option, or "" when absent.
func (c *Context) StringOption(name string) string {
	if opt, ok := c.Options()[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// IntOption returns the named integer option and whether it was supplied.
func (c *Context) IntOption(name string) (int, bool) {
	if opt, ok := c.Options()[name]; ok {
		return int(opt.IntValue()), true
	}
	return 0, false
}

// ComponentID returns the custom ID of a component interaction.
func (c *Context) ComponentID() string {
	return c.Event.MessageComponentData().CustomID
}

// UpdateMessage replaces the message the component belongs to.
func (c *Context) UpdateMessage(embed *discordgo.MessageEmbed) error {
	return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		},
	})
}

// Defer acknowledges the interaction with a "thinking…" placeholder. Must
// be called before any work that can exceed the 3 second interaction window.
func (c *Context) Defer() error {
	err := c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err == nil {
		c.deferred = true
	}
	return err
}

// Reply sends the command's response, as a followup when Defer was called.
func (c *Context) Reply(content string) error {
	if c.deferred {
		_, err := c.Session.FollowupMessageCreate(c.Event.Interaction, false, &discordgo.WebhookParams{
			Content: content,
		})
		return err
	}
	return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// ReplyEmbed sends an embed response, as a followup when Defer was called.
func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	if c.deferred {
		_, err := c.Session.FollowupMessageCreate(c.Event.Interaction, false, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{embed},
		})
		return err
	}
	return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
}

// ReplyEphemeral sends a response visible only to the invoker.
func (c *Context) ReplyEphemeral(content string) error {
	if c.deferred {
		_, err := c.Session.FollowupMessageCreate(c.Event.Interaction, false, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return err
	}
	return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
