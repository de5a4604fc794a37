// Package slash carries the per-interaction context handed to command
// handlers: the Discord session, the in-flight interaction, and the shared
// waiter registry for follow-up component interactions.
package slash

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/waiter"
	"slash-framework/pkg/discord"
)

type Context struct {
	Session     discord.SessionIFace
	Logger      *zap.Logger
	Interaction *discordgo.InteractionCreate

	waiters *waiter.Registry
}

func NewContext(session discord.SessionIFace, logger *zap.Logger, interaction *discordgo.InteractionCreate, waiters *waiter.Registry) *Context {
	return &Context{
		Session:     session,
		Logger:      logger,
		Interaction: interaction,
		waiters:     waiters,
	}
}

// Clone returns a copy of the context sharing the session and waiter
// registry, so a handler can hand it to helper goroutines.
func (c *Context) Clone() *Context {
	cc := *c
	return &cc
}

// Acknowledge responds with a deferred message so the handler can take its
// time; UpdateResponse fills in the real content later.
func (c *Context) Acknowledge() error {
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discord.DeferredResponse)
}

// Respond sends an immediate channel message response.
func (c *Context) Respond(data *discordgo.InteractionResponseData) error {
	return c.Session.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// UpdateResponse edits the original (usually deferred) response.
func (c *Context) UpdateResponse(edit *discordgo.WebhookEdit) (*discordgo.Message, error) {
	return c.Session.InteractionResponseEdit(c.Interaction.Interaction, edit)
}

// WaitForComponent registers a waiter for a component interaction satisfying
// the given predicate. The returned waiter should be awaited with a deadline;
// it resolves with waiter.ErrCancelled if the session shuts down first.
func (c *Context) WaitForComponent(match waiter.Predicate) (*waiter.Waiter, error) {
	return c.waiters.Register(func(i *discordgo.InteractionCreate) bool {
		return i.Type == discordgo.InteractionMessageComponent && match(i)
	})
}
