// Package commands holds the built-in slash commands and their handlers.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/config"
	"slash-framework/internal/dispatch"
	"slash-framework/internal/slash"
	"slash-framework/internal/waiter"
)

const loggerName = "commands"

type Commands struct {
	logger  *zap.Logger
	timeout time.Duration
}

func New(cfg *config.Config) *Commands {
	return &Commands{
		logger:  cfg.Logger.Named(loggerName),
		timeout: cfg.ComponentTimeout(),
	}
}

// Bind attaches all built-in handlers to the dispatcher.
func (c *Commands) Bind(d *dispatch.Dispatcher) {
	d.Handle(PingCommand, c.pingHandler)
	d.Handle(AnnounceCommand, c.announceHandler)
}

func (c *Commands) pingHandler(ctx *slash.Context) error {
	content := "Pong!"
	_, err := ctx.UpdateResponse(&discordgo.WebhookEdit{Content: &content})
	return err
}

// announceHandler shows a confirmation prompt and waits for the invoking
// user to press Confirm or Cancel before posting the announcement.
func (c *Commands) announceHandler(ctx *slash.Context) error {
	message, err := ctx.StringOption(MessageOption)
	if err != nil {
		return err
	}
	author := ctx.AuthorID()

	// Show the prompt
	content := fmt.Sprintf("Post announcement?\n> %s", message)
	components := confirmButtons()
	promptMsg, err := ctx.UpdateResponse(&discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		return err
	}

	// Only a prompt button pressed by the command author counts
	w, err := ctx.WaitForComponent(func(i *discordgo.InteractionCreate) bool {
		if clickerID(i) != author {
			return false
		}
		if promptMsg != nil && (i.Message == nil || i.Message.ID != promptMsg.ID) {
			return false
		}
		customId := i.MessageComponentData().CustomID
		return customId == ConfirmButtonID || customId == CancelButtonID
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	event, err := w.Wait(waitCtx)
	switch {
	case errors.Is(err, waiter.ErrCancelled):
		// Shutting down; the deferred prompt is abandoned
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return c.closePrompt(ctx, "Announcement timed out")
	case err != nil:
		return err
	}

	if event.MessageComponentData().CustomID == CancelButtonID {
		return c.closePrompt(ctx, "Announcement cancelled")
	}

	if _, err := ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID, message); err != nil {
		return err
	}
	return c.closePrompt(ctx, "Announcement posted")
}

// closePrompt replaces the confirmation prompt, dropping its buttons.
func (c *Commands) closePrompt(ctx *slash.Context, content string) error {
	components := []discordgo.MessageComponent{}
	_, err := ctx.UpdateResponse(&discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	return err
}

func clickerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
