// Package dispatch routes incoming interactions to command handlers and
// feeds component interactions to the shared waiter registry.
package dispatch

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"slash-framework/internal/config"
	"slash-framework/internal/slash"
	"slash-framework/internal/waiter"
	"slash-framework/pkg/discord"
)

const loggerName = "dispatch"

// HandlerFunc runs a slash command. It is invoked on its own goroutine with
// the initial deferred response already sent, and reports back via
// ctx.UpdateResponse.
type HandlerFunc func(ctx *slash.Context) error

type Dispatcher struct {
	logger  *zap.Logger
	session discord.SessionIFace

	handlers map[string]HandlerFunc
	waiters  *waiter.Registry
	inflight sync.WaitGroup
}

func New(cfg *config.Config, session discord.SessionIFace) *Dispatcher {
	return &Dispatcher{
		logger:   cfg.Logger.Named(loggerName),
		session:  session,
		handlers: make(map[string]HandlerFunc),
		waiters:  waiter.NewRegistry(),
	}
}

// Handle binds a handler to a command name. Not safe to call once dispatching
// has started.
func (d *Dispatcher) Handle(name string, h HandlerFunc) {
	d.handlers[name] = h
}

// SetSession supplies the session handlers respond through, for wiring
// orders where the session connects after the dispatcher is built. Must be
// called before dispatching begins.
func (d *Dispatcher) SetSession(session discord.SessionIFace) {
	d.session = session
}

// Waiters exposes the shared registry so delivery paths other than Dispatch
// (e.g. a gateway event handler) can feed it directly.
func (d *Dispatcher) Waiters() *waiter.Registry {
	return d.waiters
}

// Dispatch routes a single interaction and reports whether it was consumed.
// Component interactions go to the waiter registry; application commands
// start their handler on a new goroutine. Unconsumed interactions are left to
// the caller.
func (d *Dispatcher) Dispatch(i *discordgo.InteractionCreate) bool {
	switch i.Type {
	case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
		if consumed := d.waiters.Deliver(i); consumed {
			return true
		}
		d.logger.Warn("no waiter consumed component interaction", zap.String("interaction", i.ID))
		return false

	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		h, ok := d.handlers[name]
		if !ok {
			d.logger.Warn("no handler for command", zap.String("cmd", name))
			return false
		}

		ctx := slash.NewContext(d.session, d.logger.Named(name), i, d.waiters)
		d.inflight.Add(1)
		go func() {
			defer d.inflight.Done()
			if err := h(ctx); err != nil {
				d.logger.Error("command handler failed", zap.Error(err), zap.String("cmd", name))
			}
		}()
		return true
	}

	d.logger.Warn("unsupported interaction type", zap.Stringer("type", i.Type))
	return false
}

// Close cancels all pending waiters and waits for in-flight handlers to
// finish. After Close no new waiters can be registered.
func (d *Dispatcher) Close() {
	d.waiters.CancelAll()
	d.inflight.Wait()
}
