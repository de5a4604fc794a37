package waiter

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

type outcome struct {
	interaction *discordgo.InteractionCreate
	err         error
}

// Waiter is the caller-held handle for a registered wait. It resolves exactly
// once: with the matching interaction, with ErrCancelled on registry teardown,
// or with the context error when the caller's deadline expires first.
type Waiter struct {
	id       uint64
	registry *Registry
	result   chan outcome
}

// Wait blocks until the waiter resolves or ctx expires. On expiry the waiter
// is removed from the registry; if the delivery path already matched it, the
// matched interaction is returned instead of the context error.
//
// Wait must be called at most once per waiter.
func (w *Waiter) Wait(ctx context.Context) (*discordgo.InteractionCreate, error) {
	select {
	case out := <-w.result:
		return out.interaction, out.err
	case <-ctx.Done():
	}

	// Deadline hit. If removal fails the delivery path won the race and a
	// resolution is already on its way, so take that instead.
	if !w.registry.remove(w.id) {
		out := <-w.result
		return out.interaction, out.err
	}
	return nil, ctx.Err()
}

func (w *Waiter) resolve(i *discordgo.InteractionCreate, err error) {
	select {
	case w.result <- outcome{interaction: i, err: err}:
	default:
		// A second resolution means the matching path is broken
		panic("waiter: resolved twice")
	}
}
