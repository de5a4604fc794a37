// Package waiter lets command handlers suspend until a follow-up interaction
// matching a predicate arrives. Handlers register a predicate and await the
// returned handle; the event-delivery loop feeds incoming interactions into
// the registry, which wakes the first matching waiter.
package waiter

import (
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrRegistryClosed is returned by Register after CancelAll has run.
	ErrRegistryClosed = errors.New("waiter registry is closed")

	// ErrCancelled resolves every waiter still pending when its registry is
	// torn down.
	ErrCancelled = errors.New("waiter cancelled")
)

// Predicate reports whether an incoming interaction satisfies a waiter's
// match condition. Predicates are evaluated on the delivery path while the
// registry lock is held, so they must be fast and side-effect free.
type Predicate func(i *discordgo.InteractionCreate) bool

type entry struct {
	id    uint64
	match Predicate
	w     *Waiter
}

// Registry holds all pending waiters for one interaction-processing session.
// It is safe for concurrent use by registering handlers and the delivery loop.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	pending []*entry
	closed  bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a new waiter for the given predicate. It fails with
// ErrRegistryClosed once CancelAll has run, so a caller can never end up
// holding a waiter that will never resolve.
func (r *Registry) Register(match Predicate) (*Waiter, error) {
	w := &Waiter{
		registry: r,
		result:   make(chan outcome, 1),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	r.nextID++
	w.id = r.nextID
	r.pending = append(r.pending, &entry{id: w.id, match: match, w: w})
	r.mu.Unlock()

	return w, nil
}

// Deliver offers an interaction to the pending waiters in registration order.
// The first waiter whose predicate matches is removed and resolved with the
// interaction, and Deliver reports true. If nothing matches the registry is
// left untouched and Deliver reports false; the caller decides what to do
// with the unconsumed interaction.
func (r *Registry) Deliver(i *discordgo.InteractionCreate) bool {
	r.mu.Lock()
	var matched *entry
	for idx, e := range r.pending {
		if e.match(i) {
			matched = e
			r.pending = append(r.pending[:idx], r.pending[idx+1:]...)
			break
		}
	}
	r.mu.Unlock()

	if matched == nil {
		return false
	}

	// Resolve outside the lock so a slow consumer cannot block new
	// registrations or later deliveries.
	matched.w.resolve(i, nil)
	return true
}

// CancelAll closes the registry and resolves every pending waiter with
// ErrCancelled. Further Register calls fail. Safe to call more than once.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	r.closed = true
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, e := range pending {
		e.w.resolve(nil, ErrCancelled)
	}
}

// Len reports the number of waiters still pending.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// remove detaches the waiter with the given id, reporting whether it was
// still pending. Used by the timeout path; a false return means the delivery
// or teardown path already claimed the waiter.
func (r *Registry) remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, e := range r.pending {
		if e.id == id {
			r.pending = append(r.pending[:idx], r.pending[idx+1:]...)
			return true
		}
	}
	return false
}
