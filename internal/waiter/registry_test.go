package waiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentInteraction(userId string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userId},
			},
		},
	}
}

func fromUser(userId string) Predicate {
	return func(i *discordgo.InteractionCreate) bool {
		return i.Member != nil && i.Member.User.ID == userId
	}
}

func matchAll(*discordgo.InteractionCreate) bool  { return true }
func matchNone(*discordgo.InteractionCreate) bool { return false }

func Test_NewRegistry(t *testing.T) {
	r := NewRegistry()

	require.NotNil(t, r)
	assert.Zero(t, r.Len())
}

func Test_Registry_Register(t *testing.T) {
	r := NewRegistry()

	w, err := r.Register(matchAll)

	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 1, r.Len())

	// Structurally identical predicates register as distinct waiters
	w2, err := r.Register(matchAll)

	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.NotEqual(t, w.id, w2.id)
}

func Test_Registry_Register_Closed(t *testing.T) {
	r := NewRegistry()
	r.CancelAll()

	w, err := r.Register(matchAll)

	require.ErrorIs(t, err, ErrRegistryClosed)
	assert.Nil(t, w)
}

func Test_Registry_Deliver(t *testing.T) {
	tests := []struct {
		name        string
		predicates  []Predicate
		expConsumed bool
		expResolved int // index into predicates, -1 for none
	}{
		{
			name:        "Happy path - Single match",
			predicates:  []Predicate{fromUser("42")},
			expConsumed: true,
			expResolved: 0,
		},
		{
			name:        "Happy path - First match wins",
			predicates:  []Predicate{matchNone, fromUser("42"), matchNone, matchAll},
			expConsumed: true,
			expResolved: 1,
		},
		{
			name:        "Sad path - No match leaves registry unchanged",
			predicates:  []Predicate{matchNone, fromUser("7")},
			expConsumed: false,
			expResolved: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			waiters := make([]*Waiter, len(tt.predicates))
			for i, p := range tt.predicates {
				w, err := r.Register(p)
				require.NoError(t, err)
				waiters[i] = w
			}

			event := componentInteraction("42")
			consumed := r.Deliver(event)

			assert.Equal(t, tt.expConsumed, consumed)

			for i, w := range waiters {
				if i == tt.expResolved {
					got, err := w.Wait(context.Background())
					require.NoError(t, err)
					assert.Same(t, event, got)
					continue
				}
				// All other waiters must still be pending
				select {
				case <-w.result:
					assert.Failf(t, "unexpected resolution", "waiter %d resolved", i)
				default:
				}
			}

			expLen := len(tt.predicates)
			if tt.expConsumed {
				expLen--
			}
			assert.Equal(t, expLen, r.Len())
		})
	}
}

func Test_Registry_Deliver_AtMostOnce(t *testing.T) {
	r := NewRegistry()
	w, err := r.Register(fromUser("42"))
	require.NoError(t, err)

	// Unmatching event is not consumed and leaves the waiter pending
	assert.False(t, r.Deliver(componentInteraction("7")))
	assert.Equal(t, 1, r.Len())

	// Matching event resolves the waiter
	event := componentInteraction("42")
	assert.True(t, r.Deliver(event))
	got, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, event, got)

	// Another matching event cannot re-resolve the removed waiter
	assert.False(t, r.Deliver(componentInteraction("42")))
	assert.Zero(t, r.Len())
}

func Test_Registry_Deliver_Sequential(t *testing.T) {
	r := NewRegistry()

	const total = 10
	waiters := make([]*Waiter, total)
	for i := range waiters {
		w, err := r.Register(matchAll)
		require.NoError(t, err)
		waiters[i] = w
	}

	// Each sequential delivery consumes exactly one waiter, in
	// registration order
	for i := 0; i < total; i++ {
		require.True(t, r.Deliver(componentInteraction("42")))
		_, err := waiters[i].Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, total-i-1, r.Len())
	}
	assert.False(t, r.Deliver(componentInteraction("42")))
}

func Test_Registry_CancelAll(t *testing.T) {
	r := NewRegistry()

	waiters := make([]*Waiter, 3)
	for i := range waiters {
		w, err := r.Register(matchAll)
		require.NoError(t, err)
		waiters[i] = w
	}

	// Await all waiters before teardown so cancellation must wake them
	var wg sync.WaitGroup
	errs := make([]error, len(waiters))
	for i, w := range waiters {
		wg.Add(1)
		go func(i int, w *Waiter) {
			defer wg.Done()
			_, errs[i] = w.Wait(context.Background())
		}(i, w)
	}

	r.CancelAll()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "waiters were not cancelled in time")
	}

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrCancelled)
	}
	assert.Zero(t, r.Len())

	// Teardown is idempotent
	r.CancelAll()
}

func Test_Registry_Concurrent(t *testing.T) {
	r := NewRegistry()

	// Hammer the registry from registering and delivering goroutines to
	// ensure every waiter resolves exactly once
	const total = 100
	resolved := make(chan error, total)
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := r.Register(matchAll)
			if err != nil {
				resolved <- err
				return
			}
			_, err = w.Wait(context.Background())
			resolved <- err
		}()
	}

	go func() {
		for r.Len() > 0 || len(resolved) < total {
			if !r.Deliver(componentInteraction("42")) {
				time.Sleep(time.Millisecond)
			}
		}
	}()

	wg.Wait()
	close(resolved)

	var count int
	for err := range resolved {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, total, count)
	assert.Zero(t, r.Len())
}
