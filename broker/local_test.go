package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/hermes/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creditCollector struct {
	mu      sync.Mutex
	credits []events.Credit
	seen    chan struct{}
}

func newCreditCollector() *creditCollector {
	return &creditCollector{seen: make(chan struct{}, 50)}
}

func (c *creditCollector) OnCredit(_ context.Context, credit events.Credit) {
	c.mu.Lock()
	c.credits = append(c.credits, credit)
	c.mu.Unlock()
	c.seen <- struct{}{}
}

func (c *creditCollector) wait(t *testing.T, n int) []events.Credit {
	t.Helper()
	for range n {
		select {
		case <-c.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d credit events", n)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Credit(nil), c.credits...)
}

func TestLocalBroker(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to a subscriber", func(t *testing.T) {
		top := Local().Topic(ctx, "credits")
		hook := newCreditCollector()

		sub, err := top.Subscribe(ctx, hook)
		require.NoError(t, err)
		defer sub.Unsubscribe()

		require.NoError(t, top.Publish(ctx, events.Credit{CreditsUsed: 0.5, RemainingBalance: 41.5}))

		got := hook.wait(t, 1)
		require.Len(t, got, 1)
		assert.InDelta(t, 0.5, got[0].CreditsUsed, 1e-9)
		assert.InDelta(t, 41.5, got[0].RemainingBalance, 1e-9)
	})

	t.Run("fans out to all subscribers", func(t *testing.T) {
		top := Local().Topic(ctx, "credits")
		first, second := newCreditCollector(), newCreditCollector()

		subA, err := top.Subscribe(ctx, first)
		require.NoError(t, err)
		defer subA.Unsubscribe()

		subB, err := top.Subscribe(ctx, second)
		require.NoError(t, err)
		defer subB.Unsubscribe()

		require.NoError(t, top.Publish(ctx, events.Credit{CreditsUsed: 1}))

		require.Len(t, first.wait(t, 1), 1)
		require.Len(t, second.wait(t, 1), 1)
	})

	t.Run("same id returns the same topic", func(t *testing.T) {
		b := Local()
		assert.Same(t, b.Topic(ctx, "credits"), b.Topic(ctx, "credits"))
		assert.NotSame(t, b.Topic(ctx, "credits"), b.Topic(ctx, "other"))
	})

	t.Run("unsubscribed hook receives nothing", func(t *testing.T) {
		top := Local().Topic(ctx, "credits")
		hook := newCreditCollector()

		sub, err := top.Subscribe(ctx, hook)
		require.NoError(t, err)
		sub.Unsubscribe()

		require.NoError(t, top.Publish(ctx, events.Credit{CreditsUsed: 1}))

		select {
		case <-hook.seen:
			t.Fatal("unsubscribed hook received an event")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("unsubscribe is idempotent", func(t *testing.T) {
		top := Local().Topic(ctx, "credits")
		sub, err := top.Subscribe(ctx, newCreditCollector())
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			sub.Unsubscribe()
			sub.Unsubscribe()
		})
	})

	t.Run("nil hook is rejected", func(t *testing.T) {
		_, err := Local().Topic(ctx, "credits").Subscribe(ctx, nil)
		require.Error(t, err)
	})

	t.Run("publish ignores cancelled subscriber contexts", func(t *testing.T) {
		top := Local().Topic(ctx, "credits")

		subCtx, cancel := context.WithCancel(ctx)
		_, err := top.Subscribe(subCtx, newCreditCollector())
		require.NoError(t, err)
		cancel()

		live := newCreditCollector()
		sub, err := top.Subscribe(ctx, live)
		require.NoError(t, err)
		defer sub.Unsubscribe()

		require.NoError(t, top.Publish(ctx, events.Credit{CreditsUsed: 2}))
		require.Len(t, live.wait(t, 1), 1)
	})
}
