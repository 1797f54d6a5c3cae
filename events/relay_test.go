package events

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	published []Event
}

func (p *capturingPublisher) Publish(_ context.Context, event Event) error {
	p.published = append(p.published, event)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error {
	return fmt.Errorf("broker is down")
}

type panickingPublisher struct{}

func (panickingPublisher) Publish(context.Context, Event) error {
	panic("subscriber channel closed")
}

func TestRelayForward(t *testing.T) {
	credit := Credit{CreditsUsed: 0.5, RemainingBalance: 41.5, Provider: "OpenAI"}

	t.Run("publishes exactly one event", func(t *testing.T) {
		pub := &capturingPublisher{}
		NewRelay(pub).Forward(context.Background(), credit)

		require.Len(t, pub.published, 1)
		got, ok := pub.published[0].(Credit)
		require.True(t, ok)
		assert.InDelta(t, 0.5, got.CreditsUsed, 1e-9)
		assert.InDelta(t, 41.5, got.RemainingBalance, 1e-9)
		assert.Equal(t, "OpenAI", got.Provider)
	})

	t.Run("nil publisher drops the event", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewRelay(nil).Forward(context.Background(), credit)
		})
	})

	t.Run("publisher error is swallowed", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewRelay(failingPublisher{}).Forward(context.Background(), credit)
		})
	})

	t.Run("publisher panic is recovered", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewRelay(panickingPublisher{}).Forward(context.Background(), credit)
		})
	})

	t.Run("nil relay is a no-op", func(t *testing.T) {
		var r *Relay
		assert.NotPanics(t, func() {
			r.Forward(context.Background(), credit)
		})
	})
}
