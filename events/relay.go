package events

import (
	"context"
	"log/slog"

	"github.com/casualjim/hermes/pkg/slogx"
)

// Relay republishes credit envelopes extracted from provider responses.
//
// Publishing is strictly fire-and-forget: the relay swallows publisher
// errors and recovers from publisher panics, because a metering side channel
// must never fail the completion call that triggered it.
type Relay struct {
	pub Publisher
	log *slog.Logger
}

// NewRelay wraps a publisher. A nil publisher yields a relay that drops
// every event, which is what façades use when no broker is configured.
func NewRelay(pub Publisher) *Relay {
	return &Relay{pub: pub, log: slog.Default()}
}

// Forward publishes the credit event and reports nothing back to the caller.
func (r *Relay) Forward(ctx context.Context, credit Credit) {
	if r == nil || r.pub == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("credit publisher panicked", slog.Any("panic", rec))
		}
	}()

	if err := r.pub.Publish(ctx, credit); err != nil {
		r.log.Warn("failed to publish credit event", slogx.Error(err))
	}
}
