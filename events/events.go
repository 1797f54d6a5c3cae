package events

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Event is the marker interface for everything that can travel through a
// broker topic.
type Event interface {
	event()
}

// Credit is the metering envelope a billing-aware backend attaches to a
// completion response. It is parsed once per response, published, and then
// discarded; hermes never stores balances.
type Credit struct {
	CreditsUsed      float64         `json:"credits_used"`
	RemainingBalance float64         `json:"remaining_balance"`
	Provider         string          `json:"provider,omitempty"`
	Timestamp        strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Credit) event() {}

// Hook receives events delivered through a subscription.
type Hook interface {
	OnCredit(context.Context, Credit)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(context.Context, Credit)

func (f HookFunc) OnCredit(ctx context.Context, c Credit) { f(ctx, c) }

// Publisher is the outbound port provider façades publish events through.
// Both broker flavors satisfy it.
type Publisher interface {
	Publish(context.Context, Event) error
}

var creditJSON = []byte(`{"type":"credit"}`)

// ToJSON encodes an event with a type marker so it can cross a wire
// transport such as NATS.
func ToJSON(event Event) ([]byte, error) {
	switch e := event.(type) {
	case Credit:
		result := creditJSON
		var err error
		if result, err = sjson.SetBytes(result, "credits_used", e.CreditsUsed); err != nil {
			return nil, err
		}
		if result, err = sjson.SetBytes(result, "remaining_balance", e.RemainingBalance); err != nil {
			return nil, err
		}
		if e.Provider != "" {
			if result, err = sjson.SetBytes(result, "provider", e.Provider); err != nil {
				return nil, err
			}
		}
		if !e.Timestamp.IsZero() {
			if result, err = sjson.SetBytes(result, "timestamp", e.Timestamp.String()); err != nil {
				return nil, err
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unknown event type: %T", event)
	}
}

// FromJSON decodes an event previously encoded with ToJSON.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch kind := gjson.GetBytes(data, "type").String(); kind {
	case "credit":
		var credit Credit
		credit.CreditsUsed = gjson.GetBytes(data, "credits_used").Float()
		credit.RemainingBalance = gjson.GetBytes(data, "remaining_balance").Float()
		credit.Provider = gjson.GetBytes(data, "provider").String()
		if ts := gjson.GetBytes(data, "timestamp"); ts.Exists() {
			if err := credit.Timestamp.UnmarshalText([]byte(ts.String())); err != nil {
				return nil, fmt.Errorf("invalid timestamp: %w", err)
			}
		}
		return credit, nil
	default:
		return nil, fmt.Errorf("missing or unknown event type %q", kind)
	}
}
