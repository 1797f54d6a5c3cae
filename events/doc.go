// Package events carries the side-channel notifications hermes emits while
// talking to completion providers. The only event today is Credit, the
// metering envelope a billing-aware backend embeds in its responses.
//
// Events are published through a Publisher port injected into each provider
// façade, never through ambient global state. Publishing is fire-and-forget:
// a failing or panicking subscriber must never fail or delay the completion
// call that produced the event, which is what Relay guarantees.
package events
