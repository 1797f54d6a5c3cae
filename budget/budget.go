// Package budget estimates the token cost of a conversation and truncates
// history to fit a model's context window.
//
// Estimation uses a deliberately cheap approximation rather than a real
// tokenizer: one token per four characters of content plus a fixed overhead
// per message that accounts for the role and formatting tokens every
// provider's tokenizer adds around a message.
package budget

import (
	"github.com/casualjim/hermes/messages"
)

const (
	// charsPerToken is the average number of characters a token covers in
	// English text. All major tokenizers land close to this.
	charsPerToken = 4

	// messageOverhead approximates the role/formatting tokens wrapped around
	// each message on the wire.
	messageOverhead = 10
)

// EstimateMessage returns the approximate token cost of a single message.
func EstimateMessage(msg messages.Message) int {
	content := len(msg.Content)
	tokens := content / charsPerToken
	if content%charsPerToken != 0 {
		tokens++
	}
	return tokens + messageOverhead
}

// Estimate returns the approximate token cost of sending the whole
// conversation.
func Estimate(conversation []messages.Message) int {
	var total int
	for _, msg := range conversation {
		total += EstimateMessage(msg)
	}
	return total
}

// Truncate drops the oldest messages from the conversation until the
// estimated cost fits within maxTokens.
//
// When preserveAnchor is true and the conversation opens with a system
// message, that message is always retained and its cost is reserved before
// anything else is considered. The remaining messages are scanned from most
// recent to oldest; the scan stops at the first message that would overflow
// the budget, so the non-anchor portion of the result is always a contiguous
// suffix of the input in original order. Messages are never reordered and
// never dropped from the middle.
//
// A conversation that already fits is returned as-is. If even the most
// recent message does not fit next to the anchor, the result holds just the
// anchor, or is empty when there is no anchor.
func Truncate(conversation []messages.Message, maxTokens int, preserveAnchor bool) []messages.Message {
	if Estimate(conversation) <= maxTokens {
		return conversation
	}

	var anchor *messages.Message
	rest := conversation
	remaining := maxTokens

	if preserveAnchor && messages.HasAnchor(conversation) {
		anchor = &conversation[0]
		rest = conversation[1:]
		remaining -= EstimateMessage(*anchor)
	}

	// Walk backwards from the newest message and find the cut boundary.
	cut := len(rest)
	for i := len(rest) - 1; i >= 0; i-- {
		cost := EstimateMessage(rest[i])
		if cost > remaining {
			break
		}
		remaining -= cost
		cut = i
	}

	kept := rest[cut:]
	if anchor == nil {
		return kept
	}

	result := make([]messages.Message, 0, len(kept)+1)
	result = append(result, *anchor)
	return append(result, kept...)
}
