// Package messages defines the canonical chat message representation used
// throughout hermes, independent of any provider wire format.
//
// A conversation is an ordered slice of Message values. Ordering is
// significant: providers receive messages in the order they appear, and the
// first message, when it carries the system role, acts as the pinned anchor
// that history truncation preserves preferentially.
package messages
