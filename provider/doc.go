// Package provider defines the uniform contract hermes exposes over
// heterogeneous chat-completion backends, plus the pieces every façade
// shares: sampling-parameter validation against model capability profiles,
// and classification of provider failures into a small taxonomy.
//
// Design decisions:
//   - Two-method contract: Complete for whole responses, StreamComplete for
//     incremental delivery through a chunk callback. Callers cannot tell a
//     natively streaming backend from one that emulates streaming with a
//     single chunk.
//   - Pre-flight never fails: requested sampling parameters are clamped and
//     defaulted against the model's capability profile, not rejected.
//   - Typed failures: every non-2xx response becomes a *Error carrying the
//     human-readable provider name, the classified kind, the HTTP status and
//     the raw body, so a chat UI can route quota exhaustion to billing
//     instead of a generic error screen.
//   - Immutable per-call view: façades snapshot their configuration at call
//     entry, so a concurrent UpdateModel never splits one call across two
//     model identifiers.
package provider
