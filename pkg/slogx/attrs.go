// Package slogx holds small slog attribute helpers shared across hermes.
package slogx

import (
	"log/slog"
)

// Error returns a slog.Attr carrying the error message under the "error" key.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Provider returns an attribute for the human-readable provider name.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Model returns an attribute for the model identifier in use.
func Model(id string) slog.Attr {
	return slog.String("model", id)
}

// Status returns an attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// RunID returns an attribute identifying a single completion call.
func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}
