// Package models is the capability registry: a table mapping model
// identifiers to context-window sizes, supported sampling parameters and
// provider metadata. Lookup is total; unrecognized identifiers fall back to
// a conservative default profile instead of failing, so a façade can always
// resolve whatever model the caller configured.
package models

import (
	"github.com/alphadose/haxmap"
)

// Profile describes what a model supports. Profiles are immutable once
// registered and are looked up on every completion call.
type Profile struct {
	ID                       string
	Provider                 string
	ContextWindow            int
	MaxResponseTokens        int
	SupportsFrequencyPenalty bool
	SupportsPresencePenalty  bool
	SupportsStopSequences    bool
}

const (
	// defaultContextWindow is deliberately conservative: truncating too much
	// history beats a hard rejection from a provider we know nothing about.
	defaultContextWindow = 4096

	// defaultResponseBudget caps responses for unknown models.
	defaultResponseBudget = 2048
)

var registry = haxmap.New[string, Profile]()

// Add registers a profile, replacing any existing entry with the same ID.
func Add(profile Profile) {
	registry.Set(profile.ID, profile)
}

// Lookup resolves a model identifier to its capability profile. Unknown
// identifiers resolve to Default(id).
func Lookup(modelID string) Profile {
	if profile, ok := registry.Get(modelID); ok {
		return profile
	}
	return Default(modelID)
}

// Known reports whether the identifier has a registered profile.
func Known(modelID string) bool {
	_, ok := registry.Get(modelID)
	return ok
}

// Default returns the conservative fallback profile: small context window
// and no optional parameter support, since providers reject unknown fields.
func Default(modelID string) Profile {
	return Profile{
		ID:                modelID,
		ContextWindow:     defaultContextWindow,
		MaxResponseTokens: defaultResponseBudget,
	}
}

func init() {
	builtin := []Profile{
		// OpenAI
		{ID: "gpt-4o", Provider: "openai", ContextWindow: 128000, MaxResponseTokens: 16384, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
		{ID: "gpt-4o-mini", Provider: "openai", ContextWindow: 128000, MaxResponseTokens: 16384, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
		{ID: "gpt-4-turbo", Provider: "openai", ContextWindow: 128000, MaxResponseTokens: 4096, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
		{ID: "gpt-4", Provider: "openai", ContextWindow: 8192, MaxResponseTokens: 4096, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
		{ID: "gpt-3.5-turbo", Provider: "openai", ContextWindow: 16385, MaxResponseTokens: 4096, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},

		// Google
		{ID: "gemini-2.0-flash", Provider: "gemini", ContextWindow: 1048576, MaxResponseTokens: 8192, SupportsStopSequences: true},
		{ID: "gemini-1.5-pro", Provider: "gemini", ContextWindow: 2097152, MaxResponseTokens: 8192, SupportsStopSequences: true},
		{ID: "gemini-1.5-flash", Provider: "gemini", ContextWindow: 1048576, MaxResponseTokens: 8192, SupportsStopSequences: true},

		// Common local / hosted open-weight models (LM Studio, Hugging Face)
		{ID: "meta-llama/Llama-3.1-8B-Instruct", Provider: "huggingface", ContextWindow: 131072, MaxResponseTokens: 4096},
		{ID: "mistralai/Mistral-7B-Instruct-v0.3", Provider: "huggingface", ContextWindow: 32768, MaxResponseTokens: 4096},
		{ID: "llama-3.1-8b-instruct", Provider: "lmstudio", ContextWindow: 131072, MaxResponseTokens: 4096, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
		{ID: "qwen2.5-7b-instruct", Provider: "lmstudio", ContextWindow: 32768, MaxResponseTokens: 4096, SupportsFrequencyPenalty: true, SupportsPresencePenalty: true, SupportsStopSequences: true},
	}
	for _, profile := range builtin {
		Add(profile)
	}
}
