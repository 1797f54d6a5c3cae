package provider

import (
	"github.com/casualjim/hermes/provider/models"
)

// Sampling parameter bounds shared by every chat-completion API.
const (
	// DefaultMaxTokens is used when the caller does not cap the response.
	DefaultMaxTokens = 2048

	// DefaultTemperature balances determinism and variety for chat use.
	DefaultTemperature = 0.7

	// DefaultTopP leaves nucleus sampling effectively disabled.
	DefaultTopP = 1.0

	minTemperature = 0.0
	maxTemperature = 2.0
	minTopP        = 0.0
	maxTopP        = 1.0
	minPenalty     = -2.0
	maxPenalty     = 2.0
)

// Validated is the per-call resolved parameter set, produced fresh by
// Validate and never mutated afterwards. Penalty pointers are nil whenever
// the profile does not declare support, so the corresponding wire fields are
// omitted entirely; several providers reject unknown fields.
type Validated struct {
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             []string
	ResponseSchema   *StructuredOutput
}

// Validate clamps and defaults the requested parameters against the model's
// capability profile. It never rejects input: out-of-range values are
// clamped, unsupported knobs are dropped.
func Validate(profile models.Profile, requested Params) Validated {
	v := Validated{
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
		TopP:           DefaultTopP,
		ResponseSchema: requested.ResponseSchema,
	}

	if requested.MaxTokens > 0 {
		v.MaxTokens = requested.MaxTokens
	}
	if budget := profile.MaxResponseTokens; budget > 0 && v.MaxTokens > budget {
		v.MaxTokens = budget
	}

	if requested.Temperature != nil {
		v.Temperature = clamp(*requested.Temperature, minTemperature, maxTemperature)
	}
	if requested.TopP != nil {
		v.TopP = clamp(*requested.TopP, minTopP, maxTopP)
	}

	if profile.SupportsFrequencyPenalty && requested.FrequencyPenalty != nil {
		fp := clamp(*requested.FrequencyPenalty, minPenalty, maxPenalty)
		v.FrequencyPenalty = &fp
	}
	if profile.SupportsPresencePenalty && requested.PresencePenalty != nil {
		pp := clamp(*requested.PresencePenalty, minPenalty, maxPenalty)
		v.PresencePenalty = &pp
	}
	if profile.SupportsStopSequences && len(requested.Stop) > 0 {
		v.Stop = append([]string(nil), requested.Stop...)
	}

	return v
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
