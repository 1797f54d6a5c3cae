package provider

import (
	"context"

	"github.com/casualjim/hermes/messages"
	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
)

// ChunkHandler receives each decoded text chunk during a streaming
// completion, in emission order.
type ChunkHandler func(text string)

// Completer is the contract every provider façade implements.
//
// Complete and StreamComplete run the same pre-flight pipeline: validate the
// conversation, clamp the requested sampling parameters against the active
// model's capability profile, and truncate history when the estimated token
// usage would not leave room for the response. Errors from the initial
// response are classified; once streaming has begun, transport failures
// surface as a generic stream-aborted error instead.
type Completer interface {
	// Complete sends the conversation and returns the assistant's full reply.
	Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[Params]) (string, error)

	// StreamComplete sends the conversation and delivers the reply
	// incrementally through onChunk. It returns once the stream has ended.
	StreamComplete(ctx context.Context, conversation []messages.Message, onChunk ChunkHandler, options ...opts.Option[Params]) error

	// UpdateModel switches the model used by subsequent calls. In-flight
	// calls keep the model they snapshotted at entry.
	UpdateModel(modelID string)

	// Model returns the currently configured model identifier.
	Model() string

	// Name returns the human-readable provider name, e.g. "OpenAI".
	Name() string
}

// StructuredOutput asks the provider to shape its reply according to a JSON
// schema, for the backends that support a response format.
type StructuredOutput struct {
	// Name identifies the output format to the provider.
	Name string

	// Description explains the format's purpose.
	Description string

	// Schema is the JSON structure replies should follow.
	Schema *jsonschema.Schema
}

// Params holds the caller-supplied sampling options for one completion call.
// Optional knobs are pointers so "not set" and "zero" stay distinguishable;
// Validate resolves them against the model's capability profile.
type Params struct {
	MaxTokens        int
	Temperature      *float64
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             []string
	ResponseSchema   *StructuredOutput
}

// WithMaxTokens caps the response length in tokens.
var WithMaxTokens = opts.ForName[Params, int]("MaxTokens")

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.Temperature = &t
		return nil
	})
}

// WithTopP sets nucleus sampling.
func WithTopP(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.TopP = &v
		return nil
	})
}

// WithFrequencyPenalty sets the frequency penalty. It is silently dropped
// for models whose profile does not declare support.
func WithFrequencyPenalty(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.FrequencyPenalty = &v
		return nil
	})
}

// WithPresencePenalty sets the presence penalty. It is silently dropped for
// models whose profile does not declare support.
func WithPresencePenalty(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.PresencePenalty = &v
		return nil
	})
}

// WithStop sets stop sequences, for models that support them.
func WithStop(stop ...string) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.Stop = append([]string(nil), stop...)
		return nil
	})
}

// WithResponseSchema requests structured output following the given schema.
func WithResponseSchema(name string, schema *jsonschema.Schema) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.ResponseSchema = &StructuredOutput{Name: name, Schema: schema}
		return nil
	})
}

// BuildParams applies the options to an empty Params value.
func BuildParams(options ...opts.Option[Params]) (Params, error) {
	var p Params
	if err := opts.Apply(&p, options); err != nil {
		return Params{}, err
	}
	return p, nil
}
