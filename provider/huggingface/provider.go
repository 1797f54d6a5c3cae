// Package huggingface provides the façade for generic inference endpoints
// hosted behind the Hugging Face API shape. These endpoints are single-shot:
// there is no native streaming, so the streaming contract is satisfied by
// performing a regular completion and emitting the whole result as exactly
// one chunk. Callers cannot distinguish this from true streaming at the
// interface level.
package huggingface

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/casualjim/hermes/budget"
	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/internal/httpx"
	"github.com/casualjim/hermes/internal/wire"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/pkg/slogx"
	"github.com/casualjim/hermes/pkg/uuidx"
	"github.com/casualjim/hermes/provider"
	"github.com/casualjim/hermes/provider/models"
	"github.com/fogfish/opts"
)

const (
	providerName   = "Hugging Face"
	defaultBaseURL = "https://api-inference.huggingface.co/models"
)

// Provider talks to a text-generation inference endpoint. It satisfies
// provider.Completer.
type Provider struct {
	apiKey    string
	model     string
	baseURL   string
	client    httpx.Doer
	publisher events.Publisher
	relay     *events.Relay
	log       *slog.Logger

	mu sync.RWMutex
}

var (
	// WithAPIKey sets the API token. Construction fails without one.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the initial model identifier (repo path).
	WithModel = opts.ForName[Provider, string]("model")

	// WithBaseURL overrides the inference endpoint root.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")

	// WithPublisher wires the credit signal relay to a broker topic.
	WithPublisher = opts.ForName[Provider, events.Publisher]("publisher")
)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client httpx.Doer) opts.Option[Provider] {
	return opts.Type[Provider](func(p *Provider) error {
		p.client = client
		return nil
	})
}

// New builds the façade. The API token and model are required.
func New(options ...opts.Option[Provider]) (*Provider, error) {
	p := &Provider{baseURL: defaultBaseURL}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", providerName)
	}
	if p.model == "" {
		return nil, fmt.Errorf("%s: model is required", providerName)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: 2 * time.Minute}
	}
	p.relay = events.NewRelay(p.publisher)
	p.log = slog.Default()
	return p, nil
}

// Name returns "Hugging Face".
func (p *Provider) Name() string {
	return providerName
}

// Model returns the currently configured model identifier.
func (p *Provider) Model() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// UpdateModel switches the model for subsequent calls.
func (p *Provider) UpdateModel(modelID string) {
	p.mu.Lock()
	p.model = modelID
	p.mu.Unlock()
}

// Complete sends the flattened conversation and returns the generated text.
func (p *Provider) Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[provider.Params]) (string, error) {
	model := p.Model()
	runID := uuidx.NewString()

	if err := messages.Validate(conversation); err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	params, err := provider.BuildParams(options...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	profile := models.Lookup(model)
	validated := provider.Validate(profile, params)

	inputBudget := profile.ContextWindow - validated.MaxTokens
	if budget.Estimate(conversation) > inputBudget {
		before := len(conversation)
		conversation = budget.Truncate(conversation, inputBudget, true)
		p.log.Debug("truncated conversation to fit context window",
			slogx.Provider(providerName), slogx.Model(model), slogx.RunID(runID),
			slog.Int("dropped", before-len(conversation)))
	}

	body, err := wire.InferenceRequest(conversation, validated)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", providerName, err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := httpx.PostJSON(ctx, p.client, providerName, p.baseURL+"/"+model, header, body, false)
	if err != nil {
		return "", err
	}

	respBody, err := httpx.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	text, err := wire.InferenceText(respBody)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	if credit, ok := wire.CreditEnvelope(respBody, providerName); ok {
		p.relay.Forward(ctx, credit)
	}

	return text, nil
}

// StreamComplete emulates streaming: it performs a regular completion and
// delivers the entire result as a single chunk.
func (p *Provider) StreamComplete(ctx context.Context, conversation []messages.Message, onChunk provider.ChunkHandler, options ...opts.Option[provider.Params]) error {
	text, err := p.Complete(ctx, conversation, options...)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	onChunk(text)
	return nil
}
