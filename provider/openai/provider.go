// Package openai provides the OpenAI chat-completion façade.
package openai

import (
	"context"
	"net/http"

	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/internal/oaicompat"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	"github.com/fogfish/opts"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider talks to the OpenAI chat-completion API. It satisfies
// provider.Completer.
type Provider struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	publisher events.Publisher

	core *oaicompat.Core
}

var (
	// WithAPIKey sets the API key. Construction fails without one.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the initial model identifier.
	WithModel = opts.ForName[Provider, string]("model")

	// WithBaseURL overrides the API endpoint, e.g. for a compatible proxy.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")

	// WithHTTPClient overrides the HTTP client.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("client")

	// WithPublisher wires the credit signal relay to a broker topic.
	WithPublisher = opts.ForName[Provider, events.Publisher]("publisher")
)

// New builds the façade. The API key and model are required.
func New(options ...opts.Option[Provider]) (*Provider, error) {
	p := &Provider{baseURL: defaultBaseURL}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}

	cfg := oaicompat.Config{
		Name:      "OpenAI",
		APIKey:    p.apiKey,
		Model:     p.model,
		BaseURL:   p.baseURL,
		Publisher: p.publisher,
	}
	if p.client != nil {
		cfg.Client = p.client
	}

	core, err := oaicompat.New(cfg)
	if err != nil {
		return nil, err
	}
	p.core = core
	return p, nil
}

// Name returns "OpenAI".
func (p *Provider) Name() string {
	return p.core.Name()
}

// Model returns the currently configured model identifier.
func (p *Provider) Model() string {
	return p.core.Model()
}

// UpdateModel switches the model for subsequent calls.
func (p *Provider) UpdateModel(modelID string) {
	p.core.UpdateModel(modelID)
}

func (p *Provider) Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[provider.Params]) (string, error) {
	return p.core.Complete(ctx, conversation, options...)
}

func (p *Provider) StreamComplete(ctx context.Context, conversation []messages.Message, onChunk provider.ChunkHandler, options ...opts.Option[provider.Params]) error {
	return p.core.StreamComplete(ctx, conversation, onChunk, options...)
}
