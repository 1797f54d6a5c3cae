// Package lmstudio provides the façade for a local LM Studio server, which
// exposes an OpenAI-compatible endpoint on localhost and requires no
// credentials.
package lmstudio

import (
	"context"
	"net/http"

	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/internal/oaicompat"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	"github.com/fogfish/opts"
)

const defaultBaseURL = "http://localhost:1234/v1"

// Provider talks to a local LM Studio server. It satisfies
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
	// WithAPIKey sets an optional key, for servers configured to want one.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the initial model identifier.
	WithModel = opts.ForName[Provider, string]("model")

	// WithBaseURL overrides the default localhost endpoint.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")

	// WithHTTPClient overrides the HTTP client.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("client")

	// WithPublisher wires the credit signal relay to a broker topic.
	WithPublisher = opts.ForName[Provider, events.Publisher]("publisher")
)

// New builds the façade. Only the model is required; local servers accept
// anonymous requests.
func New(options ...opts.Option[Provider]) (*Provider, error) {
	p := &Provider{baseURL: defaultBaseURL}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}

	cfg := oaicompat.Config{
		Name:           "LM Studio",
		APIKey:         p.apiKey,
		Model:          p.model,
		BaseURL:        p.baseURL,
		AllowAnonymous: true,
		Publisher:      p.publisher,
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

// Name returns "LM Studio".
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
