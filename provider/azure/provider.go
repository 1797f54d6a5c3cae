// Package azure provides the façade for Azure-hosted OpenAI-compatible
// deployments. It shares the wire format with the OpenAI façade but
// authenticates with an `api-key` header and addresses models as
// deployments under the resource URL.
package azure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/internal/oaicompat"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	"github.com/fogfish/opts"
)

const defaultAPIVersion = "2024-06-01"

// Provider talks to an Azure OpenAI deployment. It satisfies
// provider.Completer.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	apiVersion string
	client     *http.Client
	publisher  events.Publisher

	core *oaicompat.Core
}

var (
	// WithAPIKey sets the deployment key. Construction fails without one.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the deployment name used as the model identifier.
	WithModel = opts.ForName[Provider, string]("model")

	// WithBaseURL sets the resource endpoint,
	// e.g. https://my-resource.openai.azure.com.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")

	// WithAPIVersion overrides the api-version query parameter.
	WithAPIVersion = opts.ForName[Provider, string]("apiVersion")

	// WithHTTPClient overrides the HTTP client.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("client")

	// WithPublisher wires the credit signal relay to a broker topic.
	WithPublisher = opts.ForName[Provider, events.Publisher]("publisher")
)

// New builds the façade. API key, model and base URL are required.
func New(options ...opts.Option[Provider]) (*Provider, error) {
	p := &Provider{apiVersion: defaultAPIVersion}
	if err := opts.Apply(p, options); err != nil {
		return nil, err
	}

	apiVersion := p.apiVersion
	cfg := oaicompat.Config{
		Name:      "Azure OpenAI",
		APIKey:    p.apiKey,
		Model:     p.model,
		BaseURL:   p.baseURL,
		Publisher: p.publisher,
		Header: func(apiKey string) http.Header {
			h := http.Header{}
			h.Set("Api-Key", apiKey)
			return h
		},
		Endpoint: func(baseURL, model string) string {
			return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", baseURL, model, apiVersion)
		},
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

// Name returns "Azure OpenAI".
func (p *Provider) Name() string {
	return p.core.Name()
}

// Model returns the currently configured deployment name.
func (p *Provider) Model() string {
	return p.core.Model()
}

// UpdateModel switches the deployment for subsequent calls.
func (p *Provider) UpdateModel(modelID string) {
	p.core.UpdateModel(modelID)
}

func (p *Provider) Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[provider.Params]) (string, error) {
	return p.core.Complete(ctx, conversation, options...)
}

func (p *Provider) StreamComplete(ctx context.Context, conversation []messages.Message, onChunk provider.ChunkHandler, options ...opts.Option[provider.Params]) error {
	return p.core.StreamComplete(ctx, conversation, onChunk, options...)
}
