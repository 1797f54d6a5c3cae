// Package gemini provides the Google Gemini façade. It shares the generic
// pre-flight pipeline with the other providers but speaks the
// generateContent wire format and its candidate-array streaming framing.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/casualjim/hermes/budget"
	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/internal/httpx"
	"github.com/casualjim/hermes/internal/sse"
	"github.com/casualjim/hermes/internal/wire"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/pkg/slogx"
	"github.com/casualjim/hermes/pkg/uuidx"
	"github.com/casualjim/hermes/provider"
	"github.com/casualjim/hermes/provider/models"
	"github.com/fogfish/opts"
)

const (
	providerName   = "Gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// minOutputTokens is a provider quirk, not policy: below roughly this
	// floor the API tends to return an empty candidate instead of text.
	// Requested values under the floor are raised, never rejected.
	minOutputTokens = 50
)

// Provider talks to the Gemini generateContent API. It satisfies
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
	// WithAPIKey sets the API key. Construction fails without one.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the initial model identifier.
	WithModel = opts.ForName[Provider, string]("model")

	// WithBaseURL overrides the API endpoint.
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

// New builds the façade. The API key and model are required.
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

// Name returns "Gemini".
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

type call struct {
	runID string
	model string
}

func (p *Provider) snapshot() call {
	return call{
		runID: uuidx.NewString(),
		model: p.Model(),
	}
}

func (p *Provider) endpoint(model, operation string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s", p.baseURL, model, operation, url.QueryEscape(p.apiKey))
}

func (p *Provider) preflight(snap call, conversation []messages.Message, options []opts.Option[provider.Params]) ([]messages.Message, provider.Validated, error) {
	if err := messages.Validate(conversation); err != nil {
		return nil, provider.Validated{}, fmt.Errorf("%s: %w", providerName, err)
	}

	params, err := provider.BuildParams(options...)
	if err != nil {
		return nil, provider.Validated{}, fmt.Errorf("%s: %w", providerName, err)
	}

	profile := models.Lookup(snap.model)
	validated := provider.Validate(profile, params)

	// Adapter-level override after generic validation: raise requests below
	// the output-token floor instead of passing them through.
	if validated.MaxTokens < minOutputTokens {
		validated.MaxTokens = minOutputTokens
	}

	inputBudget := profile.ContextWindow - validated.MaxTokens
	if budget.Estimate(conversation) > inputBudget {
		before := len(conversation)
		conversation = budget.Truncate(conversation, inputBudget, true)
		p.log.Debug("truncated conversation to fit context window",
			slogx.Provider(providerName), slogx.Model(snap.model), slogx.RunID(snap.runID),
			slog.Int("dropped", before-len(conversation)))
	}

	return conversation, validated, nil
}

// Complete sends the conversation and returns the model's full reply.
func (p *Provider) Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[provider.Params]) (string, error) {
	snap := p.snapshot()
	conversation, validated, err := p.preflight(snap, conversation, options)
	if err != nil {
		return "", err
	}

	body, err := wire.GoogleRequest(conversation, validated)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", providerName, err)
	}

	resp, err := httpx.PostJSON(ctx, p.client, providerName, p.endpoint(snap.model, "generateContent"), nil, body, false)
	if err != nil {
		return "", err
	}

	respBody, err := httpx.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	text, err := wire.GoogleText(respBody)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}

	if credit, ok := wire.CreditEnvelope(respBody, providerName); ok {
		p.relay.Forward(ctx, credit)
	}

	return text, nil
}

// StreamComplete sends the conversation and delivers the reply through
// onChunk, using the candidate-array streaming framing. Gemini streams end
// on transport close; there is no sentinel.
func (p *Provider) StreamComplete(ctx context.Context, conversation []messages.Message, onChunk provider.ChunkHandler, options ...opts.Option[provider.Params]) error {
	snap := p.snapshot()
	conversation, validated, err := p.preflight(snap, conversation, options)
	if err != nil {
		return err
	}

	body, err := wire.GoogleRequest(conversation, validated)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", providerName, err)
	}

	endpoint := p.endpoint(snap.model, "streamGenerateContent") + "&alt=sse"
	resp, err := httpx.PostJSON(ctx, p.client, providerName, endpoint, nil, body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return sse.Pump(ctx, resp.Body, sse.NewDecoder(sse.GoogleExtractor), onChunk)
}
