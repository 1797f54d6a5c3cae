// Package oaicompat implements the completion pipeline shared by every
// provider speaking the OpenAI chat-completion wire format. The OpenAI,
// Azure and LM Studio façades differ only in endpoint construction and
// authentication headers; everything else — parameter validation, history
// truncation, request building, streaming, error classification and credit
// relaying — lives here once.
package oaicompat

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
	"github.com/casualjim/hermes/internal/sse"
	"github.com/casualjim/hermes/internal/wire"
	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/pkg/slogx"
	"github.com/casualjim/hermes/pkg/uuidx"
	"github.com/casualjim/hermes/provider"
	"github.com/casualjim/hermes/provider/models"
	"github.com/fogfish/opts"
)

// HeaderFunc produces the authentication headers for a request.
type HeaderFunc func(apiKey string) http.Header

// EndpointFunc builds the chat-completion URL for the active model.
type EndpointFunc func(baseURL, model string) string

// Config wires up a Core. Name, Model and BaseURL are required; APIKey is
// required unless AllowAnonymous is set (local servers need no key).
type Config struct {
	Name           string
	APIKey         string
	Model          string
	BaseURL        string
	AllowAnonymous bool
	Header         HeaderFunc
	Endpoint       EndpointFunc
	Client         httpx.Doer
	Publisher      events.Publisher
}

// BearerHeader is the default authentication style.
func BearerHeader(apiKey string) http.Header {
	h := http.Header{}
	if apiKey != "" {
		h.Set("Authorization", "Bearer "+apiKey)
	}
	return h
}

func defaultEndpoint(baseURL, _ string) string {
	return baseURL + "/chat/completions"
}

// Core carries the shared state of an OpenAI-compatible façade. The model
// identifier is the only mutable field; it is guarded by a lock and read
// exactly once per call, so a concurrent UpdateModel can never split one
// call across two models.
type Core struct {
	name     string
	apiKey   string
	baseURL  string
	header   HeaderFunc
	endpoint EndpointFunc
	client   httpx.Doer
	relay    *events.Relay
	log      *slog.Logger

	mu    sync.RWMutex
	model string
}

// New validates the config and builds a Core.
func New(cfg Config) (*Core, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	if cfg.APIKey == "" && !cfg.AllowAnonymous {
		return nil, fmt.Errorf("%s: api key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s: model is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: base url is required", cfg.Name)
	}

	header := cfg.Header
	if header == nil {
		header = BearerHeader
	}
	endpoint := cfg.Endpoint
	if endpoint == nil {
		endpoint = defaultEndpoint
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	return &Core{
		name:     cfg.Name,
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		header:   header,
		endpoint: endpoint,
		client:   client,
		relay:    events.NewRelay(cfg.Publisher),
		log:      slog.Default(),
		model:    cfg.Model,
	}, nil
}

// Name returns the human-readable provider name.
func (c *Core) Name() string { return c.name }

// Model returns the currently configured model identifier.
func (c *Core) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// UpdateModel switches the model for subsequent calls.
func (c *Core) UpdateModel(modelID string) {
	c.mu.Lock()
	c.model = modelID
	c.mu.Unlock()
}

// call is the immutable per-call view of the façade configuration.
type call struct {
	runID  string
	model  string
	url    string
	header http.Header
}

func (c *Core) snapshot() call {
	model := c.Model()
	return call{
		runID:  uuidx.NewString(),
		model:  model,
		url:    c.endpoint(c.baseURL, model),
		header: c.header(c.apiKey),
	}
}

// preflight validates the conversation, resolves parameters against the
// model profile and truncates history so the request plus the reserved
// response budget fits the context window. It clamps instead of failing;
// the only error here is a structurally invalid conversation.
func (c *Core) preflight(snap call, conversation []messages.Message, options []opts.Option[provider.Params]) ([]messages.Message, provider.Validated, error) {
	if err := messages.Validate(conversation); err != nil {
		return nil, provider.Validated{}, fmt.Errorf("%s: %w", c.name, err)
	}

	params, err := provider.BuildParams(options...)
	if err != nil {
		return nil, provider.Validated{}, fmt.Errorf("%s: %w", c.name, err)
	}

	profile := models.Lookup(snap.model)
	validated := provider.Validate(profile, params)

	inputBudget := profile.ContextWindow - validated.MaxTokens
	if budget.Estimate(conversation) > inputBudget {
		before := len(conversation)
		conversation = budget.Truncate(conversation, inputBudget, true)
		c.log.Debug("truncated conversation to fit context window",
			slogx.Provider(c.name), slogx.Model(snap.model), slogx.RunID(snap.runID),
			slog.Int("dropped", before-len(conversation)))
	}

	return conversation, validated, nil
}

// Complete sends the conversation and returns the assistant's full reply.
func (c *Core) Complete(ctx context.Context, conversation []messages.Message, options ...opts.Option[provider.Params]) (string, error) {
	snap := c.snapshot()
	conversation, validated, err := c.preflight(snap, conversation, options)
	if err != nil {
		return "", err
	}

	body, err := wire.OpenAIRequest(snap.model, conversation, validated, false)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", c.name, err)
	}

	resp, err := httpx.PostJSON(ctx, c.client, c.name, snap.url, snap.header, body, false)
	if err != nil {
		return "", err
	}

	respBody, err := httpx.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}

	text, err := wire.OpenAIText(respBody)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}

	if credit, ok := wire.CreditEnvelope(respBody, c.name); ok {
		c.relay.Forward(ctx, credit)
	}

	return text, nil
}

// StreamComplete sends the conversation and delivers the reply through
// onChunk. Failures of the initial response are classified; once chunks are
// flowing, a transport failure surfaces as a stream-aborted error.
func (c *Core) StreamComplete(ctx context.Context, conversation []messages.Message, onChunk provider.ChunkHandler, options ...opts.Option[provider.Params]) error {
	snap := c.snapshot()
	conversation, validated, err := c.preflight(snap, conversation, options)
	if err != nil {
		return err
	}

	body, err := wire.OpenAIRequest(snap.model, conversation, validated, true)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", c.name, err)
	}

	resp, err := httpx.PostJSON(ctx, c.client, c.name, snap.url, snap.header, body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return sse.Pump(ctx, resp.Body, sse.NewDecoder(sse.OpenAIExtractor), onChunk)
}
