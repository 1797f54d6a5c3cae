package hermes

import (
	"fmt"
	"os"
	"strings"

	"github.com/casualjim/hermes/events"
	"github.com/casualjim/hermes/provider"
	"github.com/casualjim/hermes/provider/azure"
	"github.com/casualjim/hermes/provider/gemini"
	"github.com/casualjim/hermes/provider/huggingface"
	"github.com/casualjim/hermes/provider/lmstudio"
	"github.com/casualjim/hermes/provider/openai"
	"github.com/fogfish/opts"
)

// Backend selects which provider façade New constructs.
type Backend string

const (
	OpenAI      Backend = "openai"
	Gemini      Backend = "gemini"
	Azure       Backend = "azure"
	LMStudio    Backend = "lmstudio"
	HuggingFace Backend = "huggingface"
)

// ServiceConfig is the per-provider configuration read once at façade
// construction. BaseURL is optional for providers with a public endpoint.
type ServiceConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ConfigFromEnv reads PREFIX_API_KEY, PREFIX_MODEL and PREFIX_BASE_URL.
// Validation happens at construction, not here: a missing key only matters
// for providers that require one.
func ConfigFromEnv(prefix string) ServiceConfig {
	prefix = strings.ToUpper(prefix)
	return ServiceConfig{
		APIKey:  os.Getenv(prefix + "_API_KEY"),
		Model:   os.Getenv(prefix + "_MODEL"),
		BaseURL: os.Getenv(prefix + "_BASE_URL"),
	}
}

// New constructs the façade for the chosen backend. The publisher may be
// nil, in which case credit envelopes are dropped instead of relayed.
func New(backend Backend, cfg ServiceConfig, publisher events.Publisher) (provider.Completer, error) {
	switch backend {
	case OpenAI:
		options := []opts.Option[openai.Provider]{
			openai.WithAPIKey(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			options = append(options, openai.WithBaseURL(cfg.BaseURL))
		}
		if publisher != nil {
			options = append(options, openai.WithPublisher(publisher))
		}
		return openai.New(options...)

	case Gemini:
		options := []opts.Option[gemini.Provider]{
			gemini.WithAPIKey(cfg.APIKey),
			gemini.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			options = append(options, gemini.WithBaseURL(cfg.BaseURL))
		}
		if publisher != nil {
			options = append(options, gemini.WithPublisher(publisher))
		}
		return gemini.New(options...)

	case Azure:
		options := []opts.Option[azure.Provider]{
			azure.WithAPIKey(cfg.APIKey),
			azure.WithModel(cfg.Model),
			azure.WithBaseURL(cfg.BaseURL),
		}
		if publisher != nil {
			options = append(options, azure.WithPublisher(publisher))
		}
		return azure.New(options...)

	case LMStudio:
		options := []opts.Option[lmstudio.Provider]{
			lmstudio.WithModel(cfg.Model),
		}
		if cfg.APIKey != "" {
			options = append(options, lmstudio.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			options = append(options, lmstudio.WithBaseURL(cfg.BaseURL))
		}
		if publisher != nil {
			options = append(options, lmstudio.WithPublisher(publisher))
		}
		return lmstudio.New(options...)

	case HuggingFace:
		options := []opts.Option[huggingface.Provider]{
			huggingface.WithAPIKey(cfg.APIKey),
			huggingface.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			options = append(options, huggingface.WithBaseURL(cfg.BaseURL))
		}
		if publisher != nil {
			options = append(options, huggingface.WithPublisher(publisher))
		}
		return huggingface.New(options...)

	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
