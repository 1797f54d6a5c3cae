package hermes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("constructs every backend", func(t *testing.T) {
		cases := []struct {
			backend Backend
			cfg     ServiceConfig
			name    string
		}{
			{OpenAI, ServiceConfig{APIKey: "sk-test", Model: "gpt-4o-mini"}, "OpenAI"},
			{Gemini, ServiceConfig{APIKey: "gm-test", Model: "gemini-2.0-flash"}, "Gemini"},
			{Azure, ServiceConfig{APIKey: "az-test", Model: "deploy", BaseURL: "https://res.openai.azure.com"}, "Azure OpenAI"},
			{LMStudio, ServiceConfig{Model: "llama-3.1-8b-instruct"}, "LM Studio"},
			{HuggingFace, ServiceConfig{APIKey: "hf-test", Model: "meta-llama/Llama-3.1-8B-Instruct"}, "Hugging Face"},
		}

		for _, tc := range cases {
			t.Run(string(tc.backend), func(t *testing.T) {
				completer, err := New(tc.backend, tc.cfg, nil)
				require.NoError(t, err)
				assert.Equal(t, tc.name, completer.Name())
				assert.Equal(t, tc.cfg.Model, completer.Model())
			})
		}
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		_, err := New(Backend("bard"), ServiceConfig{APIKey: "x", Model: "y"}, nil)
		require.Error(t, err)
	})

	t.Run("missing credentials surface at construction", func(t *testing.T) {
		_, err := New(OpenAI, ServiceConfig{Model: "gpt-4o-mini"}, nil)
		require.Error(t, err)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ACME_API_KEY", "sk-env")
	t.Setenv("ACME_MODEL", "gpt-4o")
	t.Setenv("ACME_BASE_URL", "https://proxy.internal/v1")

	cfg := ConfigFromEnv("acme")
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "https://proxy.internal/v1", cfg.BaseURL)
}
