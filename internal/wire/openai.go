// Package wire translates between the canonical message form and each
// provider's request/response JSON shape. Requests are built with typed
// structs so optional fields can be omitted entirely; responses are read
// with gjson paths so unknown sibling fields (metering envelopes included)
// never break decoding.
package wire

import (
	"fmt"

	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIJSONSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Schema      *jsonschema.Schema `json:"schema"`
}

type openAIResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema openAIJSONSchema `json:"json_schema"`
}

type openAIRequest struct {
	Model            string                `json:"model"`
	Messages         []openAIMessage       `json:"messages"`
	MaxTokens        int                   `json:"max_tokens"`
	Temperature      float64               `json:"temperature"`
	TopP             float64               `json:"top_p"`
	Stream           bool                  `json:"stream"`
	FrequencyPenalty *float64              `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64              `json:"presence_penalty,omitempty"`
	Stop             []string              `json:"stop,omitempty"`
	ResponseFormat   *openAIResponseFormat `json:"response_format,omitempty"`
}

// OpenAIRequest builds the request body for any OpenAI-compatible
// chat-completion endpoint.
func OpenAIRequest(model string, conversation []messages.Message, v provider.Validated, stream bool) ([]byte, error) {
	req := openAIRequest{
		Model:            model,
		Messages:         make([]openAIMessage, len(conversation)),
		MaxTokens:        v.MaxTokens,
		Temperature:      v.Temperature,
		TopP:             v.TopP,
		Stream:           stream,
		FrequencyPenalty: v.FrequencyPenalty,
		PresencePenalty:  v.PresencePenalty,
		Stop:             v.Stop,
	}
	for i, msg := range conversation {
		req.Messages[i] = openAIMessage{Role: string(msg.Role), Content: msg.Content}
	}
	if v.ResponseSchema != nil && v.ResponseSchema.Schema != nil {
		req.ResponseFormat = &openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: openAIJSONSchema{
				Name:        v.ResponseSchema.Name,
				Description: v.ResponseSchema.Description,
				Schema:      v.ResponseSchema.Schema,
			},
		}
	}
	return json.Marshal(req)
}

// OpenAIText extracts the assistant reply from a non-streaming
// chat-completion response.
func OpenAIText(body []byte) (string, error) {
	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("response contains no choices")
	}
	return content.String(), nil
}
