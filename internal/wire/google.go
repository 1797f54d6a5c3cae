package wire

import (
	"fmt"
	"strings"

	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googleGenerationConfig struct {
	MaxOutputTokens int                `json:"maxOutputTokens"`
	Temperature     float64            `json:"temperature"`
	TopP            float64            `json:"topP"`
	StopSequences   []string           `json:"stopSequences,omitempty"`
	ResponseSchema  *jsonschema.Schema `json:"responseSchema,omitempty"`
	ResponseMIME    string             `json:"responseMimeType,omitempty"`
}

type googleRequest struct {
	Contents          []googleContent        `json:"contents"`
	SystemInstruction *googleContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  googleGenerationConfig `json:"generationConfig"`
}

// GoogleRequest builds the generateContent request body. The leading system
// message, when present, becomes the systemInstruction; assistant messages
// map to the "model" role; any other system messages are folded into user
// turns since the API accepts only user/model in contents.
func GoogleRequest(conversation []messages.Message, v provider.Validated) ([]byte, error) {
	req := googleRequest{
		GenerationConfig: googleGenerationConfig{
			MaxOutputTokens: v.MaxTokens,
			Temperature:     v.Temperature,
			TopP:            v.TopP,
			StopSequences:   v.Stop,
		},
	}

	rest := conversation
	if messages.HasAnchor(conversation) {
		req.SystemInstruction = &googleContent{Parts: []googlePart{{Text: conversation[0].Content}}}
		rest = conversation[1:]
	}

	for _, msg := range rest {
		role := "user"
		if msg.Role == messages.RoleAssistant {
			role = "model"
		}
		req.Contents = append(req.Contents, googleContent{
			Role:  role,
			Parts: []googlePart{{Text: msg.Content}},
		})
	}

	if v.ResponseSchema != nil && v.ResponseSchema.Schema != nil {
		req.GenerationConfig.ResponseSchema = v.ResponseSchema.Schema
		req.GenerationConfig.ResponseMIME = "application/json"
	}

	return json.Marshal(req)
}

// GoogleText extracts the reply from a non-streaming generateContent
// response, joining all parts of the first candidate.
func GoogleText(body []byte) (string, error) {
	parts := gjson.GetBytes(body, "candidates.0.content.parts")
	if !parts.Exists() {
		return "", fmt.Errorf("response contains no candidates")
	}
	var sb strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		sb.WriteString(part.Get("text").String())
		return true
	})
	return sb.String(), nil
}
