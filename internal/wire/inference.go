package wire

import (
	"fmt"
	"strings"

	"github.com/casualjim/hermes/messages"
	"github.com/casualjim/hermes/provider"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

// InferenceRequest builds the single-shot text-generation body used by
// generic inference endpoints. The conversation is flattened into one
// prompt, role-tagged per line, because these endpoints take raw text
// rather than structured chat turns.
func InferenceRequest(conversation []messages.Message, v provider.Validated) ([]byte, error) {
	var prompt strings.Builder
	for _, msg := range conversation {
		prompt.WriteString(string(msg.Role))
		prompt.WriteString(": ")
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString(string(messages.RoleAssistant))
	prompt.WriteString(": ")

	return json.Marshal(inferenceRequest{
		Inputs: prompt.String(),
		Parameters: inferenceParameters{
			MaxNewTokens: v.MaxTokens,
			Temperature:  v.Temperature,
			TopP:         v.TopP,
		},
	})
}

// InferenceText extracts the generated text. The endpoint returns either a
// bare object or a one-element array depending on deployment.
func InferenceText(body []byte) (string, error) {
	for _, path := range []string{"0.generated_text", "generated_text"} {
		if res := gjson.GetBytes(body, path); res.Exists() {
			return res.String(), nil
		}
	}
	return "", fmt.Errorf("response contains no generated text")
}
