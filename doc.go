// Package hermes is a uniform abstraction over heterogeneous AI
// chat-completion backends: OpenAI, Google Gemini, Azure-hosted
// OpenAI-compatible deployments, local LM Studio servers and generic
// Hugging Face inference endpoints.
//
// Every backend is wrapped in a façade exposing the same two-method
// contract — a whole-response completion and a push-based streaming
// completion — regardless of how different the underlying wire formats and
// streaming protocols are. The shared pipeline enforces per-model parameter
// budgets, truncates conversation history under token pressure while
// preserving the system-message anchor, and relays metering envelopes
// embedded in responses as process-wide credit notifications without ever
// coupling completion success to metering success.
//
// Construct façades directly from their packages (provider/openai,
// provider/gemini, ...) or through the New factory in this package when the
// provider is chosen at runtime:
//
//	completer, err := hermes.New(hermes.OpenAI, hermes.ServiceConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	}, nil)
//	if err != nil { ... }
//
//	text, err := completer.Complete(ctx, []messages.Message{
//	    messages.System("You are terse."),
//	    messages.User("Why is the sky blue?"),
//	})
package hermes
