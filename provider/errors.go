package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the failure taxonomy every non-2xx provider response maps into.
type Kind string

const (
	// AuthFailure covers invalid or missing credentials.
	AuthFailure Kind = "auth_failure"

	// QuotaExceeded means the metering backend reported insufficient
	// balance. The raw body is preserved so billing UI can render it.
	QuotaExceeded Kind = "quota_exceeded"

	// BadRequest covers malformed parameters and unknown models.
	BadRequest Kind = "bad_request"

	// ProviderFailure is every other non-2xx response.
	ProviderFailure Kind = "provider_failure"
)

// Error is the single typed failure surfaced by every façade. Body holds
// the raw response bytes verbatim; for QuotaExceeded callers are expected to
// parse it rather than rely on the flattened message.
type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Body     []byte
	Message  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: %s (http %d)", e.Provider, msg, e.Status)
}

// Classify maps an HTTP failure into the taxonomy, qualified with the
// human-readable provider name.
func Classify(providerName string, status int, body []byte) *Error {
	var kind Kind
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = AuthFailure
	case http.StatusPaymentRequired:
		kind = QuotaExceeded
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		kind = BadRequest
	default:
		kind = ProviderFailure
	}

	return &Error{
		Provider: providerName,
		Kind:     kind,
		Status:   status,
		Body:     body,
		Message:  extractMessage(body),
	}
}

// extractMessage pulls a human-readable message out of the common provider
// error shapes without assuming any one of them.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "error", "message", "detail"} {
			if res := gjson.GetBytes(body, path); res.Exists() && res.Type == gjson.String && res.String() != "" {
				return res.String()
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// AsError unwraps a classified provider error, if there is one.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsQuotaExceeded reports whether the failure is a metering rejection, so a
// UI can route the user to billing instead of a generic error.
func IsQuotaExceeded(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == QuotaExceeded
}

// IsAuthFailure reports whether the failure is a credential problem.
func IsAuthFailure(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == AuthFailure
}
