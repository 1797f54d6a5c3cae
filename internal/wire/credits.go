package wire

import (
	"time"

	"github.com/casualjim/hermes/events"
	"github.com/go-openapi/strfmt"
	"github.com/tidwall/gjson"
)

// CreditEnvelope extracts the optional metering envelope a billing-aware
// backend embeds in a response. Both fields must be present for the
// envelope to count; anything else is not a metering signal.
func CreditEnvelope(body []byte, providerName string) (events.Credit, bool) {
	if !gjson.ValidBytes(body) {
		return events.Credit{}, false
	}
	used := gjson.GetBytes(body, "credits_used")
	balance := gjson.GetBytes(body, "remaining_balance")
	if !used.Exists() || !balance.Exists() {
		return events.Credit{}, false
	}
	return events.Credit{
		CreditsUsed:      used.Float(),
		RemainingBalance: balance.Float(),
		Provider:         providerName,
		Timestamp:        strfmt.DateTime(time.Now()),
	}, true
}
