// Package httpx is the thin transport layer shared by every provider
// façade: it posts JSON bodies with a context attached and turns non-2xx
// responses into classified provider errors before any payload handling
// happens.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/casualjim/hermes/provider"
)

// maxErrorBody bounds how much of a failure response is read into memory.
const maxErrorBody = 1 << 20

// Doer is the subset of http.Client the façades need; tests swap it out.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// PostJSON issues a POST with the given body and headers. The Accept header
// selects between a buffered JSON response and an event stream.
//
// On a non-2xx status the response body is read (bounded), the response is
// closed, and a classified *provider.Error is returned. On success the
// caller owns the response body.
func PostJSON(ctx context.Context, client Doer, providerName, url string, header http.Header, body []byte, stream bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", providerName, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	for key, values := range header {
		req.Header[key] = values
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", providerName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, provider.Classify(providerName, resp.StatusCode, respBody)
	}

	return resp, nil
}

// ReadBody drains and closes a successful response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
