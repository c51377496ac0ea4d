// Package apierr turns provider HTTP failures into domain errors so the core
// can tell throttling from refusals without knowing any provider.
package apierr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// maxMessage caps the body excerpt carried in an error.
const maxMessage = 300

// statusOverloaded is Anthropic's "overloaded" status. It behaves like a 429.
const statusOverloaded = 529

// FromStatus classifies a non-2xx response.
//
//   - 429 and 529 wrap domain.ErrRateLimited.
//   - 408 is treated as a transient failure.
//   - Any other 4xx wraps domain.ErrProviderRejected.
//   - 5xx is a plain error, retried by the caller.
func FromStatus(provider string, status int, body []byte) error {
	msg := Message(body)
	switch {
	case status == http.StatusTooManyRequests || status == statusOverloaded:
		return fmt.Errorf("%s: status %d: %s: %w", provider, status, msg, domain.ErrRateLimited)
	case status == http.StatusRequestTimeout:
		return fmt.Errorf("%s: status %d: %s", provider, status, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%s: status %d: %s: %w", provider, status, msg, domain.ErrProviderRejected)
	default:
		return fmt.Errorf("%s: status %d: %s", provider, status, msg)
	}
}

// errorBody covers the error envelopes used by OpenAI, Anthropic and Ollama.
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

// Message extracts a readable message from an error response body.
func Message(body []byte) string {
	var env errorBody
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if json.Unmarshal(env.Error, &flat) == nil && flat != "" {
			return flat
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	if len(msg) > maxMessage {
		msg = msg[:maxMessage] + "..."
	}
	return msg
}

// Do sends req and returns the body of a 2xx response. Transport failures
// keep their cause so context cancellation stays detectable.
func Do(client *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FromStatus(provider, resp.StatusCode, body)
	}
	return body, nil
}
