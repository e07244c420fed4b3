package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the failure branch of the normalized response envelope.
//
// StatusCode is 0 for transport-level failures (network unreachable, DNS),
// otherwise the HTTP status of the failed response.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

// Unauthorized reports whether the failure is an authentication failure.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// normalize reads the full response body as text and attempts a JSON parse,
// keeping the raw text either way.
func normalize(resp *http.Response) (*Result, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Result{
		StatusCode: resp.StatusCode,
		Raw:        string(body),
	}

	var value any
	if err := json.Unmarshal(body, &value); err == nil {
		result.IsJSON = true
		result.Value = value
	}

	return result, nil
}

// newAPIError derives the normalized error from a non-2xx result.
//
// Precedence: a detail field on a JSON object body, then the body itself
// (stringified when not a string), then a generic message when no body
// content exists at all.
func newAPIError(result *Result) *APIError {
	message := ""

	var detail any
	if obj, ok := result.Value.(map[string]any); ok {
		if d, ok := obj["detail"]; ok && d != nil && d != "" {
			detail = d
		}
	}
	if detail == nil && result.Raw != "" {
		if result.IsJSON {
			detail = result.Value
		} else {
			detail = result.Raw
		}
	}

	switch d := detail.(type) {
	case nil:
	case string:
		message = d
	default:
		if encoded, err := json.Marshal(d); err == nil {
			message = string(encoded)
		}
	}

	if message == "" {
		message = fmt.Sprintf("Request failed (%d)", result.StatusCode)
	}

	return &APIError{Message: message, StatusCode: result.StatusCode}
}
