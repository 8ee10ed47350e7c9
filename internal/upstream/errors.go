package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the core API, carrying the best
// available human-readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("core API returned status %d", e.StatusCode)
}

// IsUnauthorized reports whether the error is a core API 401, i.e. the
// session token has expired or been revoked.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// decodeError extracts the error message from a failed response. JSON bodies
// are searched for message, error, then detail (first present wins); anything
// else falls back to the raw response text.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, field := range []string{"message", "error", "detail"} {
			if msg, ok := body[field].(string); ok && msg != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: msg}
			}
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
