package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds one provider call, retries excluded.
const requestTimeout = 60 * time.Second

// envelope is a decoded provider response that may carry an error object.
type envelope interface {
	errorMessage() string
}

// apiError is the error object shared by the OpenAI and Anthropic payloads.
type apiError struct {
	Message string `json:"message"`
}

// endpoint joins path onto base, falling back to def when base is empty.
func endpoint(base, def, path string) string {
	if base == "" {
		return def
	}
	return strings.TrimRight(base, "/") + path
}

// postJSON sends in as a JSON POST to url and decodes the answer into out.
// Non-2xx answers and answers with an error object become *APIError; a 2xx
// body that does not decode wraps errMalformed.
func postJSON(ctx context.Context, client *http.Client, url string, header http.Header, in any, out envelope) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = header.Clone()
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if err := json.Unmarshal(raw, out); err != nil {
		if !ok {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if msg := out.errorMessage(); msg != "" || !ok {
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return nil
}
