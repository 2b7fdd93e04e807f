package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

var _ AIProvider = (*AnthropicProvider)(nil)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// AnthropicProvider summarizes through the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// NewAnthropicProvider creates an AnthropicProvider. An empty baseURL selects
// the public endpoint.
func NewAnthropicProvider(apiKey, model, baseURL string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: apiKey,
		model:  model,
		url:    endpoint(baseURL, anthropicAPIURL, "/v1/messages"),
		client: &http.Client{Timeout: requestTimeout},
	}
}

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *apiError `json:"error"`
}

func (r *messagesResponse) errorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// Model returns the configured model name.
func (p *AnthropicProvider) Model() string { return p.model }

// Summarize asks the Messages API for a one-sentence Vietnamese summary and
// cleans the first content block.
func (p *AnthropicProvider) Summarize(ctx context.Context, article ArticleEntry) (string, error) {
	system, user := SummarizePrompt(article.Title, article.Content)
	req := messagesRequest{
		Model:       p.model,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
		System:      system,
		Messages:    []chatMessage{{Role: "user", Content: user}},
	}

	header := http.Header{}
	header.Set("x-api-key", p.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	slog.Debug("calling Anthropic API", "model", p.model)

	var resp messagesResponse
	if err := postJSON(ctx, p.client, p.url, header, req, &resp); err != nil {
		return "", fmt.Errorf("anthropic summarize: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("anthropic summarize: %w: no content blocks returned", errMalformed)
	}

	summary, err := finish(resp.Content[0].Text)
	if err != nil {
		return "", fmt.Errorf("anthropic summarize: %w", err)
	}
	return summary, nil
}
