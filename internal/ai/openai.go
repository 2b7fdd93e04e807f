package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

var _ AIProvider = (*OpenAIProvider)(nil)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider summarizes through the Chat Completions API. Any server
// speaking that protocol works when a base URL is configured.
type OpenAIProvider struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

// NewOpenAIProvider creates an OpenAIProvider. An empty baseURL selects the
// public OpenAI endpoint; otherwise /v1/chat/completions is appended to it.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		url:    endpoint(baseURL, openaiAPIURL, "/v1/chat/completions"),
		client: &http.Client{Timeout: requestTimeout},
	}
}

// chatMessage is one message of a chat completions request or answer.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

func (r *chatResponse) errorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string { return p.model }

// Summarize asks the chat completions endpoint for a one-sentence
// Vietnamese summary and cleans the answer.
func (p *OpenAIProvider) Summarize(ctx context.Context, article ArticleEntry) (string, error) {
	system, user := SummarizePrompt(article.Title, article.Content)
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	slog.Debug("calling OpenAI API", "model", p.model)

	var resp chatResponse
	if err := postJSON(ctx, p.client, p.url, header, req, &resp); err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai summarize: %w: no choices returned", errMalformed)
	}

	summary, err := finish(resp.Choices[0].Message.Content)
	if err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	return summary, nil
}
