package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Compile-time interface check.
var _ AIProvider = (*GeminiProvider)(nil)

// GeminiProvider implements AIProvider using the Google Generative AI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini client authenticated with apiKey.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Model returns the configured model name.
func (p *GeminiProvider) Model() string { return p.model }

// Close releases the underlying client connection.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// Summarize generates a one-sentence summary with Gemini.
func (p *GeminiProvider) Summarize(ctx context.Context, article ArticleEntry) (string, error) {
	systemPrompt, userPrompt := SummarizePrompt(article.Title, article.Content)

	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(summaryTemperature)
	model.SetMaxOutputTokens(summaryMaxTokens)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	slog.Debug("calling Gemini API", "model", p.model)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini summarize: %w", err)
	}

	text := responseText(resp)
	if text == "" && (resp == nil || len(resp.Candidates) == 0) {
		return "", fmt.Errorf("gemini summarize: %w: no candidates returned", errMalformed)
	}

	summary, err := finish(text)
	if err != nil {
		return "", fmt.Errorf("gemini summarize: %w", err)
	}
	return summary, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
