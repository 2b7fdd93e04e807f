package ai

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "openai" | "anthropic" | "gemini"
	APIKey   string
	Model    string
	BaseURL  string // optional endpoint override for OpenAI/Anthropic-compatible APIs
}

// ArticleEntry is the article text handed to a provider.
type ArticleEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

const (
	// summaryMaxTokens caps the answer to roughly one short sentence.
	summaryMaxTokens = 50
	// summaryTemperature keeps answers close to the source text.
	summaryTemperature = 0.3
	// promptContentRunes is how much article content goes into the prompt.
	promptContentRunes = 500
)
