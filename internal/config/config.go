package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Server  ServerConfig  `toml:"server"`
	Feeds   FeedsConfig   `toml:"feeds"`
	Storage StorageConfig `toml:"storage"`
}

// AIConfig holds external summarization settings.
type AIConfig struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	SummaryCache   bool   `toml:"summary_cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FeedsConfig holds RSS feed settings.
type FeedsConfig struct {
	URLs                   []string          `toml:"urls"`
	SourceNames            map[string]string `toml:"source_names"`
	RefreshIntervalMinutes int               `toml:"refresh_interval_minutes"`
	MaxArticlesPerFeed     int               `toml:"max_articles_per_feed"`
	FetchTimeoutSeconds    int               `toml:"fetch_timeout_seconds"`
	MaxConcurrent          int               `toml:"max_concurrent"`
	ExtractFullText        bool              `toml:"extract_full_text"`
}

// StorageConfig holds SQLite settings for the summary cache and run log.
type StorageConfig struct {
	Path             string `toml:"path"`
	SummaryCacheDays int    `toml:"summary_cache_days"`
}

// DefaultFeedURLs are the publisher feeds aggregated when none are configured.
var DefaultFeedURLs = []string{
	"https://vnexpress.net/rss/kinh-doanh.rss",
	"https://cafef.vn/home.rss",
	"https://ndh.vn/rss",
	"https://baodautu.vn/rss",
	"https://www.vietnamplus.vn/rss/kinhte.rss",
	"https://thoibaotaichinhvietnam.vn/rss",
}

// DefaultSourceNames maps publisher domains to display names.
var DefaultSourceNames = map[string]string{
	"vnexpress.net":             "VnExpress",
	"cafef.vn":                  "Cafef",
	"ndh.vn":                    "NDH",
	"baodautu.vn":               "Báo Đầu Tư",
	"vietnamplus.vn":            "VietnamPlus",
	"thoibaotaichinhvietnam.vn": "Thời Báo Tài Chính",
}

var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
	"gemini":    "gemini-1.5-flash",
}

const defaultConfigContent = `[ai]
provider = "openai"               # "openai", "anthropic" or "gemini"
api_key = ""                      # Your API key (or set OPENAI_API_KEY / AI_API_KEY)
model = ""                        # Empty selects the provider's default model
base_url = ""                     # OpenAI/Anthropic-compatible endpoint; empty uses the public API
timeout_seconds = 20
max_retries = 2
summary_cache = true

[server]
host = "0.0.0.0"
port = 5001                       # PORT env var overrides

[feeds]
refresh_interval_minutes = 10
max_articles_per_feed = 20
fetch_timeout_seconds = 30
max_concurrent = 6
extract_full_text = false
urls = [
  "https://vnexpress.net/rss/kinh-doanh.rss",
  "https://cafef.vn/home.rss",
  "https://ndh.vn/rss",
  "https://baodautu.vn/rss",
  "https://www.vietnamplus.vn/rss/kinhte.rss",
  "https://thoibaotaichinhvietnam.vn/rss",
]

[feeds.source_names]
"vnexpress.net" = "VnExpress"
"cafef.vn" = "Cafef"
"ndh.vn" = "NDH"
"baodautu.vn" = "Báo Đầu Tư"
"vietnamplus.vn" = "VietnamPlus"
"thoibaotaichinhvietnam.vn" = "Thời Báo Tài Chính"

[storage]
path = ""                         # Empty uses <data-dir>/vnfinews.db
summary_cache_days = 7            # Cached external summaries older than this are pruned
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicit values are validated before defaults so that "port = 0" is
	// an error rather than silently replaced.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present, with
// environment overrides applied.
func Default() (*Config, error) {
	var cfg Config
	md, err := toml.Decode(defaultConfigContent, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}
	applyDefaults(&cfg, md)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, validate(&cfg)
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("feeds", "refresh_interval_minutes") && cfg.Feeds.RefreshIntervalMinutes < 1 {
		return fmt.Errorf("invalid feeds.refresh_interval_minutes %d: must be >= 1", cfg.Feeds.RefreshIntervalMinutes)
	}
	if md.IsDefined("feeds", "max_articles_per_feed") && cfg.Feeds.MaxArticlesPerFeed < 1 {
		return fmt.Errorf("invalid feeds.max_articles_per_feed %d: must be >= 1", cfg.Feeds.MaxArticlesPerFeed)
	}
	if md.IsDefined("feeds", "fetch_timeout_seconds") && cfg.Feeds.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("invalid feeds.fetch_timeout_seconds %d: must be >= 1", cfg.Feeds.FetchTimeoutSeconds)
	}
	if md.IsDefined("storage", "summary_cache_days") && cfg.Storage.SummaryCacheDays < 1 {
		return fmt.Errorf("invalid storage.summary_cache_days %d: must be >= 1", cfg.Storage.SummaryCacheDays)
	}
	if md.IsDefined("ai", "max_retries") && cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("invalid ai.max_retries %d: must be >= 0", cfg.AI.MaxRetries)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModels[cfg.AI.Provider]
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 20
	}
	if !md.IsDefined("ai", "max_retries") {
		cfg.AI.MaxRetries = 2
	}
	// A missing bool decodes as false; the cache is on unless explicitly disabled.
	if !md.IsDefined("ai", "summary_cache") {
		cfg.AI.SummaryCache = true
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if len(cfg.Feeds.URLs) == 0 {
		cfg.Feeds.URLs = append([]string(nil), DefaultFeedURLs...)
	}
	if len(cfg.Feeds.SourceNames) == 0 {
		cfg.Feeds.SourceNames = make(map[string]string, len(DefaultSourceNames))
		for k, v := range DefaultSourceNames {
			cfg.Feeds.SourceNames[k] = v
		}
	}
	if cfg.Feeds.RefreshIntervalMinutes == 0 {
		cfg.Feeds.RefreshIntervalMinutes = 10
	}
	if cfg.Feeds.MaxArticlesPerFeed == 0 {
		cfg.Feeds.MaxArticlesPerFeed = 20
	}
	if cfg.Feeds.FetchTimeoutSeconds == 0 {
		cfg.Feeds.FetchTimeoutSeconds = 30
	}
	if cfg.Feeds.MaxConcurrent == 0 {
		cfg.Feeds.MaxConcurrent = 6
	}
	if cfg.Storage.SummaryCacheDays == 0 {
		cfg.Storage.SummaryCacheDays = 7
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. OPENAI_API_KEY / ANTHROPIC_API_KEY / GEMINI_API_KEY for the selected provider
//
// PORT overrides server.port.
func applyEnvOverrides(cfg *Config) error {
	providerEnv := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	}
	if name, ok := providerEnv[cfg.AI.Provider]; ok {
		if v := os.Getenv(name); v != "" {
			cfg.AI.APIKey = v
		}
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if _, ok := defaultModels[cfg.AI.Provider]; !ok {
		return fmt.Errorf("invalid ai.provider %q: must be \"openai\", \"anthropic\" or \"gemini\"", cfg.AI.Provider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Feeds.MaxConcurrent < 1 {
		return fmt.Errorf("invalid feeds.max_concurrent %d: must be >= 1", cfg.Feeds.MaxConcurrent)
	}

	if cfg.AI.APIKey == "" {
		slog.Info("ai.api_key is empty: using rule-based summaries only")
	}

	return nil
}

// ExternalSummaries reports whether a credential for the external
// summarization service is configured.
func (c *Config) ExternalSummaries() bool {
	return c.AI.APIKey != ""
}

// RefreshInterval returns the scheduled refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Feeds.RefreshIntervalMinutes) * time.Minute
}

// FetchTimeout returns the per-feed fetch budget.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Feeds.FetchTimeoutSeconds) * time.Second
}

// AITimeout returns the per-call external summarization budget.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SummaryCacheTTL returns how long cached external summaries are kept.
func (c *Config) SummaryCacheTTL() time.Duration {
	return time.Duration(c.Storage.SummaryCacheDays) * 24 * time.Hour
}

// DatabasePath resolves the SQLite path, defaulting into dataDir.
func (c *Config) DatabasePath(dataDir string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(dataDir, "vnfinews.db")
}
