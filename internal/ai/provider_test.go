package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		wantErr  bool
		wantType string
	}{
		{
			name: "openai provider",
			cfg: ProviderConfig{
				Provider: "openai",
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name: "anthropic provider",
			cfg: ProviderConfig{
				Provider: "anthropic",
				APIKey:   "test-key",
				Model:    "claude-haiku-4-5",
			},
			wantType: "*ai.AnthropicProvider",
		},
		{
			name: "unsupported provider",
			cfg: ProviderConfig{
				Provider: "invalid",
				APIKey:   "test-key",
			},
			wantErr: true,
		},
		{
			name:    "empty provider",
			cfg:     ProviderConfig{APIKey: "test-key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if provider != nil {
					t.Fatal("expected nil provider when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", provider); got != tt.wantType {
				t.Errorf("provider type = %s, want %s", got, tt.wantType)
			}
			if provider.Model() != tt.cfg.Model {
				t.Errorf("Model() = %q, want %q", provider.Model(), tt.cfg.Model)
			}
		})
	}
}

func TestOpenAIProvider_Summarize(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"\"Tóm tắt: Lãi suất tăng mạnh.\""}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", "gpt-4o-mini", srv.URL)
	got, err := p.Summarize(context.Background(), ArticleEntry{Title: "Lãi suất ngân hàng tăng", Content: "Nội dung"})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	if got != "Lãi suất tăng mạnh." {
		t.Errorf("Summarize() = %q, want %q", got, "Lãi suất tăng mạnh.")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer sk-test")
	}
	for _, want := range []string{`"max_tokens":50`, `"temperature":0.3`, `"role":"system"`, "Lãi suất ngân hàng tăng"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %q: %s", want, gotBody)
		}
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantRetryable bool
		wantEmpty     bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, wantRetryable: true},
		{name: "server error without JSON", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantRetryable: true},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
		{name: "whitespace answer", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  \" \"  "}}]}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewOpenAIProvider("sk-test", "gpt-4o-mini", srv.URL)
			_, err := p.Summarize(context.Background(), ArticleEntry{Title: "Thuế"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := IsRetryable(err); got != tt.wantRetryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, got, tt.wantRetryable)
			}
			if got := errors.Is(err, ErrEmptySummary); got != tt.wantEmpty {
				t.Errorf("errors.Is(err, ErrEmptySummary) = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestAnthropicProvider_Summarize(t *testing.T) {
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		fmt.Fprint(w, `{"content":[{"text":"Ngân hàng nhà nước giữ nguyên lãi suất."}]}`)
	}))
	defer srv.Close()

	p := NewAnthropicProvider("ak-test", "claude-haiku-4-5", srv.URL)
	got, err := p.Summarize(context.Background(), ArticleEntry{Title: "Lãi suất"})
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if got != "Ngân hàng nhà nước giữ nguyên lãi suất." {
		t.Errorf("Summarize() = %q", got)
	}
	if gotKey != "ak-test" {
		t.Errorf("x-api-key = %q, want %q", gotKey, "ak-test")
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q, want %q", gotVersion, "2023-06-01")
	}
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[]}`)
	}))
	defer srv.Close()

	p := NewAnthropicProvider("ak-test", "claude-haiku-4-5", srv.URL)
	if _, err := p.Summarize(context.Background(), ArticleEntry{Title: "Thuế"}); err == nil {
		t.Fatal("expected error for empty content blocks, got nil")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "transport error", err: errors.New("connection reset"), want: true},
		{name: "500", err: &APIError{StatusCode: 500}, want: true},
		{name: "429", err: &APIError{StatusCode: 429}, want: true},
		{name: "400", err: &APIError{StatusCode: 400}, want: false},
		{name: "empty summary", err: fmt.Errorf("x: %w", ErrEmptySummary), want: false},
		{name: "deadline", err: fmt.Errorf("x: %w", context.DeadlineExceeded), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFailureCategory(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: fmt.Errorf("openai summarize: %w", ErrEmptySummary), want: "empty"},
		{err: fmt.Errorf("openai summarize: %w", errMalformed), want: "malformed"},
		{err: fmt.Errorf("openai summarize: %w", &APIError{StatusCode: 503}), want: "status"},
		{err: fmt.Errorf("sending request: %w", context.DeadlineExceeded), want: "timeout"},
		{err: context.Canceled, want: "canceled"},
		{err: errors.New("dial tcp: connection refused"), want: "network"},
	}

	for _, tt := range tests {
		if got := FailureCategory(tt.err); got != tt.want {
			t.Errorf("FailureCategory(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
