package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every key New reads so host settings do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LLM_PROVIDER", "LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_DISABLED",
		"OPENAI_MODEL", "ANTHROPIC_MODEL", "DEEPSEEK_MODEL", "GEMINI_MODEL",
		"PORT", "SHUTDOWN_TIMEOUT", "CLIENT_ID", "CLIENT_SECRET", "REDIRECT_URI",
		"YOUTUBE_API_ENDPOINT", "YOUTUBE_TIMEOUT", "YOUTUBE_HISTORY_MAX", "YOUTUBE_LIKED_MAX",
		"YOUTUBE_REGION", "SUMMARY_TITLE_CAP", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestNewDefaults(t *testing.T) {
	clearEnv(t)

	s, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LLM.Provider != "openai" || s.LLM.Model != "gpt-4.1-mini" {
		t.Errorf("unexpected LLM defaults %+v", s.LLM)
	}
	if s.LLM.MaxTokens != 512 || s.LLM.Temperature != 0.2 || s.LLM.Disabled {
		t.Errorf("unexpected LLM tuning %+v", s.LLM)
	}
	if s.Server.Port != 10000 || s.Server.Addr() != ":10000" || s.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected server config %+v", s.Server)
	}
	if s.YouTube.Region != "IN" || s.YouTube.HistoryMax != 50 || s.YouTube.LikedMax != 50 {
		t.Errorf("unexpected youtube config %+v", s.YouTube)
	}
	if s.Summary.TitleCap != 40 {
		t.Errorf("TitleCap = %d, want 40", s.Summary.TitleCap)
	}
	if s.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", s.Log.Format)
	}
	if s.OAuth.Configured() {
		t.Error("OAuth should not be configured without CLIENT_ID")
	}
}

func TestNewFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_MODEL", "claude-custom")
	t.Setenv("LLM_DISABLED", "true")
	t.Setenv("PORT", "8080")
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("REDIRECT_URI", "http://localhost:8080/auth/callback")
	t.Setenv("YOUTUBE_REGION", "de")
	t.Setenv("SUMMARY_TITLE_CAP", "20")
	t.Setenv("LOG_FORMAT", "Console")

	s, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LLM.Provider != "anthropic" || s.LLM.Model != "claude-custom" || !s.LLM.Disabled {
		t.Errorf("unexpected LLM config %+v", s.LLM)
	}
	if s.Server.Port != 8080 || !s.OAuth.Configured() {
		t.Errorf("unexpected server/oauth config %+v %+v", s.Server, s.OAuth)
	}
	if s.YouTube.Region != "DE" || s.Summary.TitleCap != 20 || s.Log.Format != "console" {
		t.Errorf("unexpected config %+v %+v %+v", s.YouTube, s.Summary, s.Log)
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"LLM_PROVIDER", "unknown_provider"},
		{"LLM_MAX_TOKENS", "not-a-number"},
		{"LLM_TEMPERATURE", "3"},
		{"LLM_DISABLED", "maybe"},
		{"PORT", "70000"},
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"YOUTUBE_HISTORY_MAX", "0"},
		{"YOUTUBE_LIKED_MAX", "51"},
		{"YOUTUBE_REGION", "India"},
		{"SUMMARY_TITLE_CAP", "19"},
		{"SUMMARY_TITLE_CAP", "41"},
		{"LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := New()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
			if tt.key != "LLM_PROVIDER" && !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}

func TestNewForAlias(t *testing.T) {
	clearEnv(t)
	settings, err := NewFor("google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini' (normalized from 'google'), got %q", settings.LLM.Provider)
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	key, err := APIKeyFor("openai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")

	_, err := APIKeyFor("openai")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestAPIKeyForUnknownProvider(t *testing.T) {
	_, err := APIKeyFor("unknown")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestModelFor(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	model, err := ModelFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "gemini-2.5-flash" {
		t.Errorf("expected default gemini model, got %q", model)
	}
}

func TestMustNewPanics(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "unknown_provider")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew()
}

func TestSupportedProviders(t *testing.T) {
	got := strings.Join(SupportedProviders(), ",")
	if got != "anthropic,deepseek,gemini,openai" {
		t.Errorf("SupportedProviders() = %s", got)
	}
}
