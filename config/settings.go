// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/richinex/tubegate/llm"
)

// Settings holds all application configuration.
type Settings struct {
	LLM     LLMConfig
	Server  ServerConfig
	OAuth   OAuthConfig
	YouTube YouTubeConfig
	Summary SummaryConfig
	Log     LogConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string
	Model       string
	MaxTokens   uint32
	Temperature float64
	// Disabled forces every AI feature onto its deterministic fallback.
	Disabled bool
}

// ServerConfig holds HTTP transport configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for Port.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// OAuthConfig holds the Google OAuth client registration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Configured reports whether the login flow can run.
func (c OAuthConfig) Configured() bool {
	return c.ClientID != "" && c.RedirectURI != ""
}

// YouTubeConfig holds platform client configuration.
type YouTubeConfig struct {
	Endpoint   string
	Timeout    time.Duration
	HistoryMax int
	LikedMax   int
	Region     string
}

// SummaryConfig holds activity digest configuration.
type SummaryConfig struct {
	TitleCap int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", llm.ModelOpenAIGPT41Mini, "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", llm.ModelAnthropicClaudeHaiku35, "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", llm.ModelDeepSeekChat, "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", llm.ModelGeminiFlash25, "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// Defaults.
const (
	DefaultProvider   = "openai"
	DefaultPort       = 10000
	DefaultRegion     = "IN"
	DefaultHistoryMax = 50
	DefaultLikedMax   = 50
	DefaultTitleCap   = 40
)

// New creates settings, loading values from environment variables.
// LLM_PROVIDER selects the provider (default openai).
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New() (Settings, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = DefaultProvider
	}
	return NewFor(provider)
}

// NewFor creates settings for the specified provider.
func NewFor(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 512)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.2)
	if err != nil {
		return Settings{}, err
	}
	if temperature < 0 || temperature > 2 {
		return Settings{}, fmt.Errorf("LLM_TEMPERATURE must be within [0, 2], got %v", temperature)
	}

	disabled, err := getEnvBool("LLM_DISABLED", false)
	if err != nil {
		return Settings{}, err
	}

	port, err := getEnvIntInRange("PORT", DefaultPort, 1, 65535)
	if err != nil {
		return Settings{}, err
	}

	shutdown, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Settings{}, err
	}

	ytTimeout, err := getEnvDuration("YOUTUBE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Settings{}, err
	}

	historyMax, err := getEnvIntInRange("YOUTUBE_HISTORY_MAX", DefaultHistoryMax, 1, 50)
	if err != nil {
		return Settings{}, err
	}

	likedMax, err := getEnvIntInRange("YOUTUBE_LIKED_MAX", DefaultLikedMax, 1, 50)
	if err != nil {
		return Settings{}, err
	}

	titleCap, err := getEnvIntInRange("SUMMARY_TITLE_CAP", DefaultTitleCap, 20, 40)
	if err != nil {
		return Settings{}, err
	}

	region := strings.ToUpper(strings.TrimSpace(os.Getenv("YOUTUBE_REGION")))
	if region == "" {
		region = DefaultRegion
	}
	if len(region) != 2 {
		return Settings{}, fmt.Errorf("YOUTUBE_REGION must be a two-letter country code, got %q", region)
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	switch logFormat {
	case "":
		logFormat = "json"
	case "json", "console":
	default:
		return Settings{}, fmt.Errorf("LOG_FORMAT must be json or console, got %q", logFormat)
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Disabled:    disabled,
		},
		Server: ServerConfig{
			Port:            port,
			ShutdownTimeout: shutdown,
		},
		OAuth: OAuthConfig{
			ClientID:     os.Getenv("CLIENT_ID"),
			ClientSecret: os.Getenv("CLIENT_SECRET"),
			RedirectURI:  os.Getenv("REDIRECT_URI"),
		},
		YouTube: YouTubeConfig{
			Endpoint:   os.Getenv("YOUTUBE_API_ENDPOINT"),
			Timeout:    ytTimeout,
			HistoryMax: historyMax,
			LikedMax:   likedMax,
			Region:     region,
		},
		Summary: SummaryConfig{
			TitleCap: titleCap,
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: logFormat,
		},
	}, nil
}

// MustNew creates settings from the environment.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the supported provider names in sorted order.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvIntInRange(key string, defaultVal, lo, hi int) (int, error) {
	i, err := getEnvInt(key, defaultVal)
	if err != nil {
		return 0, err
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("%s must be within [%d, %d], got %d", key, lo, hi, i)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return d, nil
}
