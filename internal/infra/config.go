package infra

import (
	"os"
	"strconv"
	"strings"
	"time"

	"productshot/internal/domain"
)

// Config represents application configuration loaded from environment variables.
// Upstream credentials are optional at start-up; handlers report them as
// missing per request.
type Config struct {
	AppEnv           string
	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	UpstreamTimeout  time.Duration
	MaxUploadBytes   int64
	CORSOrigins      []string

	BFLAPIKey       string
	BFLBaseURL      string
	BFLModelPath    string
	BFLPollInterval time.Duration
	BFLPollTimeout  time.Duration

	SprinklrBearerToken string
	SprinklrAPIKey      string
	SprinklrEndpoint    string
	SprinklrClientID    string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 150)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		UpstreamTimeout:  time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60)),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		CORSOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		BFLAPIKey:       strings.TrimSpace(os.Getenv("BFL_API_KEY")),
		BFLBaseURL:      getEnv("BFL_BASE_URL", "https://api.us2.bfl.ai"),
		BFLModelPath:    getEnv("BFL_MODEL_PATH", "/v1/flux-2-pro"),
		BFLPollInterval: time.Millisecond * time.Duration(getEnvInt("BFL_POLL_INTERVAL_MS", 1200)),
		BFLPollTimeout:  time.Millisecond * time.Duration(getEnvInt("BFL_POLL_TIMEOUT_MS", 120000)),

		SprinklrBearerToken: strings.TrimSpace(os.Getenv("SPRINKLR_BEARER_TOKEN")),
		SprinklrAPIKey:      strings.TrimSpace(os.Getenv("SPRINKLR_API_KEY")),
		SprinklrEndpoint:    getEnv("SPRINKLR_ENDPOINT", "https://api3.sprinklr.com/prod3/api/v1/sam/search"),
		SprinklrClientID:    getEnv("SPRINKLR_CLIENT_ID", domain.DefaultDAMClient),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
