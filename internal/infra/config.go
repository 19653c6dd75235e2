package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DataDir          string
	HistoryBackend   string
	MagicAPIKey      string
	UploadURL        string
	RunURL           string
	StatusURL        string
	PollInterval     time.Duration
	PollMaxTicks     int
	RequestTimeout   time.Duration
	MaxUploadBytes   int64
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

const (
	HistoryBackendFile   = "file"
	HistoryBackendSQLite = "sqlite"
)

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		HistoryBackend:   strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendFile)),
		MagicAPIKey:      strings.TrimSpace(os.Getenv("MAGIC_API_KEY")),
		UploadURL:        strings.TrimSpace(os.Getenv("MAGICAPI_UPLOAD_URL")),
		RunURL:           strings.TrimSpace(os.Getenv("MAGICAPI_RUN_URL")),
		StatusURL:        strings.TrimSpace(os.Getenv("MAGICAPI_STATUS_URL")),
		PollInterval:     getEnvDuration("POLL_INTERVAL", 15*time.Second),
		PollMaxTicks:     getEnvInt("POLL_MAX_TICKS", 40),
		RequestTimeout:   time.Second * time.Duration(getEnvInt("MAGICAPI_TIMEOUT_SECONDS", 60)),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.HistoryBackend {
	case HistoryBackendFile, HistoryBackendSQLite:
	default:
		return nil, fmt.Errorf("HISTORY_BACKEND must be %q or %q, got %q", HistoryBackendFile, HistoryBackendSQLite, cfg.HistoryBackend)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if cfg.PollMaxTicks <= 0 {
		return nil, fmt.Errorf("POLL_MAX_TICKS must be positive")
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
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15s") or bare seconds ("15").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
