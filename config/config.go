package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost string `env:"SERVER_HOST,default=0.0.0.0"`
	ServerPort string `env:"SERVER_PORT,default=8080"`

	// Spoonacular configuration
	APIKey             string        `env:"API_KEY"`
	SpoonacularBaseURL string        `env:"SPOONACULAR_BASE_URL,default=https://api.spoonacular.com"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT,default=10s"`
	UpstreamMaxRetries int           `env:"UPSTREAM_MAX_RETRIES,default=2"`

	// PageSize is shared by the backend (number of results requested
	// upstream) and the front end (pagination limit).
	PageSize int `env:"PAGE_SIZE,default=10"`

	// BackendURL is where the front end reaches the JSON API. Empty means
	// this process.
	BackendURL string `env:"BACKEND_URL"`

	// Redis configuration
	RedisURL      string `env:"REDIS_URL"`
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT,default=6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	// Rate limiting
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS,default=60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,default=1m"`

	// Lists accept comma or pipe separators.
	CORSAllowedOriginsStr string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	TrustedProxiesStr     string `env:"TRUSTED_PROXIES,default=127.0.0.1|::1"`
	CORSAllowedOrigins    []string
	TrustedProxies        []string

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// LoadConfig creates a new Config instance with values from the environment, an optional
// .env file and Docker secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{Environment: GetEnvironment()}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	switch cfg.Environment {
	case CI:
		// CI takes sensitive values from environment variables only
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", cfg.Environment)
	}

	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOriginsStr)
	cfg.TrustedProxies = splitList(cfg.TrustedProxiesStr)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSecrets fills sensitive values that were not set in the environment from Docker secrets
func loadSecrets(cfg *Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = readSecret("spoonacular_api_key")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// SelfURL returns the base URL the front end uses to reach the JSON API
func (c *Config) SelfURL() string {
	if c.BackendURL != "" {
		return strings.TrimRight(c.BackendURL, "/")
	}
	return "http://" + net.JoinHostPort("127.0.0.1", c.ServerPort)
}

// RedisEnabled reports whether a Redis server has been configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}
