package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks every field and reports all problems at once
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.APIKey == "" {
		if cfg.Environment == CI {
			errs = append(errs, ValidationError{"API_KEY", "environment variable is required in CI environment"})
		} else {
			errs = append(errs, ValidationError{"API_KEY", "environment variable or spoonacular_api_key secret is required"})
		}
	}
	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must not be empty"})
	}
	if _, err := url.ParseRequestURI(cfg.SpoonacularBaseURL); err != nil {
		errs = append(errs, ValidationError{"SPOONACULAR_BASE_URL", "must be an absolute URL"})
	}
	if cfg.UpstreamTimeout <= 0 {
		errs = append(errs, ValidationError{"UPSTREAM_TIMEOUT", "must be positive"})
	}
	if cfg.UpstreamMaxRetries < 0 {
		errs = append(errs, ValidationError{"UPSTREAM_MAX_RETRIES", "must not be negative"})
	}
	if cfg.PageSize <= 0 {
		errs = append(errs, ValidationError{"PAGE_SIZE", "must be positive"})
	}
	if cfg.BackendURL != "" {
		if u, err := url.Parse(cfg.BackendURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{"BACKEND_URL", "must be an http(s) URL"})
		}
	}
	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_REQUESTS", "must be positive"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, ValidationError{"LOG_LEVEL", fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}

	if len(errs) == 0 {
		return nil
	}

	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
