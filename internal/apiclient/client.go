// Package apiclient calls the recipe JSON API on behalf of the front end
// controllers.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/types"
)

const maxBodyBytes = 10 << 20

// ErrNotFound is matched by a 404 StatusError
var ErrNotFound = errors.New("not found")

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Message)
}

// Is lets a 404 match ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// APIError is an error the API reported inside a 2xx response
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "API error: " + e.Message
}

type clientIPKey struct{}

// WithClientIP attaches the address of the end user to ctx. Requests made
// with the context forward it in X-Forwarded-For so the API rate limits the
// user rather than this process.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// Client calls the recipe JSON API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zerolog.Logger
}

// New creates a client for the API at baseURL
func New(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SearchRecipes calls GET /recipes with an encoded query string. An error
// the API reports in a 2xx body is left in the response for the caller.
func (c *Client) SearchRecipes(ctx context.Context, params string) (*types.SearchResponse, error) {
	var resp types.SearchResponse
	if err := c.getJSON(ctx, "/recipes?"+params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecipe calls GET /recipe/{id}
func (c *Client) GetRecipe(ctx context.Context, id string) (*types.Recipe, error) {
	var body json.RawMessage
	if err := c.getJSON(ctx, "/recipe/"+url.PathEscape(id), &body); err != nil {
		return nil, err
	}

	var reported types.ErrorResponse
	if err := json.Unmarshal(body, &reported); err == nil && reported.Error != "" {
		return nil, &APIError{Message: reported.Error}
	}

	var recipe types.Recipe
	if err := json.Unmarshal(body, &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return &recipe, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ip := clientIPFrom(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("API call")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var reported types.ErrorResponse
		_ = json.Unmarshal(body, &reported)
		return &StatusError{StatusCode: resp.StatusCode, Message: reported.Error}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
