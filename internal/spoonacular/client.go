package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/config"
)

const maxBodyBytes = 10 << 20

// ErrNotFound is returned when Spoonacular has no recipe with the given id
var ErrNotFound = errors.New("recipe not found")

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spoonacular returned status %d: %s", e.StatusCode, e.Body)
}

// Is lets a 404 match ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// SearchQuery is a complexSearch request. Empty filters are not sent.
type SearchQuery struct {
	Query              string
	Diet               string
	IncludeIngredients string
	ExcludeIngredients string
	Offset             int
	Number             int
}

// SearchPage is the part of a complexSearch response the backend passes on.
// Results are kept verbatim.
type SearchPage struct {
	Results      []json.RawMessage `json:"results"`
	TotalResults int               `json:"totalResults"`
}

// Client talks to the Spoonacular recipe API
type Client struct {
	apiKey     string
	baseURL    string
	maxRetries int
	client     *http.Client
	logger     *zerolog.Logger
}

// NewClient creates a client from the application configuration
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.SpoonacularBaseURL, "/"),
		maxRetries: cfg.UpstreamMaxRetries,
		client: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		logger: logger,
	}
}

// ComplexSearch searches recipes with full recipe information attached
func (c *Client) ComplexSearch(ctx context.Context, q SearchQuery) (*SearchPage, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("addRecipeInformation", "true")
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.Number > 0 {
		params.Set("number", strconv.Itoa(q.Number))
	}
	for key, value := range map[string]string{
		"query":              q.Query,
		"diet":               q.Diet,
		"includeIngredients": q.IncludeIngredients,
		"excludeIngredients": q.ExcludeIngredients,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}

	body, err := c.get(ctx, "/recipes/complexSearch", params)
	if err != nil {
		return nil, fmt.Errorf("complex search: %w", err)
	}

	var page SearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if page.Results == nil {
		page.Results = []json.RawMessage{}
	}
	return &page, nil
}

// Information fetches one recipe including nutrition. The body is returned
// verbatim.
func (c *Client) Information(ctx context.Context, id int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("includeNutrition", "true")

	body, err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), params)
	if err != nil {
		return nil, fmt.Errorf("recipe information %d: %w", id, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("recipe information %d: invalid JSON body", id)
	}
	return json.RawMessage(body), nil
}

// get performs a GET, retrying network errors and 5xx responses
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retry, err := c.do(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
		c.logger.Warn().Err(err).Str("path", path).Int("attempt", attempt+1).Msg("Spoonacular request failed, retrying")
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, resp.StatusCode >= 500, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, false, nil
}
