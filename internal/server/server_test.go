package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/apiclient"
	"github.com/pageza/recipe-finder/internal/middleware"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

func fakeSpoonacular(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/complexSearch", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":716429,"title":"Pasta with Garlic","readyInMinutes":45,"servings":2}],"totalResults":1}`))
	})
	mux.HandleFunc("/recipes/716429/information", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":716429,"title":"Pasta with Garlic","readyInMinutes":45,"servings":2,
			"analyzedInstructions":[{"name":"","steps":[{"number":1,"step":"Boil pasta"},{"number":2,"step":"Add garlic"}]}],
			"nutrition":{"nutrients":[{"name":"Calories","amount":543.36,"unit":"kcal"}]}}`))
	})
	mux.HandleFunc("/recipes/1/information", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// startServer serves the full stack on a real listener so the front end can
// call the JSON API over HTTP.
func startServer(t *testing.T, limit int) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := fakeSpoonacular(t)
	cfg := &config.Config{
		Environment:        config.Test,
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		SpoonacularBaseURL: upstream.URL,
		UpstreamTimeout:    5 * time.Second,
		PageSize:           10,
		TrustedProxies:     []string{"127.0.0.1", "::1"},
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}

	ts := httptest.NewUnstartedServer(nil)
	base := "http://" + ts.Listener.Addr().String()

	recipes := service.NewRecipeService(spoonacular.NewClient(cfg, nil), cfg.PageSize, nil)
	srv, err := NewServer(cfg, nil, Deps{
		Recipes:  recipes,
		Limiter:  middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Minute, Limit: limit}),
		Frontend: apiclient.New(base, 5*time.Second, nil),
	})
	require.NoError(t, err)

	ts.Config.Handler = srv.Handler()
	ts.Start()
	t.Cleanup(ts.Close)
	return base
}

func TestHealth(t *testing.T) {
	base := startServer(t, 5)

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSearchPageEndToEnd(t *testing.T) {
	base := startServer(t, 50)

	resp, err := http.Get(base + "/search?query=pasta")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Pasta with Garlic")
	assert.Contains(t, body, "Showing 1-1 of 1 results")
	assert.Contains(t, body, "1 / 1")
}

func TestDetailPageEndToEnd(t *testing.T) {
	base := startServer(t, 50)

	resp, err := http.Get(base + "/details/716429")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "<li>Boil pasta</li>")
	assert.Contains(t, body, "<li>Add garlic</li>")
	assert.Contains(t, body, "543kcal")
}

func TestDetailPageNotFound(t *testing.T) {
	base := startServer(t, 50)

	resp, err := http.Get(base + "/recipe/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Recipe not found"}`, readBody(t, resp))

	resp, err = http.Get(base + "/details/1")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Failed to load recipe details. Please try again.")
}

func TestJSONAPIRateLimited(t *testing.T) {
	base := startServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(base + "/recipes?query=pasta")
		require.NoError(t, err)
		_ = readBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(base + "/recipes?query=pasta")
	require.NoError(t, err)
	_ = readBody(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Pages are not limited themselves; their API calls are made on behalf
	// of the end user and share the user's quota.
	resp, err = http.Get(base + "/search?query=pasta")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Search failed. Please try again.")

	resp, err = http.Get(base + "/health")
	require.NoError(t, err)
	_ = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := NewServer(&config.Config{PageSize: 10}, nil, Deps{Recipes: panickingService{}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipe/3", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := NewServer(&config.Config{ServerHost: "127.0.0.1", ServerPort: "0", PageSize: 10}, nil, Deps{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
