package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/apiclient"
	"github.com/pageza/recipe-finder/internal/database"
	"github.com/pageza/recipe-finder/internal/frontend"
	"github.com/pageza/recipe-finder/internal/middleware"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
	"github.com/pageza/recipe-finder/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators a Server routes requests to
type Deps struct {
	Recipes  service.IRecipeService
	Limiter  middleware.Limiter
	Frontend frontend.RecipeAPI
	Redis    *redis.Client
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	logger *zerolog.Logger
	redis  *redis.Client
}

// New wires the production dependencies. Without a reachable Redis server
// rate limiting falls back to an in-process limiter.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	upstream := spoonacular.NewClient(cfg, logger)
	recipes := service.NewRecipeService(upstream, cfg.PageSize, logger)

	limitCfg := middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimitRequests,
		KeyPrefix: "rate_limit:api",
	}
	var limiter middleware.Limiter
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, rate limiting in process")
		} else {
			redisClient = client
			limiter = middleware.NewRateLimiter(client, limitCfg)
		}
	}
	if limiter == nil {
		limiter = middleware.NewLocalRateLimiter(limitCfg)
	}

	// Upstream retries happen behind the API, so the front end waits for all of them.
	frontTimeout := cfg.UpstreamTimeout*time.Duration(cfg.UpstreamMaxRetries+1) + 5*time.Second
	front := apiclient.New(cfg.SelfURL(), frontTimeout, logger)

	return NewServer(cfg, logger, Deps{
		Recipes:  recipes,
		Limiter:  limiter,
		Frontend: front,
		Redis:    redisClient,
	})
}

// NewServer builds the router around deps
func NewServer(cfg *config.Config, logger *zerolog.Logger, deps Deps) (*Server, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	var apiHandlers []gin.HandlerFunc
	if deps.Limiter != nil {
		apiHandlers = append(apiHandlers, middleware.RateLimitMiddleware(deps.Limiter, logger))
	}
	api.RegisterRoutes(router, deps.Recipes, logger, apiHandlers...)

	pages, err := web.NewHandler(deps.Frontend, cfg.PageSize, time.Now(), logger)
	if err != nil {
		return nil, err
	}
	if err := pages.RegisterRoutes(router); err != nil {
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		redis:  deps.Redis,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.http.Addr).Str("env", string(s.cfg.Environment)).Msg("Starting server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops accepting requests, waits for in-flight ones and closes Redis
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.redis = nil
	}
	return err
}
