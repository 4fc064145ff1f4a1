// Package main is the entrypoint for the Supakit API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/cache"
	"github.com/supakit/supakit/internal/config"
	"github.com/supakit/supakit/internal/handler"
	"github.com/supakit/supakit/internal/metrics"
	"github.com/supakit/supakit/internal/middleware"
	"github.com/supakit/supakit/internal/repository"
	"github.com/supakit/supakit/internal/server"
	"github.com/supakit/supakit/internal/service"
	"github.com/supakit/supakit/internal/supabase"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the hosted backend client. The handle is created once
	// here and injected everywhere; it is the only connection this
	// process holds to durable state.
	baas, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTimeout)
	if err != nil {
		logger.Error("failed to create supabase client",
			slog.String("error", err.Error()),
			slog.String("supabase_url", redactURL(cfg.SupabaseURL)),
		)
		os.Exit(1)
	}
	defer baas.Close()

	if err := baas.Ping(ctx); err != nil {
		logger.Warn("supabase not reachable at startup",
			slog.String("error", sanitizeError(err, cfg.SupabaseAnonKey)),
		)
	} else {
		logger.Info("connected to supabase")
	}

	// Initialize rate-limiter state
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	itemRepo := repository.NewItemRepository(baas)
	itemService := service.NewItemService(itemRepo, metricsRecorder)
	resolver := auth.NewResolver(baas)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(baas, cacheClient)
	authHandler := handler.NewAuthHandler(baas, logger, metricsRecorder)
	itemHandler := handler.NewItemHandler(itemService, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, itemHandler, metricsHandler, resolver, cacheClient, metricsRecorder, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"supabase_url", redactURL(cfg.SupabaseURL),
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	itemHandler *handler.ItemHandler,
	metricsHandler *handler.MetricsHandler,
	resolver *auth.Resolver,
	cacheClient *cache.Cache,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(chimiddleware.Compress(5, "application/json"))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Resolver: resolver,
		Metrics:  recorder,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:      logger,
		Cache:       cacheClient,
		APIEnabled:  cfg.RateLimitAPIEnabled,
		APIPerMin:   cfg.RateLimitAPIPerMin,
		APIBurst:    cfg.RateLimitAPIBurst,
		AuthEnabled: cfg.RateLimitAuthEnabled,
		AuthRPS:     cfg.RateLimitAuthRPS,
		AuthBurst:   cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Token exchange is public but IP rate limited
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/token", authHandler.Token)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Everything else requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitAPI(rateLimitCfg))

			r.Get("/users/me", authHandler.Me)

			r.Route("/items", func(r chi.Router) {
				r.Post("/", itemHandler.Create)
				r.Get("/", itemHandler.List)
				r.Get("/{id}", itemHandler.Get)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/items", itemHandler.ListAll)
				r.Get("/metrics", metricsHandler.Metrics)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL hides credentials embedded in a URL before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError strips secrets from an error message before logging.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, "[redacted]")
	}

	return msg
}
