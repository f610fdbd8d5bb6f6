// Package charsheet composes two-sided character sheets. A portrait is
// normalized to a fixed-size JPEG, substituted into the front page SVG
// template, and the selected pages are exported as a single SVG or as a
// ZIP archive holding both.
//
// The pipeline functions (Ingest, ComposePages, Export, Build) are pure.
// Session drives them for a single local user; App serves them over HTTP
// with Echo, keeping the portrait on the client and only the export
// selection in a cookie.
package charsheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App is the charsheet HTTP service. It wires the asset source, gallery
// cache, handlers and middleware.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Logger    *zap.Logger
	Templates Templates
	Gallery   *Gallery

	assets      AssetSource
	cache       PortraitCache
	limiter     *RateLimiter
	registry    *prometheus.Registry
	metrics     *metrics
	closers     []func() error
	initialized bool
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(cfg.LogFile, cfg.Production)
	}
	return a
}

// Init loads the page templates and sets up the gallery, middleware and
// routes. Start calls it; tests may call it directly and drive a.Echo.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("charsheet: SessionSecret is required")
	}

	if a.assets == nil {
		src, err := NewAssetSource(a.Config.AssetLocation)
		if err != nil {
			return fmt.Errorf("charsheet: init assets: %w", err)
		}
		a.assets = src
	}

	templates, err := LoadTemplates(ctx, a.assets, FrontTemplatePath, BackTemplatePath)
	if err != nil {
		return err
	}
	a.Templates = templates

	if a.cache == nil {
		if a.Config.RedisURL != "" {
			rc, err := NewRedisPortraitCache(a.Config.RedisURL, a.Config.GalleryCacheTTL)
			if err != nil {
				return fmt.Errorf("charsheet: init gallery cache: %w", err)
			}
			a.cache = rc
			a.closers = append(a.closers, rc.Close)
		} else {
			a.cache = NewMemoryPortraitCache(a.Config.GalleryCacheTTL)
		}
	}
	a.Gallery = NewGallery(a.assets, a.cache)
	a.Gallery.OnCacheError = func(op string, err error) {
		a.Logger.Warn("gallery cache", zap.String("op", op), zap.Error(err))
	}

	a.limiter = NewRateLimiter(a.Config.RateLimit, a.Config.RateWindow)
	a.registry = prometheus.NewRegistry()
	a.metrics = newMetrics(a.registry)

	a.setupMiddleware()
	a.setupRoutes()

	a.Logger.Info("templates loaded",
		zap.Int("front_bytes", len(templates.Front)),
		zap.Int("back_bytes", len(templates.Back)),
	)
	a.initialized = true
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// down gracefully within Config.ShutdownTimeout.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", zap.Error(err))
	}
	return <-serverErr
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: a.registry}))

	api := e.Group("/api")
	api.GET("/gallery", a.handleGallery)
	api.POST("/portrait", a.handleUploadPortrait)
	api.GET("/portrait/default", handleDefaultPortrait)
	api.GET("/portrait/gallery/:key", a.handleGalleryPortrait)
	api.GET("/selection", a.handleGetSelection)
	api.POST("/selection", a.handleSaveSelection)
	api.POST("/preview/:side", a.handlePreview)
	api.POST("/export", a.handleExport)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.limiter != nil {
		a.limiter.Stop()
	}
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
