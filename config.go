package charsheet

import (
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for a charsheet server.
type Config struct {
	Addr          string // Listen address (default ":3000")
	AssetLocation string // Directory or http(s) base URL; empty uses EmbeddedAssets
	SessionSecret string // Required: cookie session secret
	CookieSecure  bool   // Set true for HTTPS

	RedisURL        string        // Optional shared gallery cache, e.g. redis://localhost:6379/0
	GalleryCacheTTL time.Duration // Gallery cache TTL (default 24h)

	RateLimit  int           // Upload/export requests per window per IP (default 30)
	RateWindow time.Duration // Rate limit window (default 1min)

	ShutdownTimeout time.Duration // Graceful shutdown budget (default 10s)

	LogFile    string // Optional rotated JSON log file
	Production bool   // JSON console logs instead of development format
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.GalleryCacheTTL == 0 {
		c.GalleryCacheTTL = 24 * time.Hour
	}
	if c.RateLimit == 0 {
		c.RateLimit = 30
	}
	if c.RateWindow == 0 {
		c.RateWindow = time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithAssets overrides the asset source built from Config.AssetLocation.
func WithAssets(src AssetSource) Option {
	return func(a *App) {
		a.assets = src
	}
}

// WithPortraitCache overrides the gallery cache built from Config.RedisURL.
func WithPortraitCache(c PortraitCache) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithLogger replaces the logger built from Config.LogFile.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
