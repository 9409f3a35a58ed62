package postline

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SiteConfig holds all configuration for a postline site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Blog")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	Addr       string `mapstructure:"addr"`        // Listen address (default ":3000")
	ContentDir string `mapstructure:"content_dir"` // Markdown posts (default "content")
	MediaDir   string `mapstructure:"media_dir"`   // Post images (default "content/media")
	IndexPath  string `mapstructure:"index_path"`  // SQLite index (default ":memory:")

	SessionSecret string `mapstructure:"session_secret"` // Reader cookie secret; random per process when empty
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL  time.Duration `mapstructure:"post_cache_ttl"`  // Post cache TTL (default 5min)
	ReaderTTL     time.Duration `mapstructure:"reader_ttl"`      // Idle TOC tracker lifetime (default 30min)
	EventLimit    int           `mapstructure:"event_limit"`     // Visibility batches per window and IP (default 120)
	EventWindow   time.Duration `mapstructure:"event_window"`    // Rate limit window (default 1min)
	MediaMaxWidth int           `mapstructure:"media_max_width"` // Downscale images wider than this (default 800)
	LogLevel      string        `mapstructure:"log_level"`       // logrus level (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.MediaDir == "" {
		c.MediaDir = c.ContentDir + "/media"
	}
	if c.IndexPath == "" {
		c.IndexPath = ":memory:"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ReaderTTL == 0 {
		c.ReaderTTL = 30 * time.Minute
	}
	if c.EventLimit == 0 {
		c.EventLimit = 120
	}
	if c.EventWindow == 0 {
		c.EventWindow = time.Minute
	}
	if c.MediaMaxWidth == 0 {
		c.MediaMaxWidth = 800
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logrus logger.
func WithLogger(log *logrus.Entry) Option {
	return func(a *App) {
		a.Log = log
	}
}
