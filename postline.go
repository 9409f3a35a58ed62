// Package postline is a server-rendered markdown blog built with Go, Echo, and templ.
// Posts are markdown files on disk; pages carry syntax-highlighted code, a
// light/dark theme and a table of contents that follows the reader's scroll
// position.
//
// Users provide their own templates via the ViewFuncs struct, and postline
// handles content loading, handlers, middleware and TOC tracking.
package postline

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/postline/toc"
)

// HomePage is everything the listing template needs.
type HomePage struct {
	Posts     []BlogPost
	ActiveTag string
	Tags      []string
	Dark      bool
	CSRF      string
	SiteURL   string
}

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home        func(page HomePage) templ.Component
	HomePartial func(page HomePage) templ.Component
	Post        func(page PostPage) templ.Component
	PostPartial func(page PostPage) templ.Component
	TOC         func(slug string, headings []toc.Heading, active string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central postline application. It wires together the store,
// caches, reader trackers, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *PostCache
	Readers *Readers
	Media   *MediaCache
	Views   ViewFuncs
	Log     *logrus.Entry

	eventLimiter *RateLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new postline App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	a.Echo.HideBanner = true
	return a
}

// Setup loads the content index and registers middleware and routes without
// starting the listener.
func (a *App) Setup(ctx context.Context) error {
	if level, err := logrus.ParseLevel(a.Config.LogLevel); err == nil {
		a.Log.Logger.SetLevel(level)
	} else {
		a.Log.WithError(err).Warn("unknown log level, keeping current")
	}
	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = randomSecret()
		a.Log.Warn("session_secret not set; reader sessions will not survive a restart")
	}

	store, err := NewStore(a.Config.IndexPath)
	if err != nil {
		return err
	}
	a.Store = store
	n, err := a.Store.Sync(ctx, a.Config.ContentDir)
	if err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{"posts": n, "dir": a.Config.ContentDir}).Info("content indexed")

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Readers = NewReaders(a.Config.ReaderTTL, a.Log.WithField("component", "readers"))
	a.Media = NewMediaCache(a.Config.MediaDir, a.Config.MediaMaxWidth)
	a.eventLimiter = NewRateLimiter(a.Config.EventLimit, a.Config.EventWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.Log.WithField("addr", a.Config.Addr).Info("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("postline: serve: %w", err)
	}
	return nil
}

// Reload re-reads the content directory and drops cached pages.
func (a *App) Reload(ctx context.Context) (int, error) {
	n, err := a.Store.Sync(ctx, a.Config.ContentDir)
	if err != nil {
		return 0, err
	}
	a.Cache.Invalidate()
	return n, nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (toc.js) are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/toc.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/media/:name", a.handleMedia)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/blog/:slug/toc/", a.handleTOC)
	e.POST("/blog/:slug/visibility/", a.handleVisibility)
	e.POST("/theme/", a.handleTheme)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Readers != nil {
		a.Readers.Close()
	}
	if a.eventLimiter != nil {
		a.eventLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
