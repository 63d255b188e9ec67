// Package labblog is a personal blog front end built with Go, Echo, and templ.
// Posts are Markdown files with front matter in a content directory; labblog
// renders them into a home page, a post index, post pages, a JSON API, RSS
// and a sitemap, and remembers each visitor's light/dark theme.
//
// Sites can replace any page component through ViewFuncs.
package labblog

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/jugwang/labblog/content"
	"github.com/jugwang/labblog/markdown"
	"github.com/jugwang/labblog/views"
)

// ViewFuncs holds the page components the handlers render. Sites can supply
// their own; nil fields fall back to the views package.
type ViewFuncs struct {
	Home        func(page views.Page, posts []content.PostRecord) templ.Component
	Posts       func(page views.Page, posts []content.PostRecord) templ.Component
	Post        func(page views.Page, post content.PostRecord) templ.Component
	NotFound    func(page views.Page) templ.Component
	ServerError func(page views.Page) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Posts:       views.Posts,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	def := DefaultViews()
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Posts == nil {
		v.Posts = def.Posts
	}
	if v.Post == nil {
		v.Post = def.Post
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = def.ServerError
	}
	return v
}

// App is the central labblog application. It wires together the content
// library, handlers, middleware, and page components.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Library *content.Library
	Views   ViewFuncs

	limiter      *requestLimiter
	customRoutes []func(*App)
	staticDir    string
	initialized  bool
}

// New creates an App for cfg. Call Init (or Start) before serving.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(cfg.logLevel())
	a.Library = NewLibrary(cfg)

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewLibrary builds the content library described by cfg.
func NewLibrary(cfg SiteConfig) *content.Library {
	order := content.OrderDate
	if cfg.Markdown.InputOrder {
		order = content.OrderInput
	}
	renderer := content.NewRenderer(markdown.New(cfg.Markdown.options()), order)
	var opts []content.LibraryOption
	if cfg.RenderCache {
		opts = append(opts, content.WithCache())
	}
	return content.NewLibrary(content.NewScanner(cfg.ContentDir), renderer, opts...)
}

// Init validates the configuration and installs middleware and routes.
// Calling it more than once is a no-op.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("labblog: %w", err)
	}
	if info, err := os.Stat(a.Config.ContentDir); err != nil || !info.IsDir() {
		// Not fatal: the directory may be mounted later, and every request
		// re-reads it.
		a.Echo.Logger.Warnf("content directory %q is not readable yet", a.Config.ContentDir)
	}

	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("labblog: generate session secret: %w", err)
		}
		a.Echo.Logger.Warn("SESSION_SECRET is not set; theme preferences reset on restart")
	}

	if a.Config.RateLimit > 0 {
		a.limiter = newRequestLimiter(a.Config.RateLimit, time.Minute)
	}

	a.setupMiddleware(secret)
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving %s from %s", a.Config.Addr, a.Config.ContentDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (style.css) are served under /public/.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))

	// Site-owned assets
	if a.staticDir != "" {
		e.Static("/static", a.staticDir)
	}

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/post/:slug/", a.handlePost)
	e.POST("/theme/", a.handleThemeToggle, rateLimit(a.limiter))

	// JSON API
	api := e.Group("/api", rateLimit(a.limiter))
	api.GET("/posts", a.handleAPIPosts)
	api.GET("/posts/:slug", a.handleAPIPost)

	// Feeds
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
