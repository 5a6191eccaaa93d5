// Package pubadmin is a blog administration console built with Go, Echo,
// and templ. It serves the admin UI (login, dashboard, blog list and the
// blog create form) over a remote listing API, and can serve a local
// SQLite-backed implementation of that API for development.
package pubadmin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/listing"
	"github.com/eringen/pubadmin/notify"
)

// App is the admin console. It wires together the listing API client,
// the optional local store, sessions, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *slog.Logger
	API    *blogapi.Client
	Store  *Store      // nil unless Config.LocalAPI
	Cache  *BlogCache  // nil unless Config.LocalAPI

	loginLimiter *LoginLimiter
	pages        *pageRegistry
	customRoutes []func(*App)
	httpClient   *http.Client
	initialized  bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: slog.Default(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init validates the configuration and builds the store, API client,
// middleware and routes. Start calls it; tests call it directly and
// serve a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.Config.LocalAPI {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pubadmin: init store: %w", err)
		}
		a.Store = store
		a.Cache = NewBlogCache(store, a.Config.CacheTTL)
	}

	apiOpts := []blogapi.Option{blogapi.WithTimeout(a.Config.APITimeout)}
	if a.httpClient != nil {
		apiOpts = append(apiOpts, blogapi.WithHTTPClient(a.httpClient))
	}
	a.API = blogapi.NewClient(a.Config.APIEndpoint, apiOpts...)

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.pages = newPageRegistry(a.Config.SessionIdle, a.mountPage)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

func (a *App) mountPage(toasts notify.Notifier) *listing.Page {
	return listing.New(a.API, listing.Options{
		Logger:   a.Logger,
		Notifier: notify.Logged(a.Logger, toasts),
		PageSize: a.Config.PageSize,
		Quiet:    a.Config.SearchDelay,
	})
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("admin listening", "addr", a.Config.Addr, "api", a.Config.APIEndpoint, "local_api", a.Config.LocalAPI)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown stops the server, waiting for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("shutting down")
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	})

	if a.Config.LocalAPI {
		e.GET(localAPIPath, a.handleListBlogs)
	}

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	admin := e.Group("/admin", requireAdmin)
	admin.GET("/posts/", a.handlePosts)
	admin.GET("/posts/rows/:index/", a.handleRowView)
	admin.POST("/posts/rows/:index/:action/", a.handleRowAction)
	admin.POST("/posts/panel/close/", a.handlePanelClose)
	admin.GET("/posts/new/", a.handleNewPost)
	admin.POST("/posts/new/", a.handleCreatePost)
	admin.POST("/posts/new/tags/", a.handleTagField)
	for _, s := range sections {
		admin.GET(s.path, a.handleSection(s))
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.pages != nil {
		a.pages.closeAll()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or an error
// naming it when unset.
func MustEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("pubadmin: required environment variable %s is not set", key)
	}
	return v, nil
}
