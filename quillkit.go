// Package quillkit is a blog publishing engine built with Go, Echo, and templ.
// Posts carry a draft flag and a wall-clock publish datetime in the site's
// configured timezone; the engine resolves those to UTC instants and keeps
// scheduled posts out of listings, feeds, sitemaps, search, and preview cards
// until their moment arrives. It ships RSS, sitemap, JSON-LD, full-text
// search, localized UI strings, and generated social preview images out of
// the box.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// quillkit handles the handler logic, middleware, and database operations.
package quillkit

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillkit/quillkit/schedule"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates. Public views receive a
// Localizer bound to the request's resolved locale.
type ViewFuncs struct {
	Home             func(posts []BlogPost, activeTag string, tags []string, siteURL string, loc *Localizer) templ.Component
	HomePartial      func(posts []BlogPost, activeTag string, tags []string, siteURL string, loc *Localizer) templ.Component
	BlogSection      func(posts []BlogPost, activeTag string, tags []string, loc *Localizer) templ.Component
	Post             func(post BlogPost, posts []BlogPost, siteURL string, loc *Localizer) templ.Component
	PostPartial      func(post BlogPost, posts []BlogPost, siteURL string, loc *Localizer) templ.Component
	SearchResults    func(query string, posts []BlogPost, loc *Localizer) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []BlogPost, message string, csrfToken string) templ.Component
	AdminFormPartial func(post BlogPost, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component
	NotFound         func(loc *Localizer) templ.Component
	ServerError      func(loc *Localizer) templ.Component
}

// App is the central quillkit application. It wires together the store,
// cache, schedule evaluation, handlers, middleware, and user templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	I18n   *Translator

	log          zerolog.Logger
	loginLimiter *LoginLimiter
	og           *ogRenderer
	customRoutes []func(*App)
	staticDir    string
	localesDir   string
	now          func() time.Time
}

// New creates a new quillkit App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
		now:       time.Now,
		log:       zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// scheduleEnv snapshots the publication evaluation context. Built fresh per
// cache reload so "now" moves and config stays the single source of truth.
func (a *App) scheduleEnv() schedule.Env {
	return schedule.Env{
		DevMode:  a.Config.DevMode,
		Timezone: a.Config.Timezone,
		MarginMs: a.Config.ScheduledPostMargin.Milliseconds(),
		NowMs:    a.now().UnixMilli(),
	}
}

// Start initializes the database, cache, middleware, routes, and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("quillkit: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("quillkit: SessionSecret is required")
	}

	schedule.SetLogger(a.log)

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("quillkit: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL, a.scheduleEnv)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.og = newOGRenderer()

	translator, err := NewTranslator(a.Config.Locale, a.localesDir)
	if err != nil {
		return fmt.Errorf("quillkit: init i18n: %w", err)
	}
	a.I18n = translator

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.log.Info().
		Str("addr", a.Config.Addr).
		Str("timezone", a.Config.Timezone).
		Dur("margin", a.Config.ScheduledPostMargin).
		Bool("dev_mode", a.Config.DevMode).
		Msg("starting server")

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/search", a.handleSearch)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/blog/:slug/og.png", a.handleOGImage)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// WithLocalesDir sets a directory of TOML locale bundles that override the
// embedded defaults.
func WithLocalesDir(dir string) Option {
	return func(a *App) {
		a.localesDir = dir
	}
}

// WithLogger replaces the default console logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}
