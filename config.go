package quillkit

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// SiteConfig holds all configuration for a quillkit site.
type SiteConfig struct {
	Name        string `toml:"name"`        // Site name (default "Blog")
	URL         string `toml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `toml:"description"` // Site description for RSS and meta tags
	Author      string `toml:"author"`      // Author name for JSON-LD
	Locale      string `toml:"locale"`      // Default UI locale (default "en")

	Addr         string `toml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `toml:"database_path"` // SQLite path (default "data/blog.db")
	ContentDir   string `toml:"content_dir"`   // Markdown import directory (default "content")

	// Timezone is the IANA zone every pubDatetime is written in. It is
	// site-wide, never per-post. ScheduledPostMargin pulls the effective
	// publish instant backward so a post can surface slightly before its
	// nominal time, absorbing build and cache latency. DevMode shows every
	// non-draft post immediately, schedule or not.
	Timezone            string        `toml:"timezone"`
	ScheduledPostMargin time.Duration `toml:"-"` // in TOML: scheduled_post_margin = "15m"
	DevMode             bool          `toml:"dev_mode"`

	AdminPassword string `toml:"-"` // Required: admin login password
	SessionSecret string `toml:"-"` // Required: session encryption secret
	CookieSecure  bool   `toml:"cookie_secure"`

	PostCacheTTL time.Duration `toml:"-"` // in TOML: post_cache_ttl = "5m" (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.ScheduledPostMargin == 0 {
		c.ScheduledPostMargin = 15 * time.Minute
	}
	if c.ScheduledPostMargin < 0 {
		c.ScheduledPostMargin = 0
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	// An unknown zone is not fatal; the resolver degrades to UTC per post
	// anyway, but normalizing here keeps the config honest.
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		c.Timezone = "UTC"
	}
}

// LoadConfig assembles a SiteConfig from three layers: a .env file if one
// exists, an optional TOML file at path (skipped when path is empty or the
// file is absent), and finally environment variables, which win.
func LoadConfig(path string) (SiteConfig, error) {
	_ = godotenv.Load() // a missing .env is the normal case

	var cfg SiteConfig
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("quillkit: parse %s: %w", path, err)
			}
			// Durations ride in TOML as strings ("15m", "1h30m").
			var durs struct {
				ScheduledPostMargin string `toml:"scheduled_post_margin"`
				PostCacheTTL        string `toml:"post_cache_ttl"`
			}
			if _, err := toml.DecodeFile(path, &durs); err != nil {
				return SiteConfig{}, fmt.Errorf("quillkit: parse %s: %w", path, err)
			}
			if durs.ScheduledPostMargin != "" {
				d, err := time.ParseDuration(durs.ScheduledPostMargin)
				if err != nil {
					return SiteConfig{}, fmt.Errorf("quillkit: scheduled_post_margin: %w", err)
				}
				cfg.ScheduledPostMargin = d
			}
			if durs.PostCacheTTL != "" {
				d, err := time.ParseDuration(durs.PostCacheTTL)
				if err != nil {
					return SiteConfig{}, fmt.Errorf("quillkit: post_cache_ttl: %w", err)
				}
				cfg.PostCacheTTL = d
			}
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	setString(&c.Name, "SITE_NAME")
	setString(&c.URL, "SITE_URL")
	setString(&c.Description, "SITE_DESCRIPTION")
	setString(&c.Author, "SITE_AUTHOR")
	setString(&c.Locale, "SITE_LOCALE")
	setString(&c.Addr, "ADDR")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.ContentDir, "CONTENT_DIR")
	setString(&c.Timezone, "SITE_TIMEZONE")
	setString(&c.AdminPassword, "ADMIN_PASSWORD")
	setString(&c.SessionSecret, "SESSION_SECRET")
	setBool(&c.CookieSecure, "COOKIE_SECURE")
	setBool(&c.DevMode, "DEV_MODE")
	setDuration(&c.ScheduledPostMargin, "SCHEDULED_POST_MARGIN")
	setDuration(&c.PostCacheTTL, "POST_CACHE_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
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

// WithClock overrides the clock used for publication filtering. Tests use
// this to pin "now"; production code never should.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
