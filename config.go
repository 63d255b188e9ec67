package labblog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"

	"github.com/jugwang/labblog/markdown"
)

// Configuration validation errors.
var (
	ErrMissingContentDir = errors.New("content_dir is required")
	ErrInvalidLogLevel   = errors.New("log_level must be one of: debug, info, warn, error, off")
	ErrInvalidTheme      = errors.New("default_theme must be light or dark")
	ErrUnknownExtension  = errors.New("markdown.extensions contains an unknown extension")
)

// DefaultConfigFile is read by LoadConfig when no path is given.
const DefaultConfigFile = "labblog.yaml"

// SiteConfig holds all configuration for a labblog site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD
	Language    string `yaml:"language"`    // html lang (default "en")

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Post directory (default "contents/__posts")

	SessionSecret string `yaml:"session_secret"` // Signs the preferences cookie; random when empty
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS
	DefaultTheme  string `yaml:"default_theme"`  // "light" (default) or "dark"

	LogLevel    string `yaml:"log_level"`    // debug, info (default), warn, error, off
	RenderCache bool   `yaml:"render_cache"` // Memoize rendered posts until their file changes
	// RateLimit caps JSON API and theme requests per client IP per minute.
	// Zero means the default of 120; negative disables the limit.
	RateLimit int `yaml:"rate_limit"`

	Markdown MarkdownConfig `yaml:"markdown"`
}

// MarkdownConfig controls post rendering.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HeadingIDs bool     `yaml:"heading_ids"`
	HardWraps  bool     `yaml:"hard_wraps"`
	// TrustedContent disables sanitizing. Only for sites where every post
	// is written by the owner.
	TrustedContent bool `yaml:"trusted_content"`
	// InputOrder lists posts in directory order instead of newest first.
	InputOrder bool `yaml:"input_order"`
}

func (m MarkdownConfig) options() markdown.Options {
	return markdown.Options{
		Extensions: m.Extensions,
		HeadingIDs: m.HeadingIDs,
		HardWraps:  m.HardWraps,
		Trusted:    m.TrustedContent,
	}
}

// LoadConfig reads path (DefaultConfigFile when empty), applies environment
// overrides and defaults, and validates the result. A missing default file is
// not an error; a missing explicit file is.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	str("SITE_NAME", &c.Name)
	str("SITE_URL", &c.URL)
	str("SITE_DESCRIPTION", &c.Description)
	str("SITE_AUTHOR", &c.Author)
	str("SITE_LANGUAGE", &c.Language)
	str("LABBLOG_ADDR", &c.Addr)
	str("LABBLOG_CONTENT_DIR", &c.ContentDir)
	str("SESSION_SECRET", &c.SessionSecret)
	boolean("COOKIE_SECURE", &c.CookieSecure)
	str("LABBLOG_DEFAULT_THEME", &c.DefaultTheme)
	str("LABBLOG_LOG_LEVEL", &c.LogLevel)
	boolean("LABBLOG_RENDER_CACHE", &c.RenderCache)
	if v := strings.TrimSpace(getenv("LABBLOG_RATE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit = n
		}
	}
	boolean("LABBLOG_TRUSTED_CONTENT", &c.Markdown.TrustedContent)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "contents/__posts"
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = string(ThemeLight)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 120
	}
}

// Validate checks the configuration after defaults are applied.
func (c SiteConfig) Validate() error {
	if strings.TrimSpace(c.ContentDir) == "" {
		return ErrMissingContentDir
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return ErrInvalidLogLevel
	}
	if _, ok := ParseTheme(c.DefaultTheme); !ok {
		return ErrInvalidTheme
	}
	for _, ext := range c.Markdown.Extensions {
		if !markdown.KnownExtension(ext) {
			return fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
		}
	}
	return nil
}

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func (c SiteConfig) logLevel() log.Lvl {
	if lvl, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return log.INFO
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

// WithStaticDir serves a directory of user-owned assets under /static.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithViews replaces the default page components. Nil fields keep the
// defaults.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v.withDefaults()
	}
}
