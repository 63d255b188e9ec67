package labblog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/gommon/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labblog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
name: Lab
url: https://lab.example
content_dir: posts
default_theme: dark
render_cache: true
markdown:
  extensions: [gfm, footnote]
  heading_ids: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Lab" || cfg.URL != "https://lab.example" || cfg.ContentDir != "posts" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DefaultTheme != "dark" || !cfg.RenderCache || !cfg.Markdown.HeadingIDs {
		t.Errorf("cfg flags = %+v", cfg)
	}
	if len(cfg.Markdown.Extensions) != 2 {
		t.Errorf("extensions = %v", cfg.Markdown.Extensions)
	}
	if cfg.Addr != ":3000" || cfg.LogLevel != "info" || cfg.Language != "en" || cfg.RateLimit != 120 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "name: From File\ncontent_dir: posts\n")
	t.Setenv("SITE_NAME", "From Env")
	t.Setenv("LABBLOG_CONTENT_DIR", "/srv/posts")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("LABBLOG_TRUSTED_CONTENT", "1")
	t.Setenv("LABBLOG_RENDER_CACHE", "not-a-bool")
	t.Setenv("LABBLOG_RATE_LIMIT", "-1")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "From Env" || cfg.ContentDir != "/srv/posts" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if !cfg.CookieSecure || !cfg.Markdown.TrustedContent {
		t.Errorf("bool env not applied: %+v", cfg)
	}
	if cfg.RenderCache {
		t.Errorf("invalid bool env should be ignored")
	}
	if cfg.RateLimit != -1 {
		t.Errorf("RateLimit = %d, want -1", cfg.RateLimit)
	}
}

func TestLoadConfigDefaultFileOptional(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig without file failed: %v", err)
	}
	if cfg.ContentDir != "contents/__posts" || cfg.Name != "Blog" || cfg.DefaultTheme != "light" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit config file should fail")
	}
	if _, err := LoadConfig(writeConfig(t, "name: [broken")); err == nil {
		t.Error("invalid YAML should fail")
	}
}

func TestValidate(t *testing.T) {
	base := SiteConfig{}
	base.setDefaults()

	tests := []struct {
		name   string
		mutate func(*SiteConfig)
		want   error
	}{
		{"defaults", func(*SiteConfig) {}, nil},
		{"blank content dir", func(c *SiteConfig) { c.ContentDir = "  " }, ErrMissingContentDir},
		{"bad log level", func(c *SiteConfig) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"bad theme", func(c *SiteConfig) { c.DefaultTheme = "sepia" }, ErrInvalidTheme},
		{"unknown extension", func(c *SiteConfig) { c.Markdown.Extensions = []string{"mermaid"} }, ErrUnknownExtension},
		{"upper-case values", func(c *SiteConfig) { c.LogLevel = "DEBUG"; c.DefaultTheme = "Dark" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := SiteConfig{LogLevel: "warn"}
	if cfg.logLevel() != log.WARN {
		t.Errorf("logLevel = %v, want WARN", cfg.logLevel())
	}
	cfg.LogLevel = "bogus"
	if cfg.logLevel() != log.INFO {
		t.Errorf("logLevel fallback = %v, want INFO", cfg.logLevel())
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LABBLOG_TEST_VALUE", "set")
	if EnvOr("LABBLOG_TEST_VALUE", "fallback") != "set" {
		t.Error("EnvOr ignored set variable")
	}
	if EnvOr("LABBLOG_TEST_UNSET_VALUE", "fallback") != "fallback" {
		t.Error("EnvOr ignored fallback")
	}
}
