package labblog

import (
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Theme is the colour scheme a visitor has chosen.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	preferencesSession = "preferences"
	themeKey           = "theme"
)

// ParseTheme parses s case-insensitively.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// CurrentTheme returns the visitor's stored theme, or the site default.
func (a *App) CurrentTheme(c echo.Context) Theme {
	def, ok := ParseTheme(a.Config.DefaultTheme)
	if !ok {
		def = ThemeLight
	}
	sess, err := session.Get(preferencesSession, c)
	if err != nil {
		return def
	}
	raw, _ := sess.Values[themeKey].(string)
	if t, ok := ParseTheme(raw); ok {
		return t
	}
	return def
}

func (a *App) saveTheme(c echo.Context, t Theme) error {
	sess, err := session.Get(preferencesSession, c)
	if err != nil {
		return err
	}
	sess.Values[themeKey] = string(t)
	return sess.Save(c.Request(), c.Response())
}
