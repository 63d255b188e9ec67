package labblog

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jugwang/labblog/content"
	"github.com/jugwang/labblog/views"
)

// page builds the per-request layout data.
func (a *App) page(c echo.Context, title string) views.Page {
	return views.Page{
		Site: views.Site{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
			Author:      a.Config.Author,
			Language:    a.Config.Language,
		},
		Title:     title,
		URL:       views.BuildURL(a.Config.URL, c.Request().URL.Path),
		Theme:     string(a.CurrentTheme(c)),
		CSRFToken: CsrfToken(c),
		Path:      c.Request().URL.Path,
	}
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Library.List()
	if err != nil {
		return err
	}
	p := a.page(c, "")
	p.URL = views.BuildURL(a.Config.URL)
	return Render(c, a.Views.Home(p, posts))
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.Library.List()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Posts(a.page(c, "Posts"), posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Library.Get(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "")))
		}
		return err
	}
	p := a.page(c, post.Title())
	p.Description = post.Metadata.Summary()
	p.OGType = "article"
	p.URL = views.PostURL(p.Site, post.Slug)
	return Render(c, a.Views.Post(p, post))
}

func (a *App) handleAPIPosts(c echo.Context) error {
	posts, err := a.Library.Summaries()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleAPIPost(c echo.Context) error {
	detail, err := a.Library.Detail(c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (a *App) handleThemeToggle(c echo.Context) error {
	next := a.CurrentTheme(c).Toggle()
	if err := a.saveTheme(c, next); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, returnPath(c))
}

// returnPath picks where to send the visitor after a toggle: the form's
// return field, then the Referer path. Only same-site paths are accepted.
func returnPath(c echo.Context) string {
	candidates := []string{c.FormValue("return")}
	if ref, err := url.Parse(c.Request().Referer()); err == nil && ref.Host == c.Request().Host {
		candidates = append(candidates, ref.Path)
	}
	for _, p := range candidates {
		if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`) {
			return p
		}
	}
	return "/"
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Library.List()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Library.List()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, content.ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "")))
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
