package labblog

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jugwang/labblog/content"
	"github.com/jugwang/labblog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) buildSitemap(posts []content.PostRecord) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
		{Loc: views.BuildURL(base, "posts")},
	}
	for _, p := range posts {
		lastMod := ""
		if t, ok := p.Metadata.Time(); ok {
			lastMod = t.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "post", p.Slug),
			LastMod: lastMod,
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []content.PostRecord) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(posts))
}
