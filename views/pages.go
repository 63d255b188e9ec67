// Package views holds the default page components. They are plain
// templ.Components so a site can swap any of them for its own.
package views

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/jugwang/labblog/content"
	"github.com/jugwang/labblog/markdown"
)

// htmlWriter keeps the first write error so page bodies read top to bottom.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the site chrome: head, header with navigation and
// theme toggle, and footer.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		lang := p.Site.Language
		if lang == "" {
			lang = "en"
		}
		title := p.Site.Name
		if p.Title != "" {
			title = p.Title + " | " + p.Site.Name
		}
		description := p.Description
		if description == "" {
			description = p.Site.Description
		}
		ogType := p.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(lang)
		h.raw(`" data-theme="`)
		h.text(p.Theme)
		h.raw(`" class="`)
		h.text(ThemeClass(p.Theme))
		h.raw(`"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		h.text(title)
		h.raw(`</title>`)
		if description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(description)
			h.raw(`"/>`)
		}
		if p.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.text(p.URL)
			h.raw(`"/><meta property="og:url" content="`)
			h.text(p.URL)
			h.raw(`"/>`)
		}
		h.raw(`<meta property="og:type" content="`)
		h.text(ogType)
		h.raw(`"/><meta property="og:title" content="`)
		h.text(title)
		h.raw(`"/><link rel="stylesheet" href="/public/style.css"/>`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(p.Site.Name)
		h.raw(`" href="/feed.xml"/></head><body><div class="page">`)

		h.raw(`<header class="site-header"><a class="brand" href="/">`)
		h.text(p.Site.Name)
		h.raw(`</a><nav><a href="/">Home</a><a href="/posts/">Posts</a></nav>`)
		h.raw(`<form class="theme-toggle" method="post" action="/theme/"><input type="hidden" name="_csrf" value="`)
		h.text(p.CSRFToken)
		h.raw(`"/><input type="hidden" name="return" value="`)
		h.text(p.Path)
		h.raw(`"/><button type="submit" aria-label="Toggle theme">`)
		h.text(ThemeToggleLabel(p.Theme))
		h.raw(`</button></form></header><main>`)

		h.component(ctx, body)

		h.raw(`</main><footer class="site-footer"><p>&copy; `)
		h.text(strconv.Itoa(time.Now().Year()))
		h.raw(` `)
		h.text(p.Site.Name)
		h.raw(`</p></footer></div></body></html>`)
		return h.err
	})
}

func postList(posts []content.PostRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(posts) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
			return h.err
		}
		h.raw(`<ul class="post-list">`)
		for _, post := range posts {
			h.raw(`<li class="post-item"><a href="/post/`)
			h.text(PathEscape(post.Slug))
			h.raw(`/"><h2>`)
			h.text(post.Title())
			h.raw(`</h2>`)
			if d := post.Date(); d != "" {
				h.raw(`<time datetime="`)
				h.text(d)
				h.raw(`">`)
				h.text(d)
				h.raw(`</time>`)
			}
			h.raw(`</a></li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

// Home renders the landing page: site introduction followed by every post.
func Home(p Page, posts []content.PostRecord) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="intro"><h1>`)
		h.text(p.Site.Name)
		h.raw(`</h1>`)
		if p.Site.Description != "" {
			h.raw(`<p>`)
			h.text(p.Site.Description)
			h.raw(`</p>`)
		}
		h.raw(`</section>`)
		h.component(ctx, postList(posts))
		h.raw(`<script type="application/ld+json">`)
		h.raw(WebsiteJsonLD(p.Site))
		h.raw(`</script>`)
		return h.err
	})
	return Layout(p, body)
}

// Posts renders the post index.
func Posts(p Page, posts []content.PostRecord) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Posts</h1>`)
		h.component(ctx, postList(posts))
		return h.err
	})
	return Layout(p, body)
}

// Post renders a single post. ContentHTML is written unescaped: it comes
// from the markdown engine. An empty page title takes the post's title.
func Post(p Page, post content.PostRecord) templ.Component {
	if p.Title == "" {
		p.Title = post.Title()
	}
	if p.OGType == "" {
		p.OGType = "article"
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<article class="post"><h1>`)
		h.text(post.Title())
		h.raw(`</h1>`)
		if d := post.Date(); d != "" {
			h.raw(`<time datetime="`)
			h.text(d)
			h.raw(`">`)
			h.text(d)
			h.raw(`</time>`)
		}
		h.raw(`<div class="prose">`)
		h.component(ctx, markdown.Component(post.ContentHTML))
		h.raw(`</div></article><script type="application/ld+json">`)
		h.raw(BlogPostingJsonLD(p.Site, post))
		h.raw(`</script>`)
		return h.err
	})
	return Layout(p, body)
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return message(p, "Not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return message(p, "Something went wrong", "Please try again in a moment.")
}

func message(p Page, heading, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="message"><h1>`)
		h.text(heading)
		h.raw(`</h1><p>`)
		h.text(text)
		h.raw(`</p><p><a href="/">Back home</a></p></section>`)
		return h.err
	})
	if p.Title == "" {
		p.Title = heading
	}
	return Layout(p, body)
}
