package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/jugwang/labblog/content"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// PostURL returns the canonical URL of a post.
func PostURL(site Site, slug string) string {
	return BuildURL(site.URL, "post", slug)
}

// ThemeClass returns the class list for <html> for theme.
func ThemeClass(theme string) string {
	if theme == "dark" {
		return "theme-dark dark"
	}
	return "theme-light"
}

// ThemeToggleLabel returns the label of the toggle button, naming the theme
// the button switches to.
func ThemeToggleLabel(theme string) string {
	if theme == "dark" {
		return "Light mode"
	}
	return "Dark mode"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      BuildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(site Site, post content.PostRecord) string {
	postURL := PostURL(site, post.Slug)
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": post.Title(),
		"url":      postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if d := post.Date(); d != "" {
		data["datePublished"] = d
	}
	if s := post.Metadata.Summary(); s != "" {
		data["description"] = s
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
