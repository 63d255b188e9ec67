package views

// Site holds site-wide settings. Every page passes it to the templates so
// nothing is hardcoded.
type Site struct {
	Name        string // SITE_NAME  (default "Blog")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	Language    string // html lang attribute (default "en")
}

// Page carries per-request data into the layout.
type Page struct {
	Site        Site
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Theme       string // "light" or "dark"
	CSRFToken   string
	Path        string // request path, used to return after a theme toggle
}
