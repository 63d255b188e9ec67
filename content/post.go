package content

import (
	"fmt"
	"strings"
	"time"
)

// PostMetadata is the front matter of a post. Keys are author supplied and
// not validated; accessors return zero values for missing or mistyped keys.
type PostMetadata map[string]any

// String returns the value of key as a string. Non-string scalars are
// formatted; nested values yield "".
func (m PostMetadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val)
	case time.Time:
		return formatTime(val)
	default:
		return ""
	}
}

// Title returns the "title" key.
func (m PostMetadata) Title() string { return m.String("title") }

// Date returns the "date" key as written by the author.
func (m PostMetadata) Date() string { return m.String("date") }

// Summary returns "summary", falling back to "description".
func (m PostMetadata) Summary() string {
	if s := m.String("summary"); s != "" {
		return s
	}
	return m.String("description")
}

// Time parses the "date" key. The second result is false when the key is
// missing or in no known layout.
func (m PostMetadata) Time() (time.Time, bool) {
	return ParseDate(m.Date())
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// ParseDate parses s with the date layouts accepted in front matter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// PostRecord is one rendered post. ContentHTML is safe to embed as-is.
type PostRecord struct {
	Slug        string       `json:"slug"`
	Metadata    PostMetadata `json:"metadata"`
	ContentHTML string       `json:"contentHtml"`
}

// Title returns the post title, or the slug when the post has none.
func (p PostRecord) Title() string {
	if t := p.Metadata.Title(); t != "" {
		return t
	}
	return p.Slug
}

// Date returns the post date as written.
func (p PostRecord) Date() string { return p.Metadata.Date() }

// Link returns the site-relative URL of the post page.
func (p PostRecord) Link() string { return "/post/" + p.Slug + "/" }

// PostSummary is the listing shape served to clients.
type PostSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// PostDetail is the detail shape served to clients.
type PostDetail struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Summary returns the listing shape of p.
func (p PostRecord) Summary() PostSummary {
	return PostSummary{Slug: p.Slug, Title: p.Metadata.Title(), Date: p.Date()}
}

// Detail returns the detail shape of p.
func (p PostRecord) Detail() PostDetail {
	return PostDetail{Title: p.Metadata.Title(), Date: p.Date(), Content: p.ContentHTML}
}

// RawEntry is a post file as read from the store.
type RawEntry struct {
	Slug string
	Raw  string
}
