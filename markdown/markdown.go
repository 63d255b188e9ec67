// Package markdown converts post bodies to HTML fragments with goldmark and
// sanitizes the result with bluemonday before it reaches a template.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Options controls how an Engine renders Markdown.
type Options struct {
	// Extensions lists goldmark extensions by name. Empty selects GFM and
	// footnotes.
	Extensions []string
	// HeadingIDs adds generated id attributes to headings.
	HeadingIDs bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
	// Trusted passes raw HTML through and skips sanitizing. Only for sites
	// where every post is written by the site owner.
	Trusted bool
}

// Engine renders Markdown to HTML. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New builds an Engine from opts.
func New(opts Options) *Engine {
	parserOptions := []parser.Option{}
	if opts.HeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	if opts.Trusted {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	e := &Engine{
		md: goldmark.New(
			goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
			goldmark.WithParserOptions(parserOptions...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
	if !opts.Trusted {
		e.policy = newPolicy()
	}
	return e
}

// Convert renders src as an HTML fragment.
func (e *Engine) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	if e.policy == nil {
		return buf.String(), nil
	}
	return e.policy.Sanitize(buf.String()), nil
}

// Render is Convert without the error: when conversion fails the source is
// escaped and wrapped in a paragraph so callers always get usable HTML.
func (e *Engine) Render(src string) string {
	out, err := e.Convert(src)
	if err != nil {
		return Fallback(src)
	}
	return out
}

// Fallback returns src escaped and wrapped in a single paragraph.
func Fallback(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	return "<p>" + html.EscapeString(src) + "</p>"
}

// Component returns a templ.Component that writes already-rendered HTML.
// The input must come from an Engine.
func Component(rendered string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		// GFM already bundles tables, strikethrough, linkify and task lists.
		return []goldmark.Extender{extension.GFM, extension.Footnote}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

// KnownExtension reports whether name is a supported extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

var (
	reCodeLang   = regexp.MustCompile(`^language-[\w+#.-]+$`)
	reHeadingID  = regexp.MustCompile(`^[\w-]+$`)
	reFootnoteID = regexp.MustCompile(`^fn(ref)?:?[\w-]*$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(reCodeLang).OnElements("code")
	p.AllowAttrs("id").Matching(reHeadingID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("id").Matching(reFootnoteID).OnElements("li", "sup")
	// task list checkboxes
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}
