package content

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/jugwang/labblog/markdown"
)

// Order selects how BuildListing orders records.
type Order int

const (
	// OrderDate sorts by date descending; undated posts go last.
	OrderDate Order = iota
	// OrderInput keeps the order of the input entries.
	OrderInput
)

// Renderer turns raw post files into PostRecords. It does no I/O.
type Renderer struct {
	engine *markdown.Engine
	order  Order
}

// NewRenderer returns a Renderer using engine for bodies. A nil engine
// selects the default sanitizing engine.
func NewRenderer(engine *markdown.Engine, order Order) *Renderer {
	if engine == nil {
		engine = markdown.New(markdown.Options{})
	}
	return &Renderer{engine: engine, order: order}
}

// ParseFrontMatter splits the leading metadata block from raw. Input without
// a block, or with one that does not parse, yields empty metadata and the
// whole input as body.
func (r *Renderer) ParseFrontMatter(raw string) (PostMetadata, string) {
	return ParseFrontMatter(raw)
}

// ParseFrontMatter is the package-level form of Renderer.ParseFrontMatter.
func ParseFrontMatter(raw string) (PostMetadata, string) {
	var data map[string]any
	body, err := frontmatter.Parse(strings.NewReader(raw), &data)
	if err != nil {
		return PostMetadata{}, raw
	}
	meta := make(PostMetadata, len(data))
	for k, v := range data {
		meta[k] = normalizeValue(v)
	}
	return meta, string(body)
}

// RenderBody converts a Markdown body to an HTML fragment. It never fails.
func (r *Renderer) RenderBody(body string) string {
	return r.engine.Render(body)
}

// BuildRecord parses and renders raw into the record for slug.
func (r *Renderer) BuildRecord(slug, raw string) PostRecord {
	meta, body := r.ParseFrontMatter(raw)
	return PostRecord{
		Slug:        slug,
		Metadata:    meta,
		ContentHTML: r.RenderBody(body),
	}
}

// BuildListing builds a record per entry, ordered per the renderer's Order.
func (r *Renderer) BuildListing(entries []RawEntry) []PostRecord {
	records := make([]PostRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, r.BuildRecord(e.Slug, e.Raw))
	}
	if r.order == OrderDate {
		SortByDate(records)
	}
	return records
}

// SortByDate sorts records newest first. Records without a parseable date
// sort after dated ones; ties keep their relative order.
func SortByDate(records []PostRecord) {
	type dated struct {
		rec PostRecord
		t   time.Time
		ok  bool
	}
	items := make([]dated, len(records))
	for i, rec := range records {
		t, ok := rec.Metadata.Time()
		items[i] = dated{rec: rec, t: t, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.ok && b.ok:
			return a.t.After(b.t)
		case a.ok:
			return true
		default:
			return false
		}
	})
	for i, it := range items {
		records[i] = it.rec
	}
}

// normalizeValue makes decoded front matter JSON-serializable.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case time.Time:
		return formatTime(val)
	default:
		return val
	}
}
