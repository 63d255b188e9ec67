package content

import (
	"errors"
)

// Library serves post records to every entry point: pages, the JSON API,
// feeds and the CLI.
type Library struct {
	scanner  *Scanner
	renderer *Renderer
	cache    *RenderCache
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithCache memoizes rendered records keyed on file modification time.
func WithCache() LibraryOption {
	return func(l *Library) {
		l.cache = NewRenderCache()
	}
}

// NewLibrary returns a Library reading through scanner and rendering with
// renderer.
func NewLibrary(scanner *Scanner, renderer *Renderer, opts ...LibraryOption) *Library {
	l := &Library{scanner: scanner, renderer: renderer}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cache returns the render cache, or nil when caching is off.
func (l *Library) Cache() *RenderCache { return l.cache }

// List returns every post. Files removed between the directory scan and the
// read are skipped.
func (l *Library) List() ([]PostRecord, error) {
	slugs, err := l.scanner.ListSlugs()
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		return l.listCached(slugs)
	}
	entries := make([]RawEntry, 0, len(slugs))
	for _, slug := range slugs {
		raw, err := l.scanner.ReadRaw(slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, RawEntry{Slug: slug, Raw: raw})
	}
	return l.renderer.BuildListing(entries), nil
}

func (l *Library) listCached(slugs []string) ([]PostRecord, error) {
	records := make([]PostRecord, 0, len(slugs))
	for _, slug := range slugs {
		rec, err := l.getCached(slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	l.cache.Retain(slugs)
	if l.renderer.order == OrderDate {
		SortByDate(records)
	}
	return records, nil
}

// Get returns the post for slug, or an error matching ErrNotFound.
func (l *Library) Get(slug string) (PostRecord, error) {
	if l.cache != nil {
		return l.getCached(slug)
	}
	raw, err := l.scanner.ReadRaw(slug)
	if err != nil {
		return PostRecord{}, err
	}
	return l.renderer.BuildRecord(slug, raw), nil
}

func (l *Library) getCached(slug string) (PostRecord, error) {
	info, err := l.scanner.Stat(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.cache.Invalidate(slug)
		}
		return PostRecord{}, err
	}
	key := cacheKey{modTime: info.ModTime(), size: info.Size()}
	if rec, ok := l.cache.get(slug, key); ok {
		return rec, nil
	}
	raw, err := l.scanner.ReadRaw(slug)
	if err != nil {
		return PostRecord{}, err
	}
	rec := l.renderer.BuildRecord(slug, raw)
	l.cache.put(slug, key, rec)
	return rec, nil
}

// Summaries returns the listing shape of every post.
func (l *Library) Summaries() ([]PostSummary, error) {
	records, err := l.List()
	if err != nil {
		return nil, err
	}
	out := make([]PostSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Summary())
	}
	return out, nil
}

// Detail returns the detail shape of the post for slug.
func (l *Library) Detail(slug string) (PostDetail, error) {
	rec, err := l.Get(slug)
	if err != nil {
		return PostDetail{}, err
	}
	return rec.Detail(), nil
}
