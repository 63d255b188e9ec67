package content

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"
)

func memScanner() *Scanner {
	return NewScannerFS(fstest.MapFS{
		"hello.md":        {Data: []byte("---\ntitle: Hello\n---\n# Hi\n")},
		"second-post.md":  {Data: []byte("body")},
		"notes.txt":       {Data: []byte("not a post")},
		".hidden.md":      {Data: []byte("hidden")},
		"drafts/later.md": {Data: []byte("nested")},
		"folder.md/x":     {Data: []byte("dir named like a post")},
	}, "mem")
}

func TestListSlugs(t *testing.T) {
	slugs, err := memScanner().ListSlugs()
	if err != nil {
		t.Fatalf("ListSlugs failed: %v", err)
	}
	sort.Strings(slugs)
	want := []string{"hello", "second-post"}
	if len(slugs) != len(want) {
		t.Fatalf("ListSlugs = %v, want %v", slugs, want)
	}
	for i := range want {
		if slugs[i] != want[i] {
			t.Errorf("slug[%d] = %q, want %q", i, slugs[i], want[i])
		}
	}
}

func TestListSlugsMissingDir(t *testing.T) {
	s := NewScanner(filepath.Join(t.TempDir(), "missing"))
	_, err := s.ListSlugs()
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("ListSlugs on missing dir err = %v, want ErrStoreUnavailable", err)
	}
}

func TestListSlugsCustomExt(t *testing.T) {
	s := NewScannerFS(fstest.MapFS{
		"a.markdown": {Data: []byte("a")},
		"b.md":       {Data: []byte("b")},
	}, "mem").WithExt("markdown")
	slugs, err := s.ListSlugs()
	if err != nil {
		t.Fatalf("ListSlugs failed: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "a" {
		t.Errorf("ListSlugs = %v, want [a]", slugs)
	}
}

func TestReadRaw(t *testing.T) {
	raw, err := memScanner().ReadRaw("hello")
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if raw != "---\ntitle: Hello\n---\n# Hi\n" {
		t.Errorf("ReadRaw = %q", raw)
	}
}

func TestReadRawNotFound(t *testing.T) {
	tests := []string{
		"nonexistent",
		"notes",
		"folder",
		"drafts/later",
		"",
	}
	s := memScanner()
	for _, slug := range tests {
		_, err := s.ReadRaw(slug)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadRaw(%q) err = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestReadRawRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	if err := os.MkdirAll(posts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.md"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewScanner(posts)
	for _, slug := range []string{"../secret", "../../etc/passwd", "..", `..\secret`, "/etc/passwd"} {
		raw, err := s.ReadRaw(slug)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadRaw(%q) err = %v, want ErrNotFound", slug, err)
		}
		if raw != "" {
			t.Errorf("ReadRaw(%q) leaked %q", slug, raw)
		}
	}
}

func TestReadRawReReadsDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewScanner(dir)
	if raw, _ := s.ReadRaw("post"); raw != "one" {
		t.Fatalf("first ReadRaw = %q", raw)
	}
	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	if raw, _ := s.ReadRaw("post"); raw != "two" {
		t.Errorf("second ReadRaw = %q, want fresh content", raw)
	}
}

func TestStat(t *testing.T) {
	s := memScanner()
	info, err := s.Stat("second-post")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size = %d, want 4", info.Size())
	}
	if _, err := s.Stat("folder"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat(folder) err = %v, want ErrNotFound", err)
	}
	if _, err := s.Stat("../x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat(../x) err = %v, want ErrNotFound", err)
	}
}

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello", true},
		{"hello-world_2024", true},
		{"v1.2-notes", true},
		{"", false},
		{".hidden", false},
		{"..", false},
		{"../etc/passwd", false},
		{"a/b", false},
		{`a\b`, false},
		{"a..b", false},
		{"nul\x00byte", false},
	}
	for _, tt := range tests {
		if got := ValidSlug(tt.slug); got != tt.want {
			t.Errorf("ValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
