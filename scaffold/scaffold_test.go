package scaffold_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jugwang/labblog"
	"github.com/jugwang/labblog/content"
	"github.com/jugwang/labblog/scaffold"
)

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog":   "My Blog",
		"myblog":    "Myblog",
		"lab_notes": "Lab Notes",
		"a--b":      "A B",
	}
	for in, want := range tests {
		if got := scaffold.Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lab-notes")
	data := scaffold.NewData(dir, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	created, err := scaffold.Generate(dir, data)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(created) == 0 {
		t.Fatal("Generate created no files")
	}
	for _, name := range []string{"labblog.yaml", ".env.example", "contents/__posts/hello-world.md"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	cfg, err := labblog.LoadConfig(filepath.Join(dir, "labblog.yaml"))
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Name != "Lab Notes" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Lab Notes")
	}

	lib := content.NewLibrary(
		content.NewScanner(filepath.Join(dir, "contents", "__posts")),
		content.NewRenderer(nil, content.OrderDate),
	)
	post, err := lib.Detail("hello-world")
	if err != nil {
		t.Fatalf("generated post does not load: %v", err)
	}
	if post.Title != "Hello, Lab Notes" || post.Date != "2024-05-01" {
		t.Errorf("post = %+v", post)
	}
	if !strings.Contains(post.Content, "<h1") {
		t.Errorf("content not rendered: %q", post.Content)
	}
}

func TestGenerateRefusesExistingDir(t *testing.T) {
	dir := t.TempDir()
	_, err := scaffold.Generate(dir, scaffold.NewData(dir, time.Now()))
	if !errors.Is(err, scaffold.ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}
