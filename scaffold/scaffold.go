// Package scaffold lays out a starter labblog site: a config file, an
// example .env and a first post.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const root = "templates"

// ErrExists is returned when the target directory is already present.
var ErrExists = errors.New("target directory already exists")

// Data holds the variables passed to every template.
type Data struct {
	SiteName string
	Date     string
}

// NewData derives template data from the target directory name.
func NewData(dir string, now time.Time) Data {
	return Data{
		SiteName: Title(filepath.Base(filepath.Clean(dir))),
		Date:     now.Format("2006-01-02"),
	}
}

// Generate renders every template into dir and returns the created file
// paths. dir must not exist yet; on failure it is removed again.
func Generate(dir string, data Data) ([]string, error) {
	return generateFS(Templates, dir, data)
}

func generateFS(fsys fs.FS, dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, dir)
	}
	created, err := generate(fsys, dir, data)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return created, nil
}

func generate(fsys fs.FS, dir string, data Data) ([]string, error) {
	var created []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		out := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		if path.Base(rel) == "dotenv.tmpl" {
			out = filepath.Join(filepath.Dir(out), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		tmpl, err := template.New(path.Base(p)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := writeTemplate(out, tmpl, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		created = append(created, out)
		return nil
	})
	return created, err
}

func writeTemplate(out string, tmpl *template.Template, data Data) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Title converts a hyphenated name to title case.
// e.g. "my-blog" -> "My Blog"
func Title(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
