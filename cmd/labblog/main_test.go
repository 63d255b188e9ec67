package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"version"}, &out, &out); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out.String(), "labblog ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"new"}} {
		var out, errOut bytes.Buffer
		if code := run(args, &out, &errOut); code != 1 {
			t.Errorf("run(%v) = %d, want 1", args, code)
		}
		if errOut.Len() == 0 {
			t.Errorf("run(%v) wrote nothing to stderr", args)
		}
	}
}

func TestRunList(t *testing.T) {
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts")
	if err := os.MkdirAll(posts, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"old.md": "---\ntitle: Old\ndate: 2023-01-01\n---\nold",
		"new.md": "---\ntitle: New\ndate: 2024-01-01\n---\nnew",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(posts, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfgPath := filepath.Join(dir, "labblog.yaml")
	if err := os.WriteFile(cfgPath, []byte("content_dir: "+posts+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if code := run([]string{"list", "-config", cfgPath}, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut.String())
	}
	var got []map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(got) != 2 || got[0]["slug"] != "new" || got[1]["slug"] != "old" {
		t.Errorf("listing = %v", got)
	}
}

func TestRunListMissingContentDir(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "labblog.yaml")
	missing := filepath.Join(dir, "nope")
	if err := os.WriteFile(cfgPath, []byte("content_dir: "+missing+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	if code := run([]string{"list", "-config", cfgPath}, &out, &errOut); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	var out, errOut bytes.Buffer
	if code := run([]string{"new", dir}, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "labblog.yaml")); err != nil {
		t.Errorf("labblog.yaml not created: %v", err)
	}
	if code := run([]string{"new", dir}, &out, &errOut); code != 1 {
		t.Errorf("second new into same dir = %d, want 1", code)
	}
}
