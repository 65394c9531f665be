package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRender_InjectsContentUnescaped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `<html><body>{{.content}}</body></html>`)

	r, err := New(root, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := r.Render("default.tera", map[string]any{"content": "<p>hi</p>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<p>hi</p>") {
		t.Errorf("expected raw content, got %s", out)
	}
}

func TestRender_TemplateNotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `ok`)

	r, err := New(root, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Render("missing.tera", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestTemplateNames_NestedPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `root`)
	writeFile(t, filepath.Join(root, "posts", "default.tera"), `posts`)

	r, err := New(root, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	names := r.TemplateNames()
	want := map[string]bool{"default.tera": true, "posts/default.tera": true}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected name %q", n)
		}
	}
}

func TestIncludeFile_RequiresAbsolutePath(t *testing.T) {
	projectRoot := t.TempDir()
	writeFile(t, filepath.Join(projectRoot, "snippet.txt"), "included content")

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `{{include_file "/snippet.txt"}}`)

	r, err := New(root, projectRoot)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render("default.tera", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "included content") {
		t.Errorf("expected included content, got %s", out)
	}
}

func TestIncludeFile_RelativePathFails(t *testing.T) {
	projectRoot := t.TempDir()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `{{include_file "relative.txt"}}`)

	r, err := New(root, projectRoot)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Render("default.tera", nil); err == nil {
		t.Fatal("expected error for relative include_file path")
	}
}

func TestRenderShortcode_LooksUnderShortcodesDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "default.tera"), `root`)
	writeFile(t, filepath.Join(root, "shortcodes", "note.tera"), `<div class="note">{{.text}}</div>`)

	r, err := New(root, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.RenderShortcode("note", map[string]any{"text": "hello"})
	if err != nil {
		t.Fatalf("RenderShortcode: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("got %s", out)
	}
}
