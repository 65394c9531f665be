package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWalkMarkdown_SkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "index.md"), "# hi")
	mustWrite(t, filepath.Join(root, "posts", "a.md"), "# a")
	mustWrite(t, filepath.Join(root, "node_modules", "b.md"), "# skip me")
	mustWrite(t, filepath.Join(root, "posts", "readme.txt"), "not markdown")

	found, err := Discoverer{}.WalkMarkdown(root)
	if err != nil {
		t.Fatalf("WalkMarkdown: %v", err)
	}

	var rels []string
	for _, f := range found {
		rel, _ := filepath.Rel(root, f)
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)

	want := []string{"index.md", "posts/a.md"}
	if len(rels) != len(want) {
		t.Fatalf("got %v, want %v", rels, want)
	}
	for i := range want {
		if rels[i] != want[i] {
			t.Errorf("rels[%d] = %q, want %q", i, rels[i], want[i])
		}
	}
}

func TestAssetsInHTML(t *testing.T) {
	html := `<html><body>
		<img src="/images/cat.png">
		<link href="/css/site.css">
		<audio src="/audio/clip.mp3"></audio>
		<embed src="/embeds/widget.swf">
		<object data="/docs/brochure.pdf"></object>
		<script src="/js/app.js"></script>
		<video src="/video/clip.mp4"></video>
		<track src="/video/clip.vtt">
		<picture>
			<source src="/images/hero.avif">
			<source srcset="/images/hero-1x.jpg 1x, /images/hero-2x.jpg 2x">
		</picture>
		<a href="https://example.com/page">anchors are not assets</a>
	</body></html>`

	urls := Discoverer{}.AssetsInHTML(html)
	want := map[string]bool{
		"/images/cat.png":       true,
		"/css/site.css":         true,
		"/audio/clip.mp3":       true,
		"/embeds/widget.swf":    true,
		"/docs/brochure.pdf":    true,
		"/js/app.js":            true,
		"/video/clip.mp4":       true,
		"/video/clip.vtt":       true,
		"/images/hero.avif":     true,
		"/images/hero-1x.jpg":   true,
		"/images/hero-2x.jpg":   true,
	}
	if len(urls) != len(want) {
		t.Fatalf("got %v", urls)
	}
	for _, u := range urls {
		if !want[u] {
			t.Errorf("unexpected url %q", u)
		}
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
