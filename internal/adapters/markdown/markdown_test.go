package markdown

import (
	"strings"
	"testing"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(code, language string) (string, error) {
	return "<pre data-lang=\"" + language + "\">" + code + "</pre>", nil
}
func (fakeHighlighter) GenerateCSSTheme(string) (string, error) { return "", nil }
func (fakeHighlighter) ThemeNames() []string                    { return nil }

func TestRender_PlainMarkdown(t *testing.T) {
	r := New(fakeHighlighter{})
	html, err := r.Render("# Title\n\nSome *text*.\n", noRewrite)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>text</em>") {
		t.Errorf("unexpected output: %s", html)
	}
}

func TestRender_FencedCodeUsesHighlighter(t *testing.T) {
	r := New(fakeHighlighter{})
	html, err := r.Render("```go\nfunc main() {}\n```\n", noRewrite)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, `data-lang="go"`) {
		t.Errorf("expected highlighter output, got %s", html)
	}
}

func TestRender_RewritesInternalLinks(t *testing.T) {
	r := New(fakeHighlighter{})
	rewriter := func(relPath string) (string, error) {
		if relPath == "other.md" {
			return "/other.html", nil
		}
		return "", entities.NewError(entities.ErrKindUnresolvedInternalLink, "not found", nil)
	}

	html, err := r.Render("[link](@/other.md)\n", rewriter)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, `href="/other.html"`) {
		t.Errorf("expected rewritten link, got %s", html)
	}
}

func TestRender_UnresolvedInternalLinkErrors(t *testing.T) {
	r := New(fakeHighlighter{})
	rewriter := func(relPath string) (string, error) {
		return "", entities.NewError(entities.ErrKindUnresolvedInternalLink, "not found", nil)
	}

	if _, err := r.Render("[link](@/missing.md)\n", rewriter); err == nil {
		t.Fatal("expected error for unresolved internal link")
	}
}

func noRewrite(relPath string) (string, error) { return relPath, nil }
