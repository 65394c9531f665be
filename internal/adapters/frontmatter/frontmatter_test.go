package frontmatter

import (
	"strings"
	"testing"
)

func TestSplit_WithFrontmatter(t *testing.T) {
	doc := "+++\n" +
		"template_name = \"post.tera\"\n" +
		"keywords = [\"go\", \"ssg\"]\n" +
		"published = false\n" +
		"+++\n" +
		"# Hello\n\nBody text.\n"

	fm, body, err := New().Split(doc)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if fm.TemplateName != "post.tera" {
		t.Errorf("expected template_name post.tera, got %q", fm.TemplateName)
	}
	if len(fm.Keywords) != 2 || fm.Keywords[0] != "go" {
		t.Errorf("unexpected keywords: %v", fm.Keywords)
	}
	if fm.Published {
		t.Errorf("expected published = false")
	}
	if !strings.Contains(body, "# Hello") {
		t.Errorf("expected body to contain heading, got %q", body)
	}
}

func TestSplit_NoFrontmatter(t *testing.T) {
	doc := "# Just a document\n\nNo fences here.\n"
	fm, body, err := New().Split(doc)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if fm.TemplateName != "" {
		t.Errorf("expected zero-value frontmatter, got %+v", fm)
	}
	if body != doc {
		t.Errorf("expected body to equal the whole document, got %q", body)
	}
}

func TestSplit_UnclosedFence(t *testing.T) {
	doc := "+++\ntemplate_name = \"x\"\nno closing fence\n"
	_, _, err := New().Split(doc)
	if err == nil {
		t.Fatal("expected an error for an unclosed frontmatter fence")
	}
}

func TestJoinThenSplit_RoundTrip(t *testing.T) {
	fm, body, err := New().Split("+++\ntemplate_name = \"a.tera\"\n+++\nBody line.\n")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	joined, err := New().Join(fm, body)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	fm2, body2, err := New().Split(joined)
	if err != nil {
		t.Fatalf("re-Split failed: %v", err)
	}
	if fm2.TemplateName != fm.TemplateName {
		t.Errorf("template_name did not round-trip: %q vs %q", fm2.TemplateName, fm.TemplateName)
	}
	if body2 != body {
		t.Errorf("body did not round-trip: %q vs %q", body2, body)
	}
}
