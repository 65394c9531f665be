package entities

import (
	"errors"
	"strings"
	"testing"
)

func TestError_ErrorString(t *testing.T) {
	base := errors.New("boom")
	e := NewError(ErrKindParse, "bad frontmatter", base).WithContext("path", "a.md")

	msg := e.Error()
	for _, want := range []string{"Parse", "bad frontmatter", "path=a.md", "boom"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error string %q missing %q", msg, want)
		}
	}
	if !errors.Is(e, base) {
		t.Fatal("expected errors.Is to unwrap to base error")
	}
}

func TestBuildReport_HasErrors(t *testing.T) {
	var r BuildReport
	if r.HasErrors() {
		t.Fatal("empty report must not have errors")
	}

	r.AddFailure("a.md", NewError(ErrKindTemplateRender, "missing template", nil))
	if !r.HasErrors() {
		t.Fatal("report with a failure must report errors")
	}

	var r2 BuildReport
	r2.AddDeny(LintFinding{URI: "/db/x.html", Level: LintDeny, Message: "missing section"})
	if !r2.HasErrors() {
		t.Fatal("report with a deny must report errors")
	}
}
