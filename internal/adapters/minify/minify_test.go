package minify

import (
	"strings"
	"testing"
)

func TestMinifyHTML_StripsWhitespace(t *testing.T) {
	m := New()
	var out strings.Builder
	in := strings.NewReader("<html>\n  <body>\n    <p>hi</p>\n  </body>\n</html>")
	if err := m.MinifyHTML(&out, in); err != nil {
		t.Fatalf("MinifyHTML: %v", err)
	}
	if strings.Contains(out.String(), "\n  ") {
		t.Errorf("expected whitespace stripped, got %q", out.String())
	}
}

func TestMinifyCSS_StripsWhitespace(t *testing.T) {
	m := New()
	var out strings.Builder
	in := strings.NewReader("body {\n  color: red;\n}\n")
	if err := m.MinifyCSS(&out, in); err != nil {
		t.Fatalf("MinifyCSS: %v", err)
	}
	if out.String() != "body{color:red}" {
		t.Errorf("got %q", out.String())
	}
}
