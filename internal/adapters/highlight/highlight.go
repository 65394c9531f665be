// Package highlight implements usecases.SyntaxHighlighter with
// github.com/alecthomas/chroma/v2, the lexer/formatter pair the teacher's
// sibling example repos reach for over goldmark's bundled highlighting.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Highlighter renders fenced code blocks with a fixed theme, falling back to
// a plain <pre><code> block for unknown languages rather than failing
// (spec §4.6 step 5).
type Highlighter struct {
	theme string
}

// New builds a Highlighter using the named chroma style; an empty name
// selects "github". An unknown name makes Highlight use chroma's fallback
// style; GenerateCSSTheme takes its own name and rejects unknown ones.
func New(theme string) *Highlighter {
	if theme == "" {
		theme = "github"
	}
	return &Highlighter{theme: theme}
}

var _ usecases.SyntaxHighlighter = (*Highlighter)(nil)

func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return plainCodeBlock(code), nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(h.theme)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.Standalone(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCodeBlock(code), nil
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", entities.NewError(entities.ErrKindParse, "syntax highlight failed", err).
			WithContext("language", language)
	}
	return buf.String(), nil
}

func (h *Highlighter) GenerateCSSTheme(themeName string) (string, error) {
	style := styles.Get(themeName)
	if style == nil {
		return "", entities.NewError(entities.ErrKindConfigInvalid, "unknown syntax theme", nil).
			WithContext("theme", themeName)
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf strings.Builder
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", entities.NewError(entities.ErrKindParse, "theme css generation failed", err).
			WithContext("theme", themeName)
	}
	return buf.String(), nil
}

func (h *Highlighter) ThemeNames() []string {
	return styles.Names()
}

func plainCodeBlock(code string) string {
	var b strings.Builder
	b.WriteString("<pre><code>")
	b.WriteString(escapeHTML(code))
	b.WriteString("</code></pre>")
	return b.String()
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}
