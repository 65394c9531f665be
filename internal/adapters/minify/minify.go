// Package minify implements usecases.Minifier with tdewolff/minify/v2,
// a dependency with demonstrated usage in only one sibling example repo
// (see DESIGN.md); wired here against the HTML/CSS post-process
// pass the spec allows the engine to run after rendering (spec §4.6).
package minify

import (
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Minifier implements usecases.Minifier.
type Minifier struct {
	m *minify.M
}

func New() *Minifier {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	return &Minifier{m: m}
}

var _ usecases.Minifier = (*Minifier)(nil)

func (mi *Minifier) MinifyHTML(w io.Writer, r io.Reader) error {
	if err := mi.m.Minify("text/html", w, r); err != nil {
		return entities.NewError(entities.ErrKindParse, "html minification failed", err)
	}
	return nil
}

func (mi *Minifier) MinifyCSS(w io.Writer, r io.Reader) error {
	if err := mi.m.Minify("text/css", w, r); err != nil {
		return entities.NewError(entities.ErrKindParse, "css minification failed", err)
	}
	return nil
}
