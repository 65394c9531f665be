package usecases

import (
	"context"
	"os"
	"path/filepath"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// RenderOnDemand implements spec §4.8's "Render on demand": given a URI,
// find the corresponding page, render it, and return the HTML. Whether the
// result is also written to disk depends on e.RenderBehavior (spec
// GLOSSARY "RenderBehavior").
func (e *Engine) RenderOnDemand(ctx context.Context, uri string) (string, bool, error) {
	page, ok := e.Library().GetByURI(uri)
	if !ok {
		return "", false, nil
	}

	res, err := e.RenderPage(ctx, page)
	if err != nil {
		return "", true, err
	}
	for _, f := range res.Findings {
		if f.Level == entities.LintDeny {
			return "", true, entities.NewError(entities.ErrKindLintDeny, f.Message, nil).WithContext("uri", f.URI)
		}
	}

	if e.RenderBehavior == entities.RenderWrite {
		target := page.Target.Abs()
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return res.HTML, true, entities.NewError(entities.ErrKindIO, "failed to create output directory", err).
				WithContext("path", target)
		}
		if err := os.WriteFile(target, []byte(res.HTML), 0o644); err != nil {
			return res.HTML, true, entities.NewError(entities.ErrKindIO, "failed to write rendered page", err).
				WithContext("path", target)
		}
	}

	return res.HTML, true, nil
}
