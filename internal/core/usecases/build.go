package usecases

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// BuildSite runs a full build: spec §4.8 "Full build (build_site)" steps
// 1-5.
func (e *Engine) BuildSite(ctx context.Context) (*entities.BuildReport, error) {
	report := &entities.BuildReport{}

	library, err := e.discoverAndParse(ctx)
	if err != nil {
		return nil, err
	}

	scriptText, err := e.readRulesScript()
	if err != nil {
		return nil, err
	}
	rules, err := e.Scripting.BuildRules(ctx, scriptText, library)
	if err != nil {
		return nil, entities.NewError(entities.ErrKindScriptCompile, "rules script evaluation failed", err).
			WithContext("path", e.Paths.RulesScript)
	}

	e.mu.Lock()
	e.library = library
	e.rules = rules
	e.rulesScript = scriptText
	e.mu.Unlock()

	rendered, err := e.renderAll(ctx, library, report)
	if err != nil {
		return report, err
	}
	if report.HasErrors() {
		return report, report
	}

	if err := e.writeRendered(rendered); err != nil {
		return report, err
	}

	assets := e.collectAssets(rendered)
	if err := e.dispatchAllAssets(ctx, rules, assets); err != nil {
		return report, err
	}

	e.Log.Info("build complete", "pages", len(rendered), "assets", len(assets))
	return report, nil
}

// discoverAndParse implements spec §4.8 step 1, parsing pages concurrently
// via errgroup and inserting them into a fresh Library in a stable order
// (insertion order follows WalkMarkdown's own deterministic ordering, not
// goroutine completion order).
func (e *Engine) discoverAndParse(ctx context.Context) (*entities.Library, error) {
	paths, err := e.Discover.WalkMarkdown(e.Paths.Content)
	if err != nil {
		return nil, entities.NewError(entities.ErrKindIO, "failed to walk content root", err).
			WithContext("root", e.Paths.Content)
	}

	pages := make([]entities.Page, len(paths))
	group, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			page, err := e.loadPage(p)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	library := entities.NewLibrary()
	for _, page := range pages {
		if _, err := library.Insert(page); err != nil {
			return nil, err
		}
	}
	return library, nil
}

type renderedOutput struct {
	page entities.Page
	html string
}

// renderAll renders every page concurrently, collecting lint findings and
// page failures into report rather than aborting on the first error (spec
// §7 "per-page errors are accumulated... and reported together").
func (e *Engine) renderAll(ctx context.Context, library *entities.Library, report *entities.BuildReport) ([]renderedOutput, error) {
	all := library.Iter()
	results := make([]renderedOutput, 0, len(all))
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	for _, page := range all {
		page := page
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			res, err := e.RenderPage(gctx, page)
			mu.Lock()
			defer mu.Unlock()
			for _, f := range res.Findings {
				if f.Level == entities.LintDeny {
					report.AddDeny(f)
				} else if f.Level == entities.LintWarn {
					e.Log.Warn("lint warning", "uri", f.URI, "message", f.Message)
				}
			}
			if err != nil {
				if pe, ok := err.(*entities.Error); ok {
					report.AddFailure(page.Source.Abs(), pe)
					return nil
				}
				return err
			}
			results = append(results, renderedOutput{page: page, html: res.HTML})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeRendered implements spec §4.6's "writing the rendered collection":
// write each HTML to disk, creating parent directories, with optional
// HTML minification.
func (e *Engine) writeRendered(rendered []renderedOutput) error {
	for _, r := range rendered {
		target := r.page.Target.Abs()
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return entities.NewError(entities.ErrKindIO, "failed to create output directory", err).
				WithContext("path", target)
		}

		body := r.html
		if e.Minify != nil {
			var buf bytes.Buffer
			if err := e.Minify.MinifyHTML(&buf, strings.NewReader(r.html)); err == nil {
				body = buf.String()
			} else {
				e.Log.Warn("html minification failed, writing unminified", "path", target, "error", err.Error())
			}
		}

		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			return entities.NewError(entities.ErrKindIO, "failed to write rendered page", err).
				WithContext("path", target)
		}
	}
	return nil
}

func (e *Engine) collectAssets(rendered []renderedOutput) []entities.LinkedAsset {
	var assets []entities.LinkedAsset
	seen := map[string]bool{}
	for _, r := range rendered {
		for _, a := range e.ExtractAssets(r.html, r.page) {
			if seen[a.URI] {
				continue
			}
			seen[a.URI] = true
			assets = append(assets, a)
		}
	}
	return assets
}

func (e *Engine) dispatchAllAssets(ctx context.Context, rules *entities.Rules, assets []entities.LinkedAsset) error {
	for _, a := range assets {
		relPath := assetRelPathFromURI(a.URI)
		if err := e.DispatchAsset(ctx, rules, relPath); err != nil {
			return err
		}
	}
	return nil
}
