package usecases

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// ExtractAssets implements spec §4.6's asset-extraction pass: scan a
// rendered page's HTML, classify every discovered URL, and produce a
// LinkedAsset record for every Absolute or Relative URL. Offsite URLs are
// ignored; an InternalDoc URL surviving to this point is a warning (link
// rewriting in RenderPage should already have resolved it).
func (e *Engine) ExtractAssets(renderedHTML string, page entities.Page) []entities.LinkedAsset {
	var assets []entities.LinkedAsset

	pageDir := path.Dir(page.URI)

	for _, raw := range e.Discover.AssetsInHTML(renderedHTML) {
		classified := entities.ClassifyURL(raw)
		switch classified.Kind {
		case entities.UrlOffsite:
			continue
		case entities.UrlInternalDoc:
			e.Log.Warn("unresolved internal-doc link survived rendering", "path", page.Source.Abs(), "link", raw)
			continue
		case entities.UrlAbsolute:
			assets = append(assets, entities.LinkedAsset{
				URI:          classified.Rest,
				OutputPath:   filepath.Join(e.Paths.Output, filepath.FromSlash(strings.TrimPrefix(classified.Rest, "/"))),
				ReferencedBy: page.Source.Abs(),
			})
		case entities.UrlRelative:
			resolved := path.Clean(path.Join(pageDir, classified.Rest))
			assets = append(assets, entities.LinkedAsset{
				URI:          resolved,
				OutputPath:   filepath.Join(e.Paths.Output, filepath.FromSlash(strings.TrimPrefix(resolved, "/"))),
				ReferencedBy: page.Source.Abs(),
			})
		}
	}

	return assets
}

// DispatchAsset implements spec §4.5's dispatch: every pipeline whose
// target glob matches assetRelPath runs, in registration order.
func (e *Engine) DispatchAsset(ctx context.Context, rules *entities.Rules, assetRelPath string) error {
	for _, pipeline := range rules.Pipelines {
		if !pipeline.MatchesTarget(assetRelPath) {
			continue
		}
		if err := e.Pipeline.Run(ctx, pipeline, e.Paths.Content, e.Paths.Output, assetRelPath); err != nil {
			return entities.NewError(entities.ErrKindPipelineCommand, "asset pipeline failed", err).
				WithContext("asset", assetRelPath)
		}
	}
	return nil
}

// assetRelPathFromURI strips the leading slash from a site-absolute URI so
// it can be matched against content-relative pipeline globs and joined
// under a source root.
func assetRelPathFromURI(uri string) string {
	return strings.TrimPrefix(uri, "/")
}
