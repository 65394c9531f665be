package usecases

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// pathClass classifies one changed filesystem path against the engine's
// configured roots, per spec §4.8's incremental-rebuild table.
type pathClass int

const (
	classContent pathClass = iota
	classTemplates
	classSyntaxThemes
	classRulesScript
	classOther
)

func (e *Engine) classify(absPath string) pathClass {
	switch {
	case absPath == e.Paths.RulesScript:
		return classRulesScript
	case underRoot(absPath, e.Paths.Content) && strings.HasSuffix(absPath, ".md"):
		return classContent
	case underRoot(absPath, e.Paths.Templates):
		return classTemplates
	case underRoot(absPath, e.Paths.SyntaxThemes):
		return classSyntaxThemes
	default:
		return classOther
	}
}

func underRoot(absPath, root string) bool {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// Rebuild implements spec §4.8's "Incremental rebuild" table for one
// FilesystemUpdateEvents batch, then posts ReloadPage via broker.
func (e *Engine) Rebuild(ctx context.Context, update entities.FilesystemUpdateEvents, broker Broker) (*entities.BuildReport, error) {
	report := &entities.BuildReport{}

	needsFullRerender := false
	rulesScriptDeleted := false

	for _, p := range update.Created {
		switch e.classify(p) {
		case classContent:
			if err := e.reconcileContentChange(ctx, p, report); err != nil {
				return report, err
			}
		case classTemplates:
			needsFullRerender = true
			if err := e.Template.Reload(); err != nil {
				return report, entities.NewError(entities.ErrKindTemplateRender, "template reload failed", err)
			}
		case classSyntaxThemes:
			needsFullRerender = true
		case classRulesScript:
			needsFullRerender = true
			if err := e.reconcileRulesScript(ctx); err != nil {
				return report, err
			}
		case classOther:
			if err := e.reconcileAssetChange(ctx, p); err != nil {
				return report, err
			}
		}
	}

	for _, p := range update.Changed {
		switch e.classify(p) {
		case classContent:
			if err := e.reconcileContentChange(ctx, p, report); err != nil {
				return report, err
			}
		case classTemplates:
			needsFullRerender = true
			if err := e.Template.Reload(); err != nil {
				return report, entities.NewError(entities.ErrKindTemplateRender, "template reload failed", err)
			}
		case classSyntaxThemes:
			needsFullRerender = true
		case classRulesScript:
			needsFullRerender = true
			if err := e.reconcileRulesScript(ctx); err != nil {
				return report, err
			}
		case classOther:
			if err := e.reconcileAssetChange(ctx, p); err != nil {
				return report, err
			}
		}
	}

	for _, p := range update.Deleted {
		switch e.classify(p) {
		case classContent:
			if e.Library().RemoveBySourcePath(p) {
				target := e.derivedTargetForDeleted(p)
				_ = os.Remove(target)
			}
		case classTemplates:
			needsFullRerender = true
		case classSyntaxThemes:
			needsFullRerender = true
		case classRulesScript:
			rulesScriptDeleted = true
		case classOther:
			// best-effort: asset deletions do not automatically remove
			// pipeline outputs, since the mapping from source to artifact
			// is pipeline-defined.
		}
	}

	if rulesScriptDeleted {
		return report, entities.NewError(entities.ErrKindIO, "rules script was deleted", nil).
			WithContext("path", e.Paths.RulesScript)
	}

	if needsFullRerender {
		if err := e.rerenderAll(ctx, report); err != nil {
			return report, err
		}
	}

	if report.HasErrors() {
		return report, report
	}

	if broker != nil {
		_ = broker.SendDevServerMsg(ctx, entities.DevServerMsg{Kind: entities.DevServerMsgReloadPage})
	}

	return report, nil
}

func (e *Engine) reconcileContentChange(ctx context.Context, absPath string, report *entities.BuildReport) error {
	e.Library().RemoveBySourcePath(absPath)

	page, err := e.loadPage(absPath)
	if err != nil {
		if pe, ok := err.(*entities.Error); ok {
			report.AddFailure(absPath, pe)
			return nil
		}
		return err
	}
	if _, err := e.Library().Insert(page); err != nil {
		if pe, ok := err.(*entities.Error); ok {
			report.AddFailure(absPath, pe)
			return nil
		}
		return err
	}

	res, err := e.RenderPage(ctx, page)
	for _, f := range res.Findings {
		if f.Level == entities.LintDeny {
			report.AddDeny(f)
		} else if f.Level == entities.LintWarn {
			e.Log.Warn("lint warning", "uri", f.URI, "message", f.Message)
		}
	}
	if err != nil {
		if pe, ok := err.(*entities.Error); ok {
			report.AddFailure(absPath, pe)
			return nil
		}
		return err
	}

	return e.writeRendered([]renderedOutput{{page: page, html: res.HTML}})
}

func (e *Engine) reconcileRulesScript(ctx context.Context) error {
	scriptText, err := e.readRulesScript()
	if err != nil {
		return err
	}
	rules, err := e.Scripting.BuildRules(ctx, scriptText, e.Library())
	if err != nil {
		return entities.NewError(entities.ErrKindScriptCompile, "rules script re-evaluation failed", err).
			WithContext("path", e.Paths.RulesScript)
	}
	e.mu.Lock()
	e.rules = rules
	e.rulesScript = scriptText
	e.mu.Unlock()
	return nil
}

func (e *Engine) reconcileAssetChange(ctx context.Context, absPath string) error {
	rules := e.Rules()
	if rules == nil {
		return nil
	}
	relSlash, err := e.contentRelSlash(absPath)
	if err != nil {
		relSlash = absPath
	}
	for _, pipeline := range rules.Pipelines {
		if pipeline.MatchesAutorun(relSlash) {
			if err := e.Pipeline.Run(ctx, pipeline, e.Paths.Content, e.Paths.Output, relSlash); err != nil {
				return entities.NewError(entities.ErrKindPipelineCommand, "asset pipeline failed", err).
					WithContext("asset", relSlash)
			}
		}
	}
	return nil
}

func (e *Engine) rerenderAll(ctx context.Context, report *entities.BuildReport) error {
	rendered, err := e.renderAll(ctx, e.Library(), report)
	if err != nil {
		return err
	}
	if report.HasErrors() {
		return nil
	}
	return e.writeRendered(rendered)
}

func (e *Engine) derivedTargetForDeleted(absContentPath string) string {
	rel, err := filepath.Rel(e.Paths.Content, absContentPath)
	if err != nil {
		return ""
	}
	contentBase, err := e.projectRelBase(e.Paths.Content)
	if err != nil {
		return ""
	}
	outputBase, err := e.projectRelBase(e.Paths.Output)
	if err != nil {
		return ""
	}
	source := entities.NewPath[entities.MdKind](e.Paths.ProjectRoot, contentBase, rel)
	targetRel := source.RelTo(".html")
	return entities.NewPath[entities.HtmlKind](e.Paths.ProjectRoot, outputBase, targetRel).Abs()
}
