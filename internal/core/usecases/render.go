package usecases

import (
	"context"
	"strings"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// RenderResult is the outcome of rendering one page: the produced HTML and
// any lint findings collected along the way. An error that aborts the render
// is returned alongside it, not stored in it.
type RenderResult struct {
	Page     entities.Page
	HTML     string
	Findings []entities.LintFinding
}

// RenderPage executes spec §4.6's seven ordered steps for one page against
// the engine's current Library and Rules.
func (e *Engine) RenderPage(ctx context.Context, page entities.Page) (RenderResult, error) {
	rules := e.Rules()
	if rules == nil {
		return RenderResult{}, entities.NewError(entities.ErrKindScriptRuntime, "rules have not been built", nil)
	}

	result := RenderResult{Page: page}

	relSlash, err := e.contentRelSlash(page.Source.Abs())
	if err != nil {
		return RenderResult{}, entities.NewError(entities.ErrKindIO, "cannot compute content-relative path", err).
			WithContext("path", page.Source.Abs())
	}

	// Step 0 (spec §4.7): frontmatter hooks and lints run during build,
	// ahead of rendering, against the same matcher keys as context
	// generators.
	findings, hookErr := e.runFrontmatterHooksAndLints(ctx, rules, relSlash, page)
	result.Findings = findings
	if hookErr != nil {
		return result, hookErr
	}

	// Step 1: resolve template.
	templateName, err := e.resolveTemplate(page, relSlash)
	if err != nil {
		return result, err
	}

	// Step 2: build context.
	pageCtx, err := e.buildContext(ctx, rules, relSlash, page)
	if err != nil {
		return result, err
	}

	// Step 3: markdown render with link rewriting.
	rewriter := e.linkRewriter(page)
	bodyHTML, err := e.Markdown.Render(page.Body, rewriter)
	if err != nil {
		return result, entities.NewError(entities.ErrKindParse, "markdown render failed", err).
			WithContext("path", page.Source.Abs())
	}

	// Step 4: expand shortcodes.
	bodyHTML, err = e.expandShortcodes(bodyHTML, rules)
	if err != nil {
		return result, err
	}

	// Step 5: syntax highlighting is done by the markdown renderer's
	// fenced-code-block node renderer, using the highlighter it was built
	// with (spec §4.6 step 5); no separate pass is required here.

	// Step 6: render the named template.
	templateCtx := map[string]any{
		"content": bodyHTML,
		"page":    pageTemplateView(page),
	}
	for k, v := range pageCtx {
		templateCtx[k] = v
	}
	out, err := e.Template.Render(templateName, templateCtx)
	if err != nil {
		return result, entities.NewError(entities.ErrKindTemplateRender, "template render failed", err).
			WithContext("template", templateName).WithContext("path", page.Source.Abs())
	}

	result.HTML = out
	return result, nil
}

func pageTemplateView(page entities.Page) map[string]any {
	return map[string]any{
		"uri":             page.URI,
		"template_name":   page.FrontMatter.TemplateName,
		"keywords":        page.FrontMatter.Keywords,
		"use_breadcrumbs": page.FrontMatter.UseBreadcrumbs,
		"published":       page.FrontMatter.Published,
		"searchable":      page.FrontMatter.Searchable,
		"meta":            page.FrontMatter.Meta,
	}
}

// resolveTemplate implements spec §4.6 step 1: the page's frontmatter names
// a template, or the engine walks upward from the page's content-relative
// directory looking for a "default.tera" registered at that level.
func (e *Engine) resolveTemplate(page entities.Page, relSlash string) (string, error) {
	if page.FrontMatter.TemplateName != "" {
		return page.FrontMatter.TemplateName, nil
	}

	known := make(map[string]bool, len(e.Template.TemplateNames()))
	for _, n := range e.Template.TemplateNames() {
		known[n] = true
	}

	dir := strings.TrimSuffix(relSlash, "/"+lastSegment(relSlash))
	for {
		candidate := "default.tera"
		if dir != "" && dir != relSlash {
			candidate = dir + "/default.tera"
		}
		if known[candidate] {
			return candidate, nil
		}
		if dir == "" || !strings.Contains(dir, "/") {
			if known["default.tera"] {
				return "default.tera", nil
			}
			break
		}
		dir = dir[:strings.LastIndex(dir, "/")]
	}

	return "", entities.NewError(entities.ErrKindTemplateNotFound, "no template named and no default.tera found", nil).
		WithContext("path", page.Source.Abs())
}

func lastSegment(relSlash string) string {
	idx := strings.LastIndex(relSlash, "/")
	if idx < 0 {
		return relSlash
	}
	return relSlash[idx+1:]
}

// buildContext implements spec §4.6 step 2.
func (e *Engine) buildContext(ctx context.Context, rules *entities.Rules, relSlash string, page entities.Page) (map[string]any, error) {
	merged := map[string]any{}

	if m, ok := rules.GlobalContext.(map[string]any); ok {
		for k, v := range m {
			merged[k] = v
		}
	} else if rules.GlobalContext != nil {
		merged["global"] = rules.GlobalContext
	}

	seen := map[string]bool{}
	for k := range merged {
		seen[k] = true
	}

	script := e.currentRulesScript()
	for _, key := range rules.ContextGenerators.FindKeys(relSlash) {
		ref, _ := rules.ContextGenerators.Get(key)
		data, err := e.Scripting.CallContextGenerator(ctx, script, ref, page)
		if err != nil {
			return nil, entities.NewError(entities.ErrKindScriptRuntime, "context generator failed", err).
				WithContext("generator", ref.Name).WithContext("path", page.Source.Abs())
		}
		for identifier, value := range data {
			if seen[identifier] {
				return nil, entities.NewError(entities.ErrKindDuplicateContextIdentifier, "duplicate context identifier", nil).
					WithContext("identifier", identifier).WithContext("generator", ref.Name).WithContext("path", page.Source.Abs())
			}
			seen[identifier] = true
			merged[identifier] = value
		}
	}

	return merged, nil
}

// linkRewriter resolves "@/relative/path.md" references against the
// Library, per spec §4.6 step 3.
func (e *Engine) linkRewriter(_ entities.Page) LinkRewriter {
	return func(relPath string) (string, error) {
		trimmed := strings.TrimSuffix(relPath, ".md")
		candidateURI := "/" + trimmed + ".html"
		target, ok := e.Library().GetByURI(candidateURI)
		if !ok {
			return "", entities.NewError(entities.ErrKindUnresolvedInternalLink, "unresolved internal link", nil).
				WithContext("link", relPath)
		}
		return target.URI, nil
	}
}

// expandShortcodes implements spec §4.6 step 4: repeatedly locate the next
// inline or block shortcode invocation via entities.FindNextShortcode,
// render its named template with its parsed arguments as context, and
// splice the result into the match's byte range.
func (e *Engine) expandShortcodes(html string, rules *entities.Rules) (string, error) {
	if len(rules.Shortcodes) == 0 {
		return html, nil
	}

	var out strings.Builder
	pos := 0
	for {
		match, ok := entities.FindNextShortcode(html, pos)
		if !ok {
			out.WriteString(html[pos:])
			break
		}

		def, known := rules.Shortcodes[match.Name]
		if !known {
			return "", entities.NewError(entities.ErrKindTemplateNotFound, "unregistered shortcode", nil).
				WithContext("shortcode", match.Name)
		}

		ctx := make(map[string]any, len(match.Args)+1)
		for k, v := range match.Args {
			ctx[k] = v
		}
		if match.Body != "" {
			ctx["body"] = match.Body
		}

		rendered, err := e.Template.RenderShortcode(def.TemplateName, ctx)
		if err != nil {
			return "", entities.NewError(entities.ErrKindTemplateRender, "shortcode render failed", err).
				WithContext("shortcode", match.Name)
		}

		out.WriteString(html[pos:match.Start])
		out.WriteString(rendered)
		pos = match.End
	}

	return out.String(), nil
}

// runFrontmatterHooksAndLints implements spec §4.7.
func (e *Engine) runFrontmatterHooksAndLints(ctx context.Context, rules *entities.Rules, relSlash string, page entities.Page) ([]entities.LintFinding, error) {
	script := e.currentRulesScript()

	for _, key := range rules.FrontmatterHooks.FindKeys(relSlash) {
		ref, _ := rules.FrontmatterHooks.Get(key)
		resp, err := e.Scripting.CallFrontmatterHook(ctx, script, ref, page)
		if err != nil {
			return nil, entities.NewError(entities.ErrKindScriptRuntime, "frontmatter hook failed", err).
				WithContext("hook", ref.Name).WithContext("path", page.Source.Abs())
		}
		switch resp.Kind {
		case entities.HookError:
			return nil, entities.NewError(entities.ErrKindScriptRuntime, resp.Message, nil).
				WithContext("hook", ref.Name).WithContext("path", page.Source.Abs())
		case entities.HookWarn:
			e.Log.Warn("frontmatter hook warning", "hook", ref.Name, "path", page.Source.Abs(), "message", resp.Message)
		}
	}

	var findings []entities.LintFinding
	for _, key := range rules.Lints.FindKeys(relSlash) {
		ref, _ := rules.Lints.Get(key)
		finding, err := e.Scripting.CallLint(ctx, script, ref, page)
		if err != nil {
			return nil, entities.NewError(entities.ErrKindScriptRuntime, "lint failed", err).
				WithContext("lint", ref.Name).WithContext("path", page.Source.Abs())
		}
		finding.URI = page.URI
		finding.Level = ref.Level
		findings = append(findings, finding)
	}

	return findings, nil
}

// currentRulesScript returns the raw rules-script text last loaded by
// BuildSite or a rules-script reconciliation.
func (e *Engine) currentRulesScript() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rulesScript
}
