package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// Engine is the coordinator: it owns the Library, Rules, renderers, and
// configuration (the broker is passed to each Rebuild call), and implements
// full-build, incremental rebuild, and render-on-demand (spec §4.8).
type Engine struct {
	Paths entities.EnginePaths

	Template    TemplateRenderer
	Markdown    MarkdownRenderer
	Highlighter SyntaxHighlighter
	Scripting   ScriptingHost
	Frontmatter FrontmatterSplitter
	Pipeline    AssetPipelineRunner
	Discover    Discoverer
	Minify      Minifier // nil disables post-process minification
	Log         Logger

	RenderBehavior entities.RenderBehavior

	// mu guards library, rules, and rulesScript: the scripting host
	// evaluates against an immutable snapshot, but the engine thread is
	// free to swap all three wholesale on Rebuild (spec §5 "the Library is
	// mutated only by the engine thread").
	mu          sync.RWMutex
	library     *entities.Library
	rules       *entities.Rules
	rulesScript string
}

// New constructs an Engine with an empty Library and no Rules; call
// BuildSite before rendering anything.
func New(paths entities.EnginePaths, deps EngineDeps) *Engine {
	return &Engine{
		Paths:          paths,
		Template:       deps.Template,
		Markdown:       deps.Markdown,
		Highlighter:    deps.Highlighter,
		Scripting:      deps.Scripting,
		Frontmatter:    deps.Frontmatter,
		Pipeline:       deps.Pipeline,
		Discover:       deps.Discover,
		Minify:         deps.Minify,
		Log:            deps.Log,
		RenderBehavior: deps.RenderBehavior,
		library:        entities.NewLibrary(),
	}
}

// EngineDeps collects every adapter the Engine needs. Grouping them avoids
// an unwieldy New() parameter list as the component count grows (spec §2
// lists eleven components; the Engine is the coordinator over the other
// ten).
type EngineDeps struct {
	Template       TemplateRenderer
	Markdown       MarkdownRenderer
	Highlighter    SyntaxHighlighter
	Scripting      ScriptingHost
	Frontmatter    FrontmatterSplitter
	Pipeline       AssetPipelineRunner
	Discover       Discoverer
	Minify         Minifier
	Log            Logger
	RenderBehavior entities.RenderBehavior
}

// Library returns the engine's current page index. Safe for concurrent
// read access while a rebuild is not in flight.
func (e *Engine) Library() *entities.Library {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.library
}

// Rules returns the engine's current frozen Rules, or nil if the rules
// script has not yet been evaluated.
func (e *Engine) Rules() *entities.Rules {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// readRulesScript loads the rules-script file contents from disk.
func (e *Engine) readRulesScript() (string, error) {
	b, err := os.ReadFile(e.Paths.RulesScript)
	if err != nil {
		return "", entities.NewError(entities.ErrKindIO, "failed to read rules script", err).
			WithContext("path", e.Paths.RulesScript)
	}
	return string(b), nil
}

// loadPage parses one Markdown source file into a Page, deriving its URI
// and output target from the content-root-relative path (spec §3 "Page",
// invariant 1 "URI determinism").
func (e *Engine) loadPage(absPath string) (entities.Page, error) {
	rel, err := filepath.Rel(e.Paths.Content, absPath)
	if err != nil {
		return entities.Page{}, entities.NewError(entities.ErrKindIO, "page path escapes content root", err).
			WithContext("path", absPath)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return entities.Page{}, entities.NewError(entities.ErrKindIO, "failed to read page source", err).
			WithContext("path", absPath)
	}

	fm, body, err := e.Frontmatter.Split(string(raw))
	if err != nil {
		return entities.Page{}, entities.NewError(entities.ErrKindParse, "failed to parse frontmatter", err).
			WithContext("path", absPath)
	}

	contentBase, err := e.projectRelBase(e.Paths.Content)
	if err != nil {
		return entities.Page{}, entities.NewError(entities.ErrKindIO, "content root is not under project root", err).
			WithContext("content", e.Paths.Content)
	}
	outputBase, err := e.projectRelBase(e.Paths.Output)
	if err != nil {
		return entities.Page{}, entities.NewError(entities.ErrKindIO, "output root is not under project root", err).
			WithContext("output", e.Paths.Output)
	}

	source := entities.NewPath[entities.MdKind](e.Paths.ProjectRoot, contentBase, rel)
	uri := entities.DeriveURI(source)
	targetRel := source.RelTo(".html")
	target := entities.NewPath[entities.HtmlKind](e.Paths.ProjectRoot, outputBase, targetRel)

	return entities.Page{
		Source:      source,
		FrontMatter: fm,
		Body:        body,
		URI:         uri,
		Target:      target,
	}, nil
}

// URIToOutputPath maps a page's computed URI to its absolute output path.
func (e *Engine) URIToOutputPath(uri string) string {
	return filepath.Join(e.Paths.Output, filepath.FromSlash(uri))
}

// contentRelSlash returns absPath relative to e.Paths.Content, using
// forward slashes, for matcher/glob comparisons.
func (e *Engine) contentRelSlash(absPath string) (string, error) {
	rel, err := filepath.Rel(e.Paths.Content, absPath)
	if err != nil {
		return "", fmt.Errorf("path %q escapes content root: %w", absPath, err)
	}
	return filepath.ToSlash(rel), nil
}

// projectRelBase returns absPath (a directory under e.Paths.ProjectRoot)
// expressed relative to the project root, the form entities.NewPath
// expects as its "base" argument.
func (e *Engine) projectRelBase(absDir string) (string, error) {
	rel, err := filepath.Rel(e.Paths.ProjectRoot, absDir)
	if err != nil {
		return "", err
	}
	return rel, nil
}
