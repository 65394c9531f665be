// Package usecases defines the ports the Engine coordinates against, and
// the coordinator itself. Adapters under internal/adapters implement these
// interfaces; the Engine depends only on the interfaces, never on a
// concrete adapter package, so every adapter can be exercised in isolation
// or swapped in tests.
package usecases

import (
	"context"
	"io"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// TemplateRenderer defines the interface for the page-templating layer.
//
// Implementations MUST discover every template file under a root at
// construction and recompile on Reload. Render MUST fail with a
// *entities.Error of kind ErrKindTemplateNotFound when name is unknown, and
// ErrKindTemplateRender on any execution failure.
type TemplateRenderer interface {
	Render(name string, ctx map[string]any) (string, error)
	RenderShortcode(name string, args map[string]any) (string, error)
	Reload() error
	TemplateNames() []string
}

// MarkdownRenderer defines the interface for converting a raw Markdown
// document body into HTML.
//
// Implementations MUST invoke rewriter for every link whose destination has
// an "@/" prefix and substitute the returned URI before emitting the anchor.
// All other links and markup pass through unchanged.
type MarkdownRenderer interface {
	Render(raw string, rewriter LinkRewriter) (string, error)
}

// LinkRewriter resolves an "@/relative/path.md" reference to the target
// page's URI. Implementations MUST return ErrKindUnresolvedInternalLink if
// the Library has no page at that path.
type LinkRewriter func(relPath string) (string, error)

// SyntaxHighlighter defines the interface for fenced-code-block rendering.
//
// Implementations MUST fall back to a plain <pre><code> block for unknown
// language tokens rather than failing.
type SyntaxHighlighter interface {
	Highlight(code, language string) (string, error)
	GenerateCSSTheme(themeName string) (css string, err error)
	ThemeNames() []string
}

// ScriptingHost defines the interface for the embedded rules-scripting
// language.
//
// BuildRules compiles and evaluates the script once to produce the frozen
// Rules value. CallContextGenerator/CallLint/CallFrontmatterHook receive the
// script text too; the Starlark implementation does not recompile it and
// has no separate "runner" engine: it calls the function reference captured
// in the ref directly, with the page as its argument.
type ScriptingHost interface {
	BuildRules(ctx context.Context, script string, library *entities.Library) (*entities.Rules, error)
	CallContextGenerator(ctx context.Context, script string, ref entities.ContextGeneratorRef, page entities.Page) (map[string]any, error)
	CallLint(ctx context.Context, script string, ref entities.LintRef, page entities.Page) (entities.LintFinding, error)
	CallFrontmatterHook(ctx context.Context, script string, ref entities.FrontmatterHookRef, page entities.Page) (entities.FrontmatterHookResponse, error)
}

// AssetPipelineRunner defines the interface for running one pipeline
// against one discovered asset.
//
// Implementations MUST chain operations through a temporary artifact path
// and fail the whole pipeline if any operation fails (spec §4.5).
type AssetPipelineRunner interface {
	Run(ctx context.Context, pipeline entities.Pipeline, srcRoot, outputRoot, assetRelPath string) error
}

// Discoverer defines the interface for walking the content tree and
// extracting linked assets from rendered HTML.
type Discoverer interface {
	WalkMarkdown(root string) ([]string, error)
	AssetsInHTML(html string) []string
}

// FrontmatterSplitter defines the interface for splitting a source
// document into its TOML frontmatter and Markdown body, and rejoining them.
//
// Implementations MUST satisfy the round-trip invariant: Split(Join(fm, body))
// returns fm and body again for any body that contains no `+++`-only line
// (spec invariant 3). Join re-encodes the TOML, so Join(Split(doc)) need not
// reproduce doc byte-for-byte.
type FrontmatterSplitter interface {
	Split(doc string) (entities.FrontMatter, string, error)
	Join(fm entities.FrontMatter, body string) (string, error)
}

// Broker defines the interface for the two-channel engine/dev-server
// message hub (spec §4.9).
//
// Implementations MUST be safe to clone; every clone shares the same
// underlying channels, and every send/receive method is safe for
// concurrent use from any goroutine holding a clone.
type Broker interface {
	SendEngineMsg(ctx context.Context, msg entities.EngineMsg) error
	RecvEngineMsg(ctx context.Context) (entities.EngineMsg, error)
	SendDevServerMsg(ctx context.Context, msg entities.DevServerMsg) error
	RecvDevServerMsg(ctx context.Context) (entities.DevServerMsg, error)
	Clone() Broker
}

// Watcher defines the interface for the debounced filesystem watcher.
//
// Implementations MUST fold raw OS events arriving within the debounce
// window into a single entities.FilesystemUpdateEvents and post it as an
// EngineMsgFilesystemUpdate via the given Broker (spec §4.10).
type Watcher interface {
	Watch(ctx context.Context, roots []string, broker Broker) error
}

// ConfigLoader defines the interface for resolving EnginePaths and server
// options from defaults, the global and project config files, and
// environment variables (§10.3).
type ConfigLoader interface {
	Load(projectRoot string) (entities.EnginePaths, ServerOptions, error)
}

// ServerOptions carries the `serve` subcommand's runtime knobs.
type ServerOptions struct {
	Bind            string
	DebounceMS      int
	RenderBehavior  entities.RenderBehavior
}

// Logger defines the interface every component logs through.
//
// Implementations MUST support structured key/value fields and a
// component-scoped child logger via WithFields.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	WithFields(kv ...any) Logger
}

// Minifier defines the interface for the optional HTML/CSS post-process
// pass (spec §4.6).
type Minifier interface {
	MinifyHTML(w io.Writer, r io.Reader) error
	MinifyCSS(w io.Writer, r io.Reader) error
}
