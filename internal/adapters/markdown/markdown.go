// Package markdown converts a page body into HTML with goldmark,
// rewriting "@/" internal links through a caller-supplied LinkRewriter and
// delegating fenced-code-block rendering to a usecases.SyntaxHighlighter
// (spec §4.6 steps 3 and 5).
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/anchor"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// rewriterContextKey stashes the current call's LinkRewriter in a goldmark
// parser.Context so the link transformer can reach it without making the
// Renderer itself call-scoped.
var rewriterContextKey = parser.NewContextKey()

// Renderer implements usecases.MarkdownRenderer.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer wired to highlighter for fenced code blocks.
func New(highlighter usecases.SyntaxHighlighter) *Renderer {
	hl := &highlightRenderer{highlighter: highlighter}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&anchor.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&linkRewriteTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(hl, 200),
			),
		),
	)

	return &Renderer{md: md}
}

var _ usecases.MarkdownRenderer = (*Renderer)(nil)

func (r *Renderer) Render(raw string, rewriter usecases.LinkRewriter) (string, error) {
	pc := parser.NewContext()
	pc.Set(rewriterContextKey, rewriter)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(raw), &buf, parser.WithContext(pc)); err != nil {
		return "", entities.NewError(entities.ErrKindParse, "markdown conversion failed", err)
	}
	if rewriteErr, ok := pc.Get(rewriteErrorContextKey).(error); ok && rewriteErr != nil {
		return "", rewriteErr
	}
	return buf.String(), nil
}

// linkRewriteTransformer rewrites "@/relative/path.md" link destinations to
// the target page's URI via the rewriter stashed in the parser context.
type linkRewriteTransformer struct{}

func (t *linkRewriteTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	rewriter, _ := pc.Get(rewriterContextKey).(usecases.LinkRewriter)
	if rewriter == nil {
		return
	}

	var walkErr error
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindLink {
			return ast.WalkContinue, nil
		}
		link := n.(*ast.Link)
		dest := string(link.Destination)
		if !strings.HasPrefix(dest, "@/") {
			return ast.WalkContinue, nil
		}
		relPath := strings.TrimPrefix(dest, "@/")
		uri, err := rewriter(relPath)
		if err != nil {
			walkErr = err
			return ast.WalkStop, err
		}
		link.Destination = []byte(uri)
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		pc.Set(rewriteErrorContextKey, walkErr)
	}
}

var rewriteErrorContextKey = parser.NewContextKey()

// highlightRenderer delegates fenced code block rendering to a
// usecases.SyntaxHighlighter instead of embedding a lexer/formatter
// directly in the markdown layer.
type highlightRenderer struct {
	highlighter usecases.SyntaxHighlighter
}

func (h *highlightRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, h.renderFencedCodeBlock)
}

func (h *highlightRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	language := ""
	if lang := n.Language(source); lang != nil {
		language = string(lang)
	}

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	out, err := h.highlighter.Highlight(code.String(), language)
	if err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(out)
	return ast.WalkContinue, nil
}
