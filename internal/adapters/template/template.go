// Package template implements usecases.TemplateRenderer with html/template,
// discovering every ".tera"-named file under a root and keying each by its
// root-relative slash path, in the spirit of the teacher's keyed
// text/template.Template built from a fixed template map (spec §4.3).
package template

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	htemplate "html/template"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

const extension = ".tera"

// Renderer implements usecases.TemplateRenderer.
type Renderer struct {
	root        string
	projectRoot string

	mu    sync.RWMutex
	tmpl  *htemplate.Template
	names []string
}

// New discovers every .tera file under root and compiles it, keyed by its
// root-relative slash path. include_file(path) is registered as a custom
// function resolving absolute paths against projectRoot.
func New(root, projectRoot string) (*Renderer, error) {
	r := &Renderer{root: root, projectRoot: projectRoot}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

var _ usecases.TemplateRenderer = (*Renderer)(nil)

func (r *Renderer) funcMap() htemplate.FuncMap {
	return htemplate.FuncMap{
		"include_file": r.includeFile,
	}
}

func (r *Renderer) includeFile(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", entities.NewError(entities.ErrKindTemplateRender, "include_file path must be absolute", nil).
			WithContext("path", path)
	}
	full := filepath.Join(r.projectRoot, strings.TrimPrefix(path, "/"))
	info, err := os.Stat(full)
	if err != nil {
		return "", entities.NewError(entities.ErrKindTemplateRender, "include_file target not found", err).
			WithContext("path", path)
	}
	if !info.Mode().IsRegular() {
		return "", entities.NewError(entities.ErrKindTemplateRender, "include_file target is not a regular file", nil).
			WithContext("path", path)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return "", entities.NewError(entities.ErrKindTemplateRender, "include_file read failed", err).
			WithContext("path", path)
	}
	return string(content), nil
}

// Reload re-walks root and recompiles every .tera file.
func (r *Renderer) Reload() error {
	tmpl := htemplate.New("root").Funcs(r.funcMap())
	var names []string

	err := filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, extension) {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return entities.NewError(entities.ErrKindParse, "template compile failed", err).
				WithContext("template", name)
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		if perr, ok := err.(*entities.Error); ok {
			return perr
		}
		return entities.NewError(entities.ErrKindIO, "template discovery failed", err).
			WithContext("root", r.root)
	}

	sort.Strings(names)

	r.mu.Lock()
	r.tmpl = tmpl
	r.names = names
	r.mu.Unlock()
	return nil
}

func (r *Renderer) TemplateNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Render executes the named template. The "content" context key, when
// present, is injected unescaped: it holds already-rendered page HTML, not
// user-facing template source.
func (r *Renderer) Render(name string, ctx map[string]any) (string, error) {
	return r.execute(name, ctx)
}

// RenderShortcode executes a template under the "shortcodes/" subdirectory
// named after the shortcode (spec §4.2, §4.6 item 4).
func (r *Renderer) RenderShortcode(name string, args map[string]any) (string, error) {
	return r.execute("shortcodes/"+name+extension, args)
}

func (r *Renderer) execute(name string, ctx map[string]any) (string, error) {
	r.mu.RLock()
	tmpl := r.tmpl.Lookup(name)
	r.mu.RUnlock()

	if tmpl == nil {
		return "", entities.NewError(entities.ErrKindTemplateNotFound, "template not found", nil).
			WithContext("template", name)
	}

	data := make(map[string]any, len(ctx))
	for k, v := range ctx {
		data[k] = v
	}
	if content, ok := data["content"].(string); ok {
		data["content"] = htemplate.HTML(content) //nolint:gosec // already-rendered page body, not user input
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", entities.NewError(entities.ErrKindTemplateRender, "template execution failed", err).
			WithContext("template", name)
	}
	return buf.String(), nil
}
