// Package scripting adapts go.starlark.net to the usecases.ScriptingHost
// port: it evaluates a rules script once to populate an entities.Rules
// value, and later invokes the *starlark.Function values captured during
// that evaluation directly — a Starlark closure already carries everything
// needed to run again, so unlike the original Rhai host there is no
// separate "runner" engine that recompiles the script text per callback
// (spec §4.4, §9 "Scripting callbacks").
package scripting

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

var fileOptions = &syntax.FileOptions{
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// maxExecutionSteps bounds every thread this host creates against a
// runaway or malicious rules script (spec §4.4 "script resource limits").
// go.starlark.net exposes a step counter but no native call-depth or
// imported-module ceiling; SetMaxExecutionSteps is the one bound its API
// gives us, so it is applied at every thread-construction site.
const maxExecutionSteps = 1_000_000

// Host implements usecases.ScriptingHost.
type Host struct {
	print func(thread *starlark.Thread, msg string)
}

// New returns a Host that prints script `print()` output through logFn.
func New(logFn func(msg string)) *Host {
	return &Host{
		print: func(_ *starlark.Thread, msg string) {
			if logFn != nil {
				logFn(msg)
			}
		},
	}
}

var _ usecases.ScriptingHost = (*Host)(nil)

// BuildRules implements spec §4.4: it evaluates script once against a
// thread predeclaring `rules`, `PAGES`, `DENY`, and `WARN`, exactly the
// global names the original host scoped in (original_source
// pylonlib/src/core/script_engine.rs new_scope), and returns the
// populated, now-frozen Rules.
func (h *Host) BuildRules(ctx context.Context, script string, library *entities.Library) (*entities.Rules, error) {
	rules := entities.NewRules()

	thread := &starlark.Thread{Name: "rules-build", Print: h.print}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	predeclared := starlark.StringDict{
		"rules": rulesModule(rules),
		"PAGES": pagesModule(library),
		"DENY":  starlark.MakeInt(int(entities.LintDeny)),
		"WARN":  starlark.MakeInt(int(entities.LintWarn)),
	}

	if _, err := starlark.ExecFileOptions(fileOptions, thread, "rules.star", script, predeclared); err != nil {
		return nil, err
	}

	return rules, nil
}

// CallContextGenerator invokes a captured context-generator function with
// the page's data and converts the returned dict into a map[string]any
// (spec §4.4 "new_context(map) produces a list of {identifier, data}
// pairs", modeled here as a single-level map since Starlark dict keys are
// already unique per call).
func (h *Host) CallContextGenerator(ctx context.Context, script string, ref entities.ContextGeneratorRef, page entities.Page) (map[string]any, error) {
	fn, ok := ref.Fn.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("scripting: context generator %q is not a callable", ref.Name)
	}
	thread := &starlark.Thread{Name: "context:" + ref.Name, Print: h.print}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	result, err := starlark.Call(thread, fn, starlark.Tuple{pageValue(page)}, nil)
	if err != nil {
		return nil, err
	}
	dict, ok := result.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("scripting: context generator %q must return a dict, got %s", ref.Name, result.Type())
	}
	out := map[string]any{}
	for _, item := range dict.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return nil, fmt.Errorf("scripting: context generator %q returned a non-string key", ref.Name)
		}
		v, err := starlarkToGo(item[1])
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// CallLint invokes a captured lint function; it must return a string
// message (spec §4.7).
func (h *Host) CallLint(ctx context.Context, script string, ref entities.LintRef, page entities.Page) (entities.LintFinding, error) {
	fn, ok := ref.Fn.(*starlark.Function)
	if !ok {
		return entities.LintFinding{}, fmt.Errorf("scripting: lint %q is not a callable", ref.Name)
	}
	thread := &starlark.Thread{Name: "lint:" + ref.Name, Print: h.print}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	result, err := starlark.Call(thread, fn, starlark.Tuple{pageValue(page)}, nil)
	if err != nil {
		return entities.LintFinding{}, err
	}
	msg, ok := starlark.AsString(result)
	if !ok {
		return entities.LintFinding{}, fmt.Errorf("scripting: lint %q must return a string, got %s", ref.Name, result.Type())
	}
	return entities.LintFinding{URI: page.URI, Level: ref.Level, Message: msg}, nil
}

// CallFrontmatterHook invokes a captured frontmatter hook and interprets
// its return value: None or "" is Ok, any other string is Warn with that
// message, and a ("warn", msg) or ("error", msg) tuple is Warn or Error.
// Any other value, or an error raised by the hook, is returned as an error.
func (h *Host) CallFrontmatterHook(ctx context.Context, script string, ref entities.FrontmatterHookRef, page entities.Page) (entities.FrontmatterHookResponse, error) {
	fn, ok := ref.Fn.(*starlark.Function)
	if !ok {
		return entities.FrontmatterHookResponse{}, fmt.Errorf("scripting: frontmatter hook %q is not a callable", ref.Name)
	}
	thread := &starlark.Thread{Name: "frontmatter_hook:" + ref.Name, Print: h.print}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	result, err := starlark.Call(thread, fn, starlark.Tuple{pageValue(page)}, nil)
	if err != nil {
		return entities.FrontmatterHookResponse{}, err
	}
	return parseHookResponse(result)
}

func parseHookResponse(v starlark.Value) (entities.FrontmatterHookResponse, error) {
	if v == starlark.None {
		return entities.FrontmatterHookResponse{Kind: entities.HookOk}, nil
	}
	if s, ok := starlark.AsString(v); ok {
		if s == "" {
			return entities.FrontmatterHookResponse{Kind: entities.HookOk}, nil
		}
		return entities.FrontmatterHookResponse{Kind: entities.HookWarn, Message: s}, nil
	}
	tup, ok := v.(starlark.Tuple)
	if ok && len(tup) == 2 {
		kind, ok1 := starlark.AsString(tup[0])
		msg, ok2 := starlark.AsString(tup[1])
		if ok1 && ok2 {
			switch kind {
			case "warn":
				return entities.FrontmatterHookResponse{Kind: entities.HookWarn, Message: msg}, nil
			case "error":
				return entities.FrontmatterHookResponse{Kind: entities.HookError, Message: msg}, nil
			}
		}
	}
	return entities.FrontmatterHookResponse{}, fmt.Errorf("scripting: frontmatter hook returned an unrecognized value: %v", v)
}
