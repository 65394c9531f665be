package scripting

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// rulesModule builds the `rules` predeclared global: a namespace of
// builtins closing over the Rules value under construction, mirroring the
// method names the original rhai_module exported (add_pipeline,
// add_page_context, add_frontmatter_hook, set_global_context) plus
// add_lint and add_shortcode, which spec §4.4/§13 add to this host.
func rulesModule(rules *entities.Rules) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "rules",
		Members: starlark.StringDict{
			"add_pipeline":          starlark.NewBuiltin("add_pipeline", addPipeline(rules)),
			"add_page_context":      starlark.NewBuiltin("add_page_context", addPageContext(rules)),
			"add_lint":              starlark.NewBuiltin("add_lint", addLint(rules)),
			"add_frontmatter_hook":  starlark.NewBuiltin("add_frontmatter_hook", addFrontmatterHook(rules)),
			"set_global_context":    starlark.NewBuiltin("set_global_context", setGlobalContext(rules)),
			"add_shortcode":         starlark.NewBuiltin("add_shortcode", addShortcode(rules)),
		},
	}
}

type builtinFn = func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

func addPipeline(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var targetGlob, sourceGlob starlark.String
		var ops *starlark.List

		switch len(args) {
		case 2:
			if err := starlark.UnpackArgs("add_pipeline", args, kwargs, "target_glob", &targetGlob, "ops", &ops); err != nil {
				return nil, err
			}
		case 3:
			if err := starlark.UnpackArgs("add_pipeline", args, kwargs, "target_glob", &targetGlob, "source_glob", &sourceGlob, "ops", &ops); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("add_pipeline: want 2 or 3 positional arguments, got %d", len(args))
		}

		parsedOps, err := parseOperationList(ops)
		if err != nil {
			return nil, err
		}

		targetMatcher, err := entities.NewMatcher(string(targetGlob))
		if err != nil {
			return nil, fmt.Errorf("add_pipeline: %w", err)
		}

		var pipeline entities.Pipeline
		if sourceGlob != "" {
			sourceMatcher, err := entities.NewMatcher(string(sourceGlob))
			if err != nil {
				return nil, fmt.Errorf("add_pipeline: %w", err)
			}
			pipeline = entities.NewPipelineWithTrigger(targetMatcher, sourceMatcher, parsedOps)
		} else {
			pipeline = entities.NewPipeline(targetMatcher, parsedOps)
		}

		rules.AddPipeline(pipeline)
		return starlark.None, nil
	}
}

func parseOperationList(ops *starlark.List) ([]entities.Operation, error) {
	if ops == nil {
		return nil, nil
	}
	out := make([]entities.Operation, 0, ops.Len())
	iter := ops.Iterate()
	defer iter.Done()
	var v starlark.Value
	for iter.Next(&v) {
		s, ok := starlark.AsString(v)
		if !ok {
			return nil, fmt.Errorf("add_pipeline: operation list must contain only strings")
		}
		op, err := entities.ParseOperation(s)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

func addPageContext(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var glob starlark.String
		var fn starlark.Value
		if err := starlark.UnpackArgs("add_page_context", args, kwargs, "glob", &glob, "generator", &fn); err != nil {
			return nil, err
		}
		matcher, err := entities.NewMatcher(string(glob))
		if err != nil {
			return nil, fmt.Errorf("add_page_context: %w", err)
		}
		starFn, ok := fn.(*starlark.Function)
		if !ok {
			return nil, fmt.Errorf("add_page_context: generator must be a def'd function")
		}
		rules.AddContextGenerator(matcher, entities.ContextGeneratorRef{Name: starFn.Name(), Fn: starFn})
		return starlark.None, nil
	}
}

func addLint(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var level starlark.Int
		var glob starlark.String
		var fn starlark.Value
		if err := starlark.UnpackArgs("add_lint", args, kwargs, "level", &level, "glob", &glob, "fn", &fn); err != nil {
			return nil, err
		}
		matcher, err := entities.NewMatcher(string(glob))
		if err != nil {
			return nil, fmt.Errorf("add_lint: %w", err)
		}
		levelInt, ok := level.Int64()
		if !ok {
			return nil, fmt.Errorf("add_lint: level must be WARN or DENY")
		}
		starFn, ok := fn.(*starlark.Function)
		if !ok {
			return nil, fmt.Errorf("add_lint: fn must be a def'd function")
		}
		rules.AddLint(matcher, entities.LintRef{Level: entities.LintLevel(levelInt), Name: starFn.Name(), Fn: starFn})
		return starlark.None, nil
	}
}

func addFrontmatterHook(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var glob starlark.String
		var fn starlark.Value
		if err := starlark.UnpackArgs("add_frontmatter_hook", args, kwargs, "glob", &glob, "hook", &fn); err != nil {
			return nil, err
		}
		matcher, err := entities.NewMatcher(string(glob))
		if err != nil {
			return nil, fmt.Errorf("add_frontmatter_hook: %w", err)
		}
		starFn, ok := fn.(*starlark.Function)
		if !ok {
			return nil, fmt.Errorf("add_frontmatter_hook: hook must be a def'd function")
		}
		rules.AddFrontmatterHook(matcher, entities.FrontmatterHookRef{Name: starFn.Name(), Fn: starFn})
		return starlark.None, nil
	}
}

func setGlobalContext(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value starlark.Value
		if err := starlark.UnpackArgs("set_global_context", args, kwargs, "ctx", &value); err != nil {
			return nil, err
		}
		goValue, err := starlarkToGo(value)
		if err != nil {
			return nil, err
		}
		rules.SetGlobalContext(goValue)
		return starlark.None, nil
	}
}

func addShortcode(rules *entities.Rules) builtinFn {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, templateName starlark.String
		if err := starlark.UnpackArgs("add_shortcode", args, kwargs, "name", &name, "template_name", &templateName); err != nil {
			return nil, err
		}
		rules.AddShortcode(string(name), entities.ShortcodeDef{Name: string(name), TemplateName: string(templateName)})
		return starlark.None, nil
	}
}

// pagesModule exposes read-only introspection over the Library as the
// `PAGES` global (original_source script_engine.rs scope.push("PAGES",
// page_store.clone())).
func pagesModule(library *entities.Library) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "PAGES",
		Members: starlark.StringDict{
			"all_uris": starlark.NewBuiltin("all_uris", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				pages := library.Iter()
				uris := make([]starlark.Value, 0, len(pages))
				for _, p := range pages {
					uris = append(uris, starlark.String(p.URI))
				}
				return starlark.NewList(uris), nil
			}),
		},
	}
}
