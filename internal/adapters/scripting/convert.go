package scripting

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/madstone-tech/pylon/internal/core/entities"
)

// starlarkToGo converts a Starlark value returned from script code into a
// plain Go value suitable for storage as page context or global context
// (spec §3 "global context (JSON value)").
func starlarkToGo(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return v.String(), nil
	case starlark.Float:
		return float64(v), nil
	case starlark.String:
		return string(v), nil
	case *starlark.List:
		out := make([]any, 0, v.Len())
		iter := v.Iterate()
		defer iter.Done()
		var item starlark.Value
		for iter.Next(&item) {
			gv, err := starlarkToGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case starlark.Tuple:
		out := make([]any, 0, len(v))
		for _, item := range v {
			gv, err := starlarkToGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case *starlark.Dict:
		out := map[string]any{}
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("scripting: dict keys must be strings")
			}
			gv, err := starlarkToGo(item[1])
			if err != nil {
				return nil, err
			}
			out[key] = gv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("scripting: cannot convert %s to a Go value", v.Type())
	}
}

// goToStarlark converts a Go value (from frontmatter meta or page fields)
// into a Starlark value to pass into script-defined functions.
func goToStarlark(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case float64:
		return starlark.Float(v), nil
	case []string:
		items := make([]starlark.Value, len(v))
		for i, s := range v {
			items[i] = starlark.String(s)
		}
		return starlark.NewList(items), nil
	case []any:
		items := make([]starlark.Value, len(v))
		for i, e := range v {
			sv, err := goToStarlark(e)
			if err != nil {
				return nil, err
			}
			items[i] = sv
		}
		return starlark.NewList(items), nil
	case map[string]any:
		dict := starlark.NewDict(len(v))
		for k, e := range v {
			sv, err := goToStarlark(e)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("scripting: cannot convert Go value %#v to Starlark", v)
	}
}

// pageValue builds the Starlark dict passed as the sole argument to every
// context generator, lint, and frontmatter hook function (spec §4.4
// "Frontmatter: template_name, meta(key), meta (all)").
func pageValue(page entities.Page) starlark.Value {
	meta := starlark.NewDict(len(page.FrontMatter.Meta))
	for k, v := range page.FrontMatter.Meta {
		sv, err := goToStarlark(v)
		if err != nil {
			sv = starlark.String(fmt.Sprintf("%v", v))
		}
		_ = meta.SetKey(starlark.String(k), sv)
	}

	keywords := make([]starlark.Value, len(page.FrontMatter.Keywords))
	for i, k := range page.FrontMatter.Keywords {
		keywords[i] = starlark.String(k)
	}

	dict := starlark.NewDict(8)
	_ = dict.SetKey(starlark.String("uri"), starlark.String(page.URI))
	_ = dict.SetKey(starlark.String("source_path"), starlark.String(page.Source.ToSlash()))
	_ = dict.SetKey(starlark.String("template_name"), starlark.String(page.FrontMatter.TemplateName))
	_ = dict.SetKey(starlark.String("keywords"), starlark.NewList(keywords))
	_ = dict.SetKey(starlark.String("use_breadcrumbs"), starlark.Bool(page.FrontMatter.UseBreadcrumbs))
	_ = dict.SetKey(starlark.String("published"), starlark.Bool(page.FrontMatter.Published))
	_ = dict.SetKey(starlark.String("searchable"), starlark.Bool(page.FrontMatter.Searchable))
	_ = dict.SetKey(starlark.String("meta"), meta)
	return dict
}
