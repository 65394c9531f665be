package entities

// FrontMatter is the parsed TOML header of a source document (spec §3
// "Frontmatter"). Missing frontmatter is a valid empty object with the
// documented defaults applied.
type FrontMatter struct {
	TemplateName   string         `toml:"template_name"`
	Keywords       []string       `toml:"keywords"`
	UseBreadcrumbs bool           `toml:"use_breadcrumbs"`
	Published      bool           `toml:"published"`
	Searchable     bool           `toml:"searchable"`
	Meta           map[string]any `toml:"meta"`
}

// NewFrontMatter returns the zero-value frontmatter with the spec's
// documented defaults (`published` and `searchable` default true).
func NewFrontMatter() FrontMatter {
	return FrontMatter{
		Published:  true,
		Searchable: true,
		Meta:       map[string]any{},
	}
}

// MetaValue returns the value at key, or nil if absent.
func (f FrontMatter) MetaValue(key string) any {
	if f.Meta == nil {
		return nil
	}
	return f.Meta[key]
}
