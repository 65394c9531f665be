package entities

// GeneratorKey is an opaque handle into a glob-keyed store, identifying a
// registered context generator, lint, or frontmatter hook function by
// insertion order (spec §3 "Rules": "a glob-keyed store is a list of
// (Matcher, opaque_key) pairs plus opaque_key -> value mapping").
type GeneratorKey uint64

// GlobStore is a glob-keyed store of values: pairs of (Matcher, key) in
// insertion order, plus the key -> value mapping. FindKeys preserves
// insertion order across ties (spec §3, §4.1 "Ordering").
type GlobStore[V any] struct {
	pairs   []globPair
	values  map[GeneratorKey]V
	nextKey GeneratorKey
}

type globPair struct {
	matcher Matcher
	key     GeneratorKey
}

func NewGlobStore[V any]() *GlobStore[V] {
	return &GlobStore[V]{values: make(map[GeneratorKey]V)}
}

// Add registers value under matcher and returns its key.
func (s *GlobStore[V]) Add(matcher Matcher, value V) GeneratorKey {
	s.nextKey++
	key := s.nextKey
	s.pairs = append(s.pairs, globPair{matcher: matcher, key: key})
	s.values[key] = value
	return key
}

// FindKeys returns every key whose matcher accepts candidate, in
// insertion order.
func (s *GlobStore[V]) FindKeys(candidate string) []GeneratorKey {
	var keys []GeneratorKey
	for _, p := range s.pairs {
		if p.matcher.IsMatch(candidate) {
			keys = append(keys, p.key)
		}
	}
	return keys
}

// Get returns the value for key.
func (s *GlobStore[V]) Get(key GeneratorKey) (V, bool) {
	v, ok := s.values[key]
	return v, ok
}

// FindValues is a convenience wrapper combining FindKeys and Get.
func (s *GlobStore[V]) FindValues(candidate string) []V {
	keys := s.FindKeys(candidate)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ContextGeneratorRef names a scripting-host function pointer that
// produces page context when invoked; the scripting host is the only
// package that knows how to call it, so Rules stores it as an opaque
// reference (the Starlark function value, boxed).
type ContextGeneratorRef struct {
	Name string
	Fn   any
}

// LintRef binds a lint level to a scripting-host function reference.
type LintRef struct {
	Level LintLevel
	Name  string
	Fn    any
}

// FrontmatterHookRef names a scripting-host function reference invoked
// with a Page, returning a FrontmatterHookResponse.
type FrontmatterHookRef struct {
	Name string
	Fn   any
}

// ShortcodeDef names a registered shortcode and its template name, used by
// the shortcode-expansion step (spec §4.6 item
// 4, §13 "Shortcode template resolution detail").
type ShortcodeDef struct {
	Name         string
	TemplateName string
}

// Rules is the mutable configuration object assembled during rules-script
// evaluation and frozen once the script returns (spec §3 "Rules", §9
// "Scripting callbacks that mutate rules").
type Rules struct {
	Pipelines         []Pipeline
	ContextGenerators *GlobStore[ContextGeneratorRef]
	Lints             *GlobStore[LintRef]
	FrontmatterHooks  *GlobStore[FrontmatterHookRef]
	GlobalContext     any
	Shortcodes        map[string]ShortcodeDef
}

// NewRules returns an empty, mutable Rules instance, the value a rules
// script populates via the `rules` global (spec §4.4).
func NewRules() *Rules {
	return &Rules{
		ContextGenerators: NewGlobStore[ContextGeneratorRef](),
		Lints:             NewGlobStore[LintRef](),
		FrontmatterHooks:  NewGlobStore[FrontmatterHookRef](),
		Shortcodes:        make(map[string]ShortcodeDef),
	}
}

func (r *Rules) AddPipeline(p Pipeline) {
	r.Pipelines = append(r.Pipelines, p)
}

func (r *Rules) AddContextGenerator(m Matcher, ref ContextGeneratorRef) {
	r.ContextGenerators.Add(m, ref)
}

func (r *Rules) AddLint(m Matcher, ref LintRef) {
	r.Lints.Add(m, ref)
}

func (r *Rules) AddFrontmatterHook(m Matcher, ref FrontmatterHookRef) {
	r.FrontmatterHooks.Add(m, ref)
}

func (r *Rules) SetGlobalContext(v any) {
	r.GlobalContext = v
}

func (r *Rules) AddShortcode(name string, def ShortcodeDef) {
	r.Shortcodes[name] = def
}
