package entities

import "path/filepath"

// PageKey is an opaque handle assigned at insertion time; it never mutates
// for the lifetime of the page (spec §3 "Page" invariants).
type PageKey uint64

// Page is a parsed Markdown document. It is immutable after insertion until
// a rebuild replaces it wholesale.
type Page struct {
	Key        PageKey
	Source     Path[MdKind]
	FrontMatter FrontMatter
	Body       string
	URI        string
	Target     Path[HtmlKind]
}

// DeriveURI computes the canonical URI for a source path relative to
// content_root: the extension replaced by .html, with a leading slash
// (spec §6 "URI mapping", invariant 1 "URI determinism").
func DeriveURI(source Path[MdKind]) string {
	rel := source.RelTo(".html")
	return "/" + filepath.ToSlash(rel)
}
