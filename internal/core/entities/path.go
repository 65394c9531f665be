package entities

import (
	"path/filepath"
	"strings"
)

// PathKind is a phantom tag distinguishing what a Path is allowed to point
// at. The type system can't stop a caller from handing a template Path to a
// function expecting a content Path unless the kind is part of the type —
// Path[K] carries K as a zero-size type parameter so the distinction costs
// nothing at runtime (spec §3 "Path kinds", §9 "Phantom-typed paths").
type PathKind interface {
	pathKind()
}

// AnyKind accepts any file. HtmlKind, MdKind, and DirKind narrow the set of
// valid operations a Path[K] supports (e.g. only Path[MdKind] gets parsed
// as a document).
type (
	AnyKind  struct{}
	HtmlKind struct{}
	MdKind   struct{}
	DirKind  struct{}
)

func (AnyKind) pathKind()  {}
func (HtmlKind) pathKind() {}
func (MdKind) pathKind()   {}
func (DirKind) pathKind()  {}

// Path is a system path: project_root (absolute) + base + target (both
// relative), joining to an absolute location. It is "unchecked" until
// Confirm verifies it against the filesystem, at which point Checked
// becomes true (spec §3: "unchecked"/"confirmed" path states).
type Path[K PathKind] struct {
	projectRoot string
	base        string
	target      string
	checked     bool
}

// NewPath builds an unchecked Path from a project root, a base directory
// (relative to the root, e.g. "content"), and a target (relative to base).
func NewPath[K PathKind](projectRoot, base, target string) Path[K] {
	return Path[K]{
		projectRoot: filepath.Clean(projectRoot),
		base:        filepath.Clean(base),
		target:      filepath.Clean(target),
	}
}

// Abs returns the joined absolute filesystem path.
func (p Path[K]) Abs() string {
	return filepath.Join(p.projectRoot, p.base, p.target)
}

// Target returns the path relative to base (e.g. "posts/hello.md").
func (p Path[K]) Target() string { return p.target }

// Base returns the base directory relative to the project root.
func (p Path[K]) Base() string { return p.base }

// ProjectRoot returns the absolute project root this path was built from.
func (p Path[K]) ProjectRoot() string { return p.projectRoot }

// Checked reports whether this path has been confirmed to exist.
func (p Path[K]) Checked() bool { return p.checked }

// confirmed returns a copy of p marked as filesystem-verified. Code outside
// this package reaches it only through WithConfirmed.
func (p Path[K]) confirmed() Path[K] {
	cp := p
	cp.checked = true
	return cp
}

// WithConfirmed is exported for adapters (discovery, watcher) that have
// independently verified the path exists and want to carry that fact.
func (p Path[K]) WithConfirmed() Path[K] { return p.confirmed() }

// Retag reinterprets a Path under a different phantom kind without
// touching the underlying segments. Used when a generic AnyKind path
// discovered by a directory walk is classified as Md/Html/Dir once its
// extension is inspected.
func Retag[From, To PathKind](p Path[From]) Path[To] {
	return Path[To]{
		projectRoot: p.projectRoot,
		base:        p.base,
		target:      p.target,
		checked:     p.checked,
	}
}

// RelTo returns the target path with its extension swapped for newExt (or
// newExt appended when it has none); callers join the result under a
// different base to compute output paths (spec §6 "URI mapping").
func (p Path[K]) RelTo(newExt string) string {
	ext := filepath.Ext(p.target)
	if ext == "" {
		return p.target + newExt
	}
	return strings.TrimSuffix(p.target, ext) + newExt
}

// ToSlash returns the target with OS separators normalized to '/', the
// form used when deriving URIs.
func (p Path[K]) ToSlash() string {
	return filepath.ToSlash(p.target)
}
