package entities

// RenderBehavior governs whether render-on-demand (dev-server fallback)
// writes its output to disk or keeps it in memory (spec §4.8, GLOSSARY
// "RenderBehavior").
type RenderBehavior int

const (
	RenderWrite RenderBehavior = iota
	RenderMemory
)

func ParseRenderBehavior(s string) (RenderBehavior, error) {
	switch s {
	case "write":
		return RenderWrite, nil
	case "memory":
		return RenderMemory, nil
	default:
		return 0, NewError(ErrKindConfigInvalid, "render-behavior must be \"write\" or \"memory\"", nil).
			WithContext("value", s)
	}
}

// EnginePaths bundles every project-relative directory the engine and its
// adapters need, threaded explicitly through every constructor instead of
// held as a package-level global — so tests can instantiate many engines
// over temporary trees concurrently (spec §9 "Global-state avoidance",
// §13 "GlobalEnginePaths threading").
type EnginePaths struct {
	ProjectRoot  string
	Content      string
	Templates    string
	SyntaxThemes string
	Output       string
	RulesScript  string
}
