package entities

import "fmt"

// OperationKind distinguishes the two operation forms an asset pipeline
// step may take (spec §3 "Pipeline", §4.5).
type OperationKind int

const (
	OpCopy OperationKind = iota
	OpShell
)

// Operation is one step of a Pipeline: a plain copy, or a shell command
// template containing $INPUT and optionally $OUTPUT placeholders.
type Operation struct {
	Kind    OperationKind
	Command string // only meaningful when Kind == OpShell
}

// ParseOperation parses the scripting host's string form of an operation:
// the literal "copy", or "shell:<command template>".
func ParseOperation(s string) (Operation, error) {
	if s == "copy" {
		return Operation{Kind: OpCopy}, nil
	}
	const prefix = "shell:"
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return Operation{Kind: OpShell, Command: s[len(prefix):]}, nil
	}
	return Operation{}, fmt.Errorf("entities: invalid pipeline operation %q (want \"copy\" or \"shell:<cmd>\")", s)
}

// AutorunTriggerKind distinguishes whether a pipeline re-runs when its own
// target glob matches a changed file, or when a separately declared glob
// (the "source glob") matches instead.
type AutorunTriggerKind int

const (
	TriggerTargetGlob AutorunTriggerKind = iota
	TriggerCustomGlob
)

// AutorunTrigger governs when a Pipeline re-runs in incremental rebuild
// mode (spec §3 "Pipeline", §4.5 "Autorun triggers govern incremental
// mode").
type AutorunTrigger struct {
	Kind    AutorunTriggerKind
	Matcher Matcher
}

// Pipeline is an ordered sequence of operations bound to a target glob and
// an autorun trigger, chained through a temp-file artifact (spec §4.5).
type Pipeline struct {
	TargetGlob Matcher
	Autorun    AutorunTrigger
	Ops        []Operation
}

// NewPipeline builds a Pipeline whose autorun trigger defaults to its own
// target glob (the two-arg scripting form, spec §4.4 `add_pipeline(target,
// ops)`).
func NewPipeline(targetGlob Matcher, ops []Operation) Pipeline {
	return Pipeline{
		TargetGlob: targetGlob,
		Autorun:    AutorunTrigger{Kind: TriggerTargetGlob, Matcher: targetGlob},
		Ops:        ops,
	}
}

// NewPipelineWithTrigger builds a Pipeline with an explicit, independent
// autorun glob (the three-arg scripting form).
func NewPipelineWithTrigger(targetGlob, triggerGlob Matcher, ops []Operation) Pipeline {
	return Pipeline{
		TargetGlob: targetGlob,
		Autorun:    AutorunTrigger{Kind: TriggerCustomGlob, Matcher: triggerGlob},
		Ops:        ops,
	}
}

// MatchesTarget reports whether an asset's relative path matches this
// pipeline's target glob.
func (p Pipeline) MatchesTarget(assetRelPath string) bool {
	return p.TargetGlob.IsMatch(assetRelPath)
}

// MatchesAutorun reports whether a changed path should re-trigger this
// pipeline during incremental rebuild.
func (p Pipeline) MatchesAutorun(changedRelPath string) bool {
	return p.Autorun.Matcher.IsMatch(changedRelPath)
}

// LinkedAsset is a URI discovered in rendered HTML, paired with the
// absolute output-directory path it resolves to and the HTML file that
// referenced it (spec §3 "Linked asset").
type LinkedAsset struct {
	URI          string
	OutputPath   string
	ReferencedBy string
}
