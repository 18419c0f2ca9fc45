package linker

import (
	"fmt"

	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/types"
)

// TemplateParamKind discriminates template formals.
type TemplateParamKind uint8

const (
	// TemplateType is a type-valued formal.
	TemplateType TemplateParamKind = iota
	// TemplateValue is a generative value formal.
	TemplateValue
)

func (k TemplateParamKind) String() string {
	if k == TemplateType {
		return "type"
	}
	return "value"
}

// TemplateParam is one declared template formal of an entity.
type TemplateParam struct {
	Name     string
	NameSpan source.Span
	DeclSpan source.Span
	Kind     TemplateParamKind
	// DeclInstr is the flat instruction declaring a generative formal.
	// Set at the end of flatten; NoFlatID for type formals.
	DeclInstr FlatID
	// Default is the formal's resolved default argument, computed during
	// typecheck. NotProvided when the declaration carries no default.
	Default types.ConcreteTemplateArg
}

// ResolvedGlobals is a unit's dependency record: every global the unit
// touched during analysis, plus whether every lookup succeeded. The set
// only grows during forward analysis and only shrinks via checkpoint
// rollback.
type ResolvedGlobals struct {
	Refs        []GlobalID
	AllResolved bool
}

// EmptyResolvedGlobals returns the record of a unit that has not been
// analyzed yet.
func EmptyResolvedGlobals() ResolvedGlobals {
	return ResolvedGlobals{AllResolved: true}
}

// Take moves the record out, leaving an untouched one behind.
func (r *ResolvedGlobals) Take() ResolvedGlobals {
	out := *r
	*r = EmptyResolvedGlobals()
	return out
}

// IsUntouched reports whether the record has seen no writes since it was
// last taken.
func (r *ResolvedGlobals) IsUntouched() bool {
	return len(r.Refs) == 0 && r.AllResolved
}

// Checkpoint is an O(1) snapshot of a unit's error and dependency state,
// taken at a pipeline-stage boundary.
type Checkpoint struct {
	Errors      int
	Globals     int
	AllResolved bool
}

// LinkInfo is the full per-entity analysis record. It is owned
// exclusively by its entity and mutated only by the pipeline stage
// currently processing that entity.
type LinkInfo struct {
	Name     string
	NameSpan source.Span
	File     source.FileID
	// DeclIdx locates the entity's declaration inside its file's tree.
	DeclIdx int

	Params []TemplateParam
	Body   Body

	Errors      diag.Store
	Globals     ResolvedGlobals
	Checkpoints []Checkpoint
}

// FullName renders the entity's globally qualified name.
func (l *LinkInfo) FullName() string {
	return "::" + l.Name
}

func (l *LinkInfo) checkpoint() Checkpoint {
	return Checkpoint{
		Errors:      l.Errors.Len(),
		Globals:     len(l.Globals.Refs),
		AllResolved: l.Globals.AllResolved,
	}
}

// BindCheckpoint records the stage boundary snapshot for a stage whose
// analysis mutated the unit in place (declaration gathering). The index
// must be the next expected one.
func (l *LinkInfo) BindCheckpoint(expected int) {
	if len(l.Checkpoints) != expected {
		panic(fmt.Errorf(
			"linker: %s: binding checkpoint %d but %d checkpoints exist",
			l.FullName(), expected, len(l.Checkpoints)))
	}
	l.Checkpoints = append(l.Checkpoints, l.checkpoint())
}

// Reabsorb reattaches externally-held error and dependency state after a
// detached analysis pass, then records the stage checkpoint. The unit
// must be untouched since the state was taken, and the checkpoint index
// must be exactly the next expected one; anything else is a defect in
// the orchestrator, not a user diagnostic.
func (l *LinkInfo) Reabsorb(errors diag.Store, globals ResolvedGlobals, checkpointIdx int) {
	if !l.Errors.IsUntouched() {
		panic(fmt.Errorf("linker: %s: reabsorbing into a touched error store", l.FullName()))
	}
	if !l.Globals.IsUntouched() {
		panic(fmt.Errorf("linker: %s: reabsorbing into a touched dependency record", l.FullName()))
	}
	if expected := len(l.Checkpoints); expected != checkpointIdx {
		panic(fmt.Errorf(
			"linker: %s: reabsorb with checkpoint %d, expected next checkpoint is %d",
			l.FullName(), checkpointIdx, expected))
	}
	l.Errors = errors
	l.Globals = globals
	l.Checkpoints = append(l.Checkpoints, l.checkpoint())
}

// ResetTo rolls the unit back to the state recorded at checkpoint idx,
// discarding later checkpoints. Rollback truncates, never recomputes.
func (l *LinkInfo) ResetTo(idx int) {
	if idx >= len(l.Checkpoints) {
		panic(fmt.Errorf(
			"linker: %s: reset to checkpoint %d but only %d exist",
			l.FullName(), idx, len(l.Checkpoints)))
	}
	cp := l.Checkpoints[idx]
	l.Errors.Truncate(cp.Errors)
	l.Globals.Refs = l.Globals.Refs[:cp.Globals]
	l.Globals.AllResolved = cp.AllResolved
	l.Checkpoints = l.Checkpoints[:idx+1]
}
