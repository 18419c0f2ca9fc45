package linker

// Stage identifies one phase of the fixed pipeline order. Later stages
// may read other entities' finished results, so every entity completes a
// stage before any entity enters the next one.
type Stage uint8

const (
	// StageDeclarations gathers top-level declarations into the store.
	StageDeclarations Stage = iota
	// StageFlatten lowers declaration bodies into flat instruction lists.
	StageFlatten
	// StageTypecheck checks resolved references and template argument kinds.
	StageTypecheck
	// StageLint runs advisory checks over finished bodies.
	StageLint
	// StageInstantiate eagerly specializes zero-parameter entities.
	StageInstantiate
	// StageCodegen is the terminal stage; the core itself generates no code,
	// the constant exists so an external driver can request a full run.
	StageCodegen
)

func (s Stage) String() string {
	switch s {
	case StageDeclarations:
		return "declarations"
	case StageFlatten:
		return "flatten"
	case StageTypecheck:
		return "typecheck"
	case StageLint:
		return "lint"
	case StageInstantiate:
		return "instantiate"
	case StageCodegen:
		return "codegen"
	}
	return "unknown"
}

// Checkpoint indices are aligned with the stage that produced them:
// checkpoint 0 is taken after declaration gathering, 1 after flatten,
// 2 after typecheck, 3 after lint.
const (
	checkpointDeclarations = iota
	checkpointFlatten
	checkpointTypecheck
	checkpointLint
)
