package driver

// Stage describes a high-level pipeline phase for progress reporting.
type Stage string

const (
	// StageLoad covers reading sources and decoding syntax artifacts.
	StageLoad Stage = "load"
	// StageLink covers file registration and declaration gathering.
	StageLink Stage = "link"
	// StageFlatten is the body-flattening phase.
	StageFlatten Stage = "flatten"
	// StageTypecheck is the abstract typecheck phase.
	StageTypecheck Stage = "typecheck"
	// StageLint is the advisory-check phase.
	StageLint Stage = "lint"
	// StageInstantiate is the eager specialization phase.
	StageInstantiate Stage = "instantiate"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for one file, or for the whole pipeline when
// File is empty.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
