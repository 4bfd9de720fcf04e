package transform

import "fmt"

// Stage identifies where a transform failed
type Stage int

const (
	StageImport  Stage = iota // import outside the whitelist
	StageCompile              // parse or evaluation error
	StageLookup               // Process missing or with a wrong signature
	StageRun                  // panic while running Process
	StageTimeout              // Process did not return in time
	StageShape                // result is not a map
)

func (s Stage) String() string {
	switch s {
	case StageImport:
		return "import"
	case StageCompile:
		return "compile"
	case StageLookup:
		return "lookup"
	case StageRun:
		return "run"
	case StageTimeout:
		return "timeout"
	case StageShape:
		return "shape"
	default:
		return "unknown"
	}
}

// TransformError wraps a failure of user transform code
type TransformError struct {
	Stage Stage
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s error: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
