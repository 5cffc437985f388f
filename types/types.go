package types

// StepStatus represents the possible outcomes of a step execution
type StepStatus string

const (
	StepStatusPass StepStatus = "pass"
	StepStatusFail StepStatus = "fail"
	StepStatusSkip StepStatus = "skip"
)

// Severity classifies how a step failure affects the run. A failing fatal
// step aborts the run; a failing advisory step is logged and the run continues.
type Severity string

const (
	SeverityFatal    Severity = "fatal"
	SeverityAdvisory Severity = "advisory"
)

// StepMetadata describes a single step in the smoke sequence
type StepMetadata struct {
	ID          string
	Description string
	Severity    Severity
}

// IsFatal returns true if a failure of this step should abort the run
func (m StepMetadata) IsFatal() bool {
	return m.Severity == SeverityFatal
}
