package model

import "time"

// StageName identifies a pipeline stage.
type StageName string

const (
	// StageLint is the static-analysis stage.
	StageLint StageName = "lint"
	// StageTests is the unit-test stage.
	StageTests StageName = "tests"
)

// StageStatus represents the outcome of a single stage.
type StageStatus int

const (
	// Passed indicates the stage's tool exited zero.
	Passed StageStatus = iota
	// Failed indicates the stage's tool reported findings or test failures.
	Failed
	// Error indicates the stage's tool could not be started or was cut short.
	Error
	// Skipped indicates the stage did not run (fail-fast after an earlier failure).
	Skipped
)

// String returns a human readable label for the status.
func (s StageStatus) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Error:
		return "error"
	case Skipped:
		return "skipped"
	}

	return "unknown"
}

// StageResult is the structured outcome of one pipeline stage.
type StageResult struct {
	Stage    StageName     `yaml:"stage"`
	Status   StageStatus   `yaml:"status"`
	ExitCode int           `yaml:"exit_code"`
	Duration time.Duration `yaml:"duration"`
	Output   string        `yaml:"output,omitempty"`
	Err      string        `yaml:"err,omitempty"`
}

// Ok reports whether the stage completed without findings or failures.
func (r StageResult) Ok() bool {
	return r.Status == Passed || r.Status == Skipped
}
