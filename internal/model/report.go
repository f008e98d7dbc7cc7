package model

import "time"

// RunReport captures one full harness run: the resolved root, the discovered
// source set and the per-stage results, in execution order.
type RunReport struct {
	Root      Path          `yaml:"root"`
	StartedAt time.Time     `yaml:"started_at"`
	Sources   []File        `yaml:"sources,omitempty"`
	Stages    []StageResult `yaml:"stages"`
}

// Failed reports whether any stage failed or errored. Skipped stages do not
// count against the run.
func (r RunReport) Failed() bool {
	for _, stage := range r.Stages {
		if !stage.Ok() {
			return true
		}
	}

	return false
}

// Result returns the result for the named stage and whether it was recorded.
func (r RunReport) Result(name StageName) (StageResult, bool) {
	for _, stage := range r.Stages {
		if stage.Stage == name {
			return stage, true
		}
	}

	return StageResult{}, false
}
