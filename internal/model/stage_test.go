package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageStatus_String(t *testing.T) {
	assert.Equal(t, "passed", Passed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "unknown", StageStatus(42).String())
}

func TestStageResult_Ok(t *testing.T) {
	assert.True(t, StageResult{Status: Passed}.Ok())
	assert.True(t, StageResult{Status: Skipped}.Ok())
	assert.False(t, StageResult{Status: Failed}.Ok())
	assert.False(t, StageResult{Status: Error}.Ok())
}

func TestRunReport_Failed(t *testing.T) {
	clean := RunReport{Stages: []StageResult{
		{Stage: StageLint, Status: Passed},
		{Stage: StageTests, Status: Passed},
	}}
	assert.False(t, clean.Failed())

	// A lint failure fails the run even when the later tests stage passed.
	lintFailed := RunReport{Stages: []StageResult{
		{Stage: StageLint, Status: Failed, ExitCode: 2},
		{Stage: StageTests, Status: Passed},
	}}
	assert.True(t, lintFailed.Failed())

	// Skipped stages do not count against the run on their own.
	skipped := RunReport{Stages: []StageResult{
		{Stage: StageLint, Status: Passed},
		{Stage: StageTests, Status: Skipped},
	}}
	assert.False(t, skipped.Failed())
}

func TestRunReport_Result(t *testing.T) {
	report := RunReport{Stages: []StageResult{
		{Stage: StageLint, Status: Failed, ExitCode: 4},
		{Stage: StageTests, Status: Passed},
	}}

	lint, ok := report.Result(StageLint)
	assert.True(t, ok)
	assert.Equal(t, 4, lint.ExitCode)

	_, ok = report.Result(StageName("deploy"))
	assert.False(t, ok)
}
