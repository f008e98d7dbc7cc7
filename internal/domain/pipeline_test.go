package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// fakeStage returns a canned result and records whether it ran.
type fakeStage struct {
	name   m.StageName
	result m.StageResult
	ran    bool
}

func (f *fakeStage) Name() m.StageName {
	return f.name
}

func (f *fakeStage) Run(_ context.Context, _ ToolEnv) m.StageResult {
	f.ran = true
	return f.result
}

// recordingObserver captures the notification order.
type recordingObserver struct {
	events []string
}

func (r *recordingObserver) StageStarting(_ context.Context, name m.StageName) {
	r.events = append(r.events, "start:"+string(name))
}

func (r *recordingObserver) StageCompleted(_ context.Context, result m.StageResult) {
	r.events = append(r.events, "done:"+string(result.Stage)+":"+result.Status.String())
}

func TestPipeline_Run_AllStagesRun(t *testing.T) {
	lint := &fakeStage{name: m.StageLint, result: m.StageResult{Stage: m.StageLint, Status: m.Failed, ExitCode: 2}}
	tests := &fakeStage{name: m.StageTests, result: m.StageResult{Stage: m.StageTests, Status: m.Passed}}

	observer := &recordingObserver{}
	pipeline := NewPipeline(false, 0, lint, tests)

	results := pipeline.Run(context.Background(), testEnv(), observer)

	// A lint failure does not short-circuit the tests stage by default, and
	// the aggregate still fails: the earlier failure is never masked by a
	// later pass.
	require.Len(t, results, 2)
	assert.True(t, lint.ran)
	assert.True(t, tests.ran)
	assert.True(t, m.RunReport{Stages: results}.Failed())

	assert.Equal(t, []string{
		"start:lint",
		"done:lint:failed",
		"start:tests",
		"done:tests:passed",
	}, observer.events)
}

func TestPipeline_Run_FailFastSkipsRemaining(t *testing.T) {
	lint := &fakeStage{name: m.StageLint, result: m.StageResult{Stage: m.StageLint, Status: m.Failed, ExitCode: 2}}
	tests := &fakeStage{name: m.StageTests, result: m.StageResult{Stage: m.StageTests, Status: m.Passed}}

	pipeline := NewPipeline(true, 0, lint, tests)
	results := pipeline.Run(context.Background(), testEnv(), nil)

	require.Len(t, results, 2)
	assert.False(t, tests.ran)
	assert.Equal(t, m.Skipped, results[1].Status)
	assert.True(t, m.RunReport{Stages: results}.Failed())
}

func TestPipeline_Run_CleanRun(t *testing.T) {
	lint := &fakeStage{name: m.StageLint, result: m.StageResult{Stage: m.StageLint, Status: m.Passed}}
	tests := &fakeStage{name: m.StageTests, result: m.StageResult{Stage: m.StageTests, Status: m.Passed}}

	pipeline := NewPipeline(false, 0, lint, tests)
	results := pipeline.Run(context.Background(), testEnv(), nil)

	require.Len(t, results, 2)
	assert.False(t, m.RunReport{Stages: results}.Failed())
}

func TestPipeline_Run_ToolTimeoutApplies(t *testing.T) {
	var sawDeadline bool

	probe := &deadlineProbe{sawDeadline: &sawDeadline}
	pipeline := NewPipeline(false, time.Minute, probe)
	pipeline.Run(context.Background(), testEnv(), nil)

	assert.True(t, sawDeadline, "stage context should carry a deadline when a timeout is configured")
}

type deadlineProbe struct {
	sawDeadline *bool
}

func (d *deadlineProbe) Name() m.StageName {
	return m.StageLint
}

func (d *deadlineProbe) Run(ctx context.Context, _ ToolEnv) m.StageResult {
	_, ok := ctx.Deadline()
	*d.sawDeadline = ok

	return m.StageResult{Stage: m.StageLint, Status: m.Passed}
}
