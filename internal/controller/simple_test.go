package controller

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

func newBufferedCmd() (*cobra.Command, *bytes.Buffer) {
	buffer := &bytes.Buffer{}

	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(buffer)
	cmd.SetErr(buffer)

	return cmd, buffer
}

func sampleRunReport() m.RunReport {
	return m.RunReport{
		Root:      "/repo",
		StartedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		Stages: []m.StageResult{
			{Stage: m.StageLint, Status: m.Failed, ExitCode: 2, Duration: 130 * time.Millisecond, Output: "E0602: undefined variable\n"},
			{Stage: m.StageTests, Status: m.Passed, Duration: time.Second},
		},
	}
}

func TestSimpleUI_StageLifecycle(t *testing.T) {
	cmd, buffer := newBufferedCmd()
	ui := NewSimpleUI(cmd)

	ctx := context.Background()
	require.NoError(t, ui.Start(ctx))

	ui.StageStarting(ctx, m.StageLint)
	ui.StageCompleted(ctx, m.StageResult{
		Stage:    m.StageLint,
		Status:   m.Failed,
		ExitCode: 2,
		Duration: 90 * time.Millisecond,
		Output:   "E0602: undefined variable\n",
	})
	ui.Close(ctx)

	out := buffer.String()
	assert.Contains(t, out, "==> lint")
	assert.Contains(t, out, "lint: failed")
	assert.Contains(t, out, "exit 2")
	assert.Contains(t, out, "E0602")
}

func TestSimpleUI_StageCompleted_PassedHidesOutput(t *testing.T) {
	cmd, buffer := newBufferedCmd()
	ui := NewSimpleUI(cmd)

	ui.StageCompleted(context.Background(), m.StageResult{
		Stage:  m.StageTests,
		Status: m.Passed,
		Output: "Ran 12 tests\nOK\n",
	})

	assert.NotContains(t, buffer.String(), "Ran 12 tests")
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	cmd, buffer := newBufferedCmd()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.DisplaySummary(context.Background(), sampleRunReport()))

	out := buffer.String()
	assert.Contains(t, out, "lint")
	assert.Contains(t, out, "tests")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "passed")
	assert.Contains(t, out, "Result: FAILED")
}

func TestSimpleUI_DisplaySummary_Clean(t *testing.T) {
	cmd, buffer := newBufferedCmd()
	ui := NewSimpleUI(cmd)

	report := m.RunReport{Stages: []m.StageResult{
		{Stage: m.StageLint, Status: m.Passed},
		{Stage: m.StageTests, Status: m.Passed},
	}}

	require.NoError(t, ui.DisplaySummary(context.Background(), report))
	assert.Contains(t, buffer.String(), "Result: PASSED")
}

func TestSimpleUI_DisplaySources(t *testing.T) {
	cmd, buffer := newBufferedCmd()
	ui := NewSimpleUI(cmd)

	files := []m.File{
		{Path: "jamjar/database.py", Hash: "0123456789abcdef0123"},
		{Path: "jamjar/query.py", Hash: "fedcba98765432100123"},
	}

	require.NoError(t, ui.DisplaySources(context.Background(), "/repo", files))

	out := buffer.String()
	assert.Contains(t, out, "jamjar/database.py")
	assert.Contains(t, out, "jamjar/query.py")
	// Hashes are truncated for display.
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abcdef0123")
	assert.Contains(t, out, "Total Files 2")
}

func TestIsTTY_Buffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestNewUI_PicksPresenter(t *testing.T) {
	cmd, _ := newBufferedCmd()

	_, isSimple := NewUI(cmd, false).(*SimpleUI)
	assert.True(t, isSimple)

	_, isTUI := NewUI(cmd, true).(*TUI)
	assert.True(t, isTUI)
}
