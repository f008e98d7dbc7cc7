package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamcheck.dev/pkg/jamcheck/internal/domain"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// fakeHarness records the args each operation was invoked with.
type fakeHarness struct {
	runArgs  *domain.RunArgs
	listArgs *domain.ListArgs
	viewArgs *domain.ViewArgs
	err      error
}

func (f *fakeHarness) Run(_ context.Context, args domain.RunArgs) error {
	f.runArgs = &args
	return f.err
}

func (f *fakeHarness) List(_ context.Context, args domain.ListArgs) error {
	f.listArgs = &args
	return f.err
}

func (f *fakeHarness) View(_ context.Context, args domain.ViewArgs) error {
	f.viewArgs = &args
	return f.err
}

// swapHarness installs a fake harness for the duration of the test.
func swapHarness(t *testing.T) *fakeHarness {
	t.Helper()

	fake := &fakeHarness{}
	original := harness
	harness = fake

	t.Cleanup(func() { harness = original })

	return fake
}

func newTestRoot(children ...func() *cobra.Command) *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	for _, child := range children {
		cmd.AddCommand(child())
	}

	return cmd
}

func TestRunCmd_Defaults(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newRunCmd)
	cmd.SetArgs([]string{"run"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)

	args := *fake.runArgs
	assert.Equal(t, "jamjar", args.PackageDir)
	assert.Equal(t, "jamjar/test", args.TestsDir)
	assert.Equal(t, "*.py", args.SourcePattern)
	assert.Equal(t, "test_*.py", args.TestPattern)
	assert.Equal(t, []string{"pylint"}, args.LintCommand)
	assert.Equal(t, []string{"--errors-only"}, args.LintFlags)
	assert.Equal(t, []string{"python3", "-m", "unittest", "discover"}, args.TestCommand)
	assert.Equal(t, "PYTHONPATH", args.SearchPathVar)
	assert.Equal(t, m.Path(".jamcheck-reports"), args.Reports)
	assert.Empty(t, args.Stages, "run executes the full pipeline")
	assert.False(t, args.FailFast)
	assert.Zero(t, args.ToolTimeout)
}

func TestRunCmd_FailFastFlag(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newRunCmd)
	cmd.SetArgs([]string{"run", "--fail-fast"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)
	assert.True(t, fake.runArgs.FailFast)
}

func TestRunCmd_TimeoutFlag(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newRunCmd)
	cmd.SetArgs([]string{"run", "--timeout", "90s"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)
	assert.Equal(t, "1m30s", fake.runArgs.ToolTimeout.String())
}

func TestRunCmd_RootAndExcludeFlags(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newRunCmd)
	cmd.SetArgs([]string{"run", "--root", "/checkout", "-x", `^generated_`, "-x", `_gen\.py$`})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)
	assert.Equal(t, m.Path("/checkout"), fake.runArgs.Root)
	assert.Equal(t, []string{`^generated_`, `_gen\.py$`}, fake.runArgs.Exclude)
}

func TestRunCmd_PropagatesFailure(t *testing.T) {
	fake := swapHarness(t)
	fake.err = domain.ErrChecksFailed

	cmd := newTestRoot(newRunCmd)
	cmd.SetArgs([]string{"run"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, domain.ErrChecksFailed)
}

func TestLintCmd_RunsLintStageOnly(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newLintCmd)
	cmd.SetArgs([]string{"lint"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)
	assert.Equal(t, []m.StageName{m.StageLint}, fake.runArgs.Stages)
}

func TestTestCmd_RunsTestStageOnly(t *testing.T) {
	fake := swapHarness(t)

	cmd := newTestRoot(newTestCmd)
	cmd.SetArgs([]string{"test"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, fake.runArgs)
	assert.Equal(t, []m.StageName{m.StageTests}, fake.runArgs.Stages)
}
