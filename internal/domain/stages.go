package domain

import (
	"context"
	"log/slog"

	"jamcheck.dev/pkg/jamcheck/internal/adapter"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// ToolEnv is the execution context shared by every stage of a run: the
// resolved repository root and the complete environment handed to each
// child tool. The environment is built once per run and attached to every
// invocation explicitly; the harness process's own environment is never
// mutated.
type ToolEnv struct {
	Root m.Path
	Env  []string
}

// Stage is one named step of the check pipeline. A stage translates the
// outcome of its tool into a structured StageResult; it never aborts the
// harness on its own.
type Stage interface {
	Name() m.StageName
	Run(ctx context.Context, env ToolEnv) m.StageResult
}

// LintStage invokes the static analyzer in error-only mode against an
// explicit file list.
type LintStage struct {
	runner  adapter.ToolRunnerAdapter
	command []string
	flags   []string
	files   []m.File
}

// NewLintStage constructs the analysis stage for the given file set.
func NewLintStage(runner adapter.ToolRunnerAdapter, command, flags []string, files []m.File) *LintStage {
	return &LintStage{
		runner:  runner,
		command: command,
		flags:   flags,
		files:   files,
	}
}

// Name returns the stage identifier.
func (s *LintStage) Name() m.StageName {
	return m.StageLint
}

// Run invokes the analyzer. An empty file set passes trivially: the analyzer
// is never invoked without arguments.
func (s *LintStage) Run(ctx context.Context, env ToolEnv) m.StageResult {
	if len(s.files) == 0 {
		slog.Warn("no source files matched, skipping analyzer invocation")

		return m.StageResult{
			Stage:  m.StageLint,
			Status: m.Passed,
			Output: "no source files matched\n",
		}
	}

	argv := make([]string, 0, len(s.command)+len(s.flags)+len(s.files))
	argv = append(argv, s.command...)
	argv = append(argv, s.flags...)

	for _, file := range s.files {
		argv = append(argv, string(file.Path))
	}

	return runTool(ctx, s.runner, m.StageLint, adapter.Invocation{
		Dir:  env.Root,
		Argv: argv,
		Env:  env.Env,
	})
}

// TestStage invokes the test runner's own discovery over the tests
// directory. The harness passes only the directory and the file-name
// pattern; locating and loading the individual test modules is the
// runner's concern.
type TestStage struct {
	runner   adapter.ToolRunnerAdapter
	command  []string
	testsDir string
	pattern  string
}

// NewTestStage constructs the unit-test stage.
func NewTestStage(runner adapter.ToolRunnerAdapter, command []string, testsDir, pattern string) *TestStage {
	return &TestStage{
		runner:   runner,
		command:  command,
		testsDir: testsDir,
		pattern:  pattern,
	}
}

// Name returns the stage identifier.
func (s *TestStage) Name() m.StageName {
	return m.StageTests
}

// Run invokes the test runner rooted at the repository root.
func (s *TestStage) Run(ctx context.Context, env ToolEnv) m.StageResult {
	argv := make([]string, 0, len(s.command)+6)
	argv = append(argv, s.command...)
	argv = append(argv, "-s", s.testsDir, "-p", s.pattern, "-t", string(env.Root))

	return runTool(ctx, s.runner, m.StageTests, adapter.Invocation{
		Dir:  env.Root,
		Argv: argv,
		Env:  env.Env,
	})
}

// runTool executes one invocation and maps the execution onto a stage
// result: exit 0 is Passed, a non-zero exit is Failed, and a tool that
// could not run at all is Error.
func runTool(ctx context.Context, runner adapter.ToolRunnerAdapter, name m.StageName, inv adapter.Invocation) m.StageResult {
	execution, err := runner.Run(ctx, inv)

	argv0 := ""
	if len(inv.Argv) > 0 {
		argv0 = inv.Argv[0]
	}

	result := m.StageResult{
		Stage:    name,
		ExitCode: execution.ExitCode,
		Duration: execution.Duration,
		Output:   execution.Output,
	}

	switch {
	case err != nil:
		slog.Error("tool invocation failed", "stage", name, "argv0", argv0, "error", err)

		result.Status = m.Error
		result.Err = err.Error()
	case execution.ExitCode != 0:
		result.Status = m.Failed
	default:
		result.Status = m.Passed
	}

	return result
}
