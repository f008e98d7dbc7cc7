package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// Invocation describes one child-tool run. Env is the complete environment
// for the child; the adapter never mutates or inherits the harness's own
// environment implicitly.
type Invocation struct {
	Dir  m.Path
	Argv []string
	Env  []string
}

// Execution is the observed outcome of a tool run.
type Execution struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// ErrEmptyArgv is returned when an invocation names no command.
var ErrEmptyArgv = errors.New("invocation argv is empty")

// ToolRunnerAdapter abstracts child-process execution so stages can be
// tested without shelling out.
type ToolRunnerAdapter interface {
	// Run starts the invocation and blocks until the tool terminates.
	// A non-zero tool exit is not an error: it is reported through
	// Execution.ExitCode. The returned error covers tools that could not be
	// started or were cut short by the context.
	Run(ctx context.Context, inv Invocation) (Execution, error)
}

// LocalToolRunnerAdapter provides a concrete implementation using os/exec.
type LocalToolRunnerAdapter struct{}

// NewLocalToolRunnerAdapter constructs a LocalToolRunnerAdapter.
func NewLocalToolRunnerAdapter() *LocalToolRunnerAdapter {
	return &LocalToolRunnerAdapter{}
}

// Run executes the invocation synchronously with combined stdout/stderr
// capture.
func (a *LocalToolRunnerAdapter) Run(ctx context.Context, inv Invocation) (Execution, error) {
	if len(inv.Argv) == 0 {
		return Execution{}, ErrEmptyArgv
	}

	// #nosec G204 - argv comes from harness configuration, not remote input
	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = string(inv.Dir)
	cmd.Env = inv.Env

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	start := time.Now()
	err := cmd.Run()
	execution := Execution{
		Output:   combined.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return execution, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return execution, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execution.ExitCode = exitErr.ExitCode()
		return execution, nil
	}

	return execution, err
}
