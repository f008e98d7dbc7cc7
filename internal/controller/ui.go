// Package controller provides output presenters for harness results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// UI defines the interface for displaying harness progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)

	// StageStarting is invoked just before a pipeline stage runs.
	StageStarting(ctx context.Context, name m.StageName)
	// StageCompleted is invoked with the structured result of a stage.
	StageCompleted(ctx context.Context, result m.StageResult)

	// DisplaySummary renders the aggregated outcome of a run.
	DisplaySummary(ctx context.Context, report m.RunReport) error
	// DisplaySources renders the discovered source file set.
	DisplaySources(ctx context.Context, root m.Path, files []m.File) error
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// NewUI picks the presenter for the session: the Bubble Tea UI on an
// interactive terminal, plain cobra output otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
