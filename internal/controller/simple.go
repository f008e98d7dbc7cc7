package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// timeRounding is the display granularity for stage durations.
const timeRounding = time.Millisecond

// SimpleUI implements UI using cobra Command's writer. It is the presenter
// for non-interactive sessions (CI, pipes).
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// StageStarting announces the stage about to run.
func (s *SimpleUI) StageStarting(ctx context.Context, name m.StageName) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("==> %s\n", name)
}

// StageCompleted prints the stage outcome and, for anything other than a
// pass, the tool's captured output.
func (s *SimpleUI) StageCompleted(ctx context.Context, result m.StageResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("<== %s: %s (exit %d, %s)\n", result.Stage, result.Status, result.ExitCode, result.Duration)

	if !result.Ok() && result.Output != "" {
		s.printf("%s", result.Output)
	}

	if result.Err != "" {
		s.printf("%s: %s\n", result.Stage, result.Err)
	}
}

// DisplaySummary renders the aggregated run outcome as a table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(report))

	if report.Failed() {
		s.printf("Result: FAILED\n")
	} else {
		s.printf("Result: PASSED\n")
	}

	return nil
}

// DisplaySources renders the discovered source file set as a table.
func (s *SimpleUI) DisplaySources(ctx context.Context, root m.Path, files []m.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Hash"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, file := range files {
		table.Append([]string{string(file.Path), shortHash(file.Hash)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), ""})
	table.Render()

	s.printf("Sources under %s:\n\n%s", root, tableBuffer.String())

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// renderSummaryTable builds the per-stage summary shared by both presenters.
func renderSummaryTable(report m.RunReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Stage", "Status", "Exit", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	for _, stage := range report.Stages {
		table.Append([]string{
			string(stage.Stage),
			stage.Status.String(),
			fmt.Sprintf("%d", stage.ExitCode),
			stage.Duration.Round(timeRounding).String(),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}

	return hash
}
