package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

var (
	stageNameStyle = lipgloss.NewStyle().Bold(true)
	passedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	outputStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TUI implements UI using Bubble Tea for interactive terminals.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background. The model keeps
// rendering inline (no alt screen) so the final frame stays in the scrollback.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the program if the summary never arrived (e.g. early error).
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()

	if t.done != nil {
		select {
		case <-t.done:
		case <-ctx.Done():
		}
	}

	t.program = nil
}

// StageStarting feeds the running-stage spinner.
func (t *TUI) StageStarting(_ context.Context, name m.StageName) {
	if t.program == nil {
		return
	}

	t.program.Send(stageStartedMsg{name: name})
}

// StageCompleted appends the finished stage to the progress list.
func (t *TUI) StageCompleted(_ context.Context, result m.StageResult) {
	if t.program == nil {
		return
	}

	t.program.Send(stageCompletedMsg{result: result})
}

// DisplaySummary hands the final report to the model and waits for the
// program to render it and exit. Without a running program (the view
// command) the summary is printed directly.
func (t *TUI) DisplaySummary(ctx context.Context, report m.RunReport) error {
	if t.program == nil {
		_, err := fmt.Fprint(t.output, renderFinalSummary(report))
		return err
	}

	t.program.Send(summaryMsg{report: report})

	select {
	case <-t.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.program = nil

	return nil
}

// DisplaySources prints the file listing directly; a static list needs no
// interactive program.
func (t *TUI) DisplaySources(ctx context.Context, root m.Path, files []m.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(stageNameStyle.Render(fmt.Sprintf("Sources under %s", root)))
	b.WriteString("\n")

	for _, file := range files {
		b.WriteString(fmt.Sprintf("  %s  %s\n", outputStyle.Render(shortHash(file.Hash)), file.Path))
	}

	b.WriteString(fmt.Sprintf("\n%d file(s)\n", len(files)))

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

type stageStartedMsg struct {
	name m.StageName
}

type stageCompletedMsg struct {
	result m.StageResult
}

type summaryMsg struct {
	report m.RunReport
}

// runModel renders the live pipeline progress.
type runModel struct {
	spinner   spinner.Model
	running   m.StageName
	completed []m.StageResult
	report    *m.RunReport
	quitting  bool
}

func newRunModel() runModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return runModel{spinner: sp}
}

// Init starts the spinner tick loop.
func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

// Update handles progress messages and key presses.
func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			rm.quitting = true
			return rm, tea.Quit
		}

		return rm, nil

	case stageStartedMsg:
		rm.running = msg.name
		return rm, nil

	case stageCompletedMsg:
		rm.running = ""
		rm.completed = append(rm.completed, msg.result)

		return rm, nil

	case summaryMsg:
		rm.report = &msg.report
		rm.quitting = true

		return rm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

// View renders the progress list and, once available, the final summary.
func (rm runModel) View() string {
	var b strings.Builder

	for _, result := range rm.completed {
		b.WriteString(fmt.Sprintf("%s %s (exit %d, %s)\n",
			statusIcon(result.Status),
			stageNameStyle.Render(string(result.Stage)),
			result.ExitCode,
			result.Duration.Round(timeRounding),
		))
	}

	if rm.running != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", rm.spinner.View(), stageNameStyle.Render(string(rm.running))))
	}

	if rm.report != nil {
		b.WriteString("\n")
		b.WriteString(renderFinalSummary(*rm.report))
	}

	return b.String()
}

func statusIcon(status m.StageStatus) string {
	switch status {
	case m.Passed:
		return passedStyle.Render("✓")
	case m.Skipped:
		return skippedStyle.Render("-")
	case m.Failed, m.Error:
		return failedStyle.Render("✗")
	}

	return "?"
}

// renderFinalSummary styles the aggregate outcome, including the captured
// output of any stage that did not pass.
func renderFinalSummary(report m.RunReport) string {
	var b strings.Builder

	b.WriteString(renderSummaryTable(report))

	for _, stage := range report.Stages {
		if stage.Ok() || stage.Output == "" {
			continue
		}

		b.WriteString(fmt.Sprintf("\n%s output:\n", stageNameStyle.Render(string(stage.Stage))))
		b.WriteString(outputStyle.Render(strings.TrimRight(stage.Output, "\n")))
		b.WriteString("\n")
	}

	if report.Failed() {
		b.WriteString(failedStyle.Render("Result: FAILED"))
	} else {
		b.WriteString(passedStyle.Render("Result: PASSED"))
	}

	b.WriteString("\n")

	return b.String()
}
