package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"jamcheck.dev/pkg/jamcheck/internal/adapter"
	"jamcheck.dev/pkg/jamcheck/internal/controller"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// ErrChecksFailed is returned by Run when at least one stage failed or
// errored. The CLI maps it onto a non-zero process exit.
var ErrChecksFailed = errors.New("one or more checks failed")

// RunArgs configures a harness run.
type RunArgs struct {
	// Root overrides the repository root; when empty the root is resolved
	// from the executable's own (symlink-dereferenced) location.
	Root m.Path

	PackageDir    string
	TestsDir      string
	SourcePattern string
	TestPattern   string
	Exclude       []string

	LintCommand []string
	LintFlags   []string
	TestCommand []string

	// SearchPathVar names the environment variable through which the
	// resolved root is made importable to the child tools.
	SearchPathVar string

	// Reports is the directory run reports are saved to; empty disables
	// persistence.
	Reports m.Path

	Stages      []m.StageName
	FailFast    bool
	ToolTimeout time.Duration
}

// ListArgs configures source discovery for the list command.
type ListArgs struct {
	Root          m.Path
	PackageDir    string
	SourcePattern string
	Exclude       []string
}

// ViewArgs configures report viewing.
type ViewArgs struct {
	Reports m.Path
}

// Harness is the workflow façade behind the CLI commands.
type Harness interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type harness struct {
	adapter.RepoFSAdapter
	adapter.ReportStore
	controller.UI

	runner    adapter.ToolRunnerAdapter
	discovery Discovery
}

// NewHarness creates a Harness instance with the provided dependencies.
func NewHarness(
	fsAdapter adapter.RepoFSAdapter,
	runner adapter.ToolRunnerAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Harness {
	return &harness{
		RepoFSAdapter: fsAdapter,
		ReportStore:   reportStore,
		UI:            ui,
		runner:        runner,
		discovery:     NewDiscovery(fsAdapter),
	}
}

// Run resolves the root, discovers the source set, executes the requested
// stages in order and aggregates their results.
func (h *harness) Run(ctx context.Context, args RunArgs) error {
	root, err := h.root(args.Root)
	if err != nil {
		return err
	}

	if err := h.Start(ctx); err != nil {
		slog.Error("failed to start UI", "error", err)
		return err
	}
	defer h.Close(ctx)

	env := ToolEnv{
		Root: root,
		Env:  BuildToolEnv(os.Environ(), args.SearchPathVar, root),
	}

	report := m.RunReport{
		Root:      root,
		StartedAt: time.Now(),
	}

	stages := make([]Stage, 0, len(args.Stages))

	for _, name := range stageOrder(args.Stages) {
		switch name {
		case m.StageLint:
			sources, err := h.discovery.Sources(ctx, root, args.PackageDir, args.SourcePattern, args.Exclude)
			if err != nil {
				slog.Error("source discovery failed", "root", root, "error", err)
				return fmt.Errorf("discover sources: %w", err)
			}

			report.Sources = sources

			stages = append(stages, NewLintStage(h.runner, args.LintCommand, args.LintFlags, sources))
		case m.StageTests:
			stages = append(stages, NewTestStage(h.runner, args.TestCommand, args.TestsDir, args.TestPattern))
		}
	}

	pipeline := NewPipeline(args.FailFast, args.ToolTimeout, stages...)
	report.Stages = pipeline.Run(ctx, env, h.UI)

	if args.Reports != "" {
		if _, err := h.SaveRun(args.Reports, report); err != nil {
			slog.Error("failed to save run report", "reports", args.Reports, "error", err)
			return fmt.Errorf("save run report: %w", err)
		}
	}

	if err := h.DisplaySummary(ctx, report); err != nil {
		return fmt.Errorf("display summary: %w", err)
	}

	if report.Failed() {
		return ErrChecksFailed
	}

	return nil
}

// List discovers and displays the source file set without running any tool.
func (h *harness) List(ctx context.Context, args ListArgs) error {
	root, err := h.root(args.Root)
	if err != nil {
		return err
	}

	sources, err := h.discovery.Sources(ctx, root, args.PackageDir, args.SourcePattern, args.Exclude)
	if err != nil {
		slog.Error("source discovery failed", "root", root, "error", err)
		return fmt.Errorf("discover sources: %w", err)
	}

	return h.DisplaySources(ctx, root, sources)
}

// View displays the most recently saved run report.
func (h *harness) View(ctx context.Context, args ViewArgs) error {
	report, err := h.LatestRun(args.Reports)
	if err != nil {
		return fmt.Errorf("load run report: %w", err)
	}

	return h.DisplaySummary(ctx, report)
}

// root returns the override when given, otherwise resolves the root from
// the executable path. A resolution failure is fatal for the run.
func (h *harness) root(override m.Path) (m.Path, error) {
	if override != "" {
		return override, nil
	}

	root, err := h.ResolveRoot()
	if err != nil {
		slog.Error("failed to resolve repository root", "error", err)
		return "", fmt.Errorf("resolve repository root: %w", err)
	}

	return root, nil
}

// stageOrder returns the requested stages in canonical pipeline order,
// defaulting to the full lint-then-tests pipeline.
func stageOrder(requested []m.StageName) []m.StageName {
	if len(requested) == 0 {
		return []m.StageName{m.StageLint, m.StageTests}
	}

	ordered := make([]m.StageName, 0, 2)

	for _, name := range []m.StageName{m.StageLint, m.StageTests} {
		for _, want := range requested {
			if want == name {
				ordered = append(ordered, name)
				break
			}
		}
	}

	return ordered
}

// BuildToolEnv returns a copy of base with varName set so that root is the
// first entry on the child's module search path. An existing value is kept
// behind the root, list-separated; the literal variable name is never
// exported as its own value.
func BuildToolEnv(base []string, varName string, root m.Path) []string {
	value := string(root)
	prefix := varName + "="

	env := make([]string, 0, len(base)+1)

	for _, entry := range base {
		if strings.HasPrefix(entry, prefix) {
			existing := strings.TrimPrefix(entry, prefix)
			if existing != "" {
				value = value + string(os.PathListSeparator) + existing
			}

			continue
		}

		env = append(env, entry)
	}

	return append(env, prefix+value)
}
