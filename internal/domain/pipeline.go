package domain

import (
	"context"
	"log/slog"
	"time"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// StageObserver receives progress notifications while the pipeline runs.
// Both presenters implement it.
type StageObserver interface {
	StageStarting(ctx context.Context, name m.StageName)
	StageCompleted(ctx context.Context, result m.StageResult)
}

// Pipeline executes an ordered list of stages strictly sequentially and
// collects every structured result. Each stage always runs unless failFast
// is set, in which case the stages after the first failure are recorded as
// Skipped. Whether the run as a whole failed is decided by the aggregate
// over all results, never by the last stage alone.
type Pipeline struct {
	stages      []Stage
	failFast    bool
	toolTimeout time.Duration
}

// NewPipeline constructs a pipeline over the given stages. toolTimeout
// bounds each stage's tool invocation; zero means no timeout.
func NewPipeline(failFast bool, toolTimeout time.Duration, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages:      stages,
		failFast:    failFast,
		toolTimeout: toolTimeout,
	}
}

// Run executes the stages in order. The observer may be nil.
func (p *Pipeline) Run(ctx context.Context, env ToolEnv, observer StageObserver) []m.StageResult {
	results := make([]m.StageResult, 0, len(p.stages))
	aborted := false

	for _, stage := range p.stages {
		if aborted {
			results = append(results, m.StageResult{
				Stage:  stage.Name(),
				Status: m.Skipped,
			})

			continue
		}

		if observer != nil {
			observer.StageStarting(ctx, stage.Name())
		}

		result := p.runStage(ctx, env, stage)
		results = append(results, result)

		if observer != nil {
			observer.StageCompleted(ctx, result)
		}

		if p.failFast && !result.Ok() {
			slog.Info("aborting pipeline after failed stage", "stage", stage.Name())

			aborted = true
		}
	}

	return results
}

func (p *Pipeline) runStage(ctx context.Context, env ToolEnv, stage Stage) m.StageResult {
	stageCtx := ctx

	if p.toolTimeout > 0 {
		var cancel context.CancelFunc

		stageCtx, cancel = context.WithTimeout(ctx, p.toolTimeout)
		defer cancel()
	}

	slog.Debug("running stage", "stage", stage.Name())

	return stage.Run(stageCtx, env)
}
