package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/hostprep/pkg/logging"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// RunJob executes one job, converting an error or panic into a failed
// result. It never panics. The job sees ctx without its cancellation, so
// a started task always runs to the end.
func RunJob(ctx context.Context, job Job) (result types.TaskExecutionResult) {
	start := time.Now()
	result = types.TaskExecutionResult{ID: job.ID, Name: job.Name, Status: types.TaskStatusCompleted}

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Status = types.TaskStatusFailed
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if job.Run == nil {
		return result
	}
	if err := job.Run(context.WithoutCancel(ctx)); err != nil {
		result.Status = types.TaskStatusFailed
		result.Error = err.Error()
	}
	return result
}

// SequentialRunner runs jobs in order without any display. It is used for
// --plain runs and in tests.
type SequentialRunner struct {
	logger zerolog.Logger
}

// NewSequentialRunner creates a runner logging job boundaries to logger
func NewSequentialRunner(logger zerolog.Logger) *SequentialRunner {
	return &SequentialRunner{logger: logging.Component(logger, "runner")}
}

// Run executes jobs in order and returns their results. Once ctx is done
// no further job starts.
func (r *SequentialRunner) Run(ctx context.Context, jobs []Job) []types.TaskExecutionResult {
	results := make([]types.TaskExecutionResult, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().Err(err).Int("skipped", len(jobs)-i).Msg("Interrupted, remaining tasks skipped")
			break
		}
		r.logger.Info().Str("task", job.ID).Msg("Running task")
		res := RunJob(ctx, job)
		if res.Failed() {
			r.logger.Error().Str("task", job.ID).Str("error", res.Error).Msg("Task failed")
		} else {
			r.logger.Info().Str("task", job.ID).Dur("duration", res.Duration).Msg("Task completed")
		}
		results = append(results, res)
	}
	return results
}

var _ Runner = (*SequentialRunner)(nil)
