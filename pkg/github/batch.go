package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemResult is the resolution of one repository in a batch
type ItemResult struct {
	Repository Repository `json:"repository"`
	Outcome    Outcome    `json:"outcome"`
	Message    string     `json:"message"`
	Err        error      `json:"-"`
}

// BatchSummary provides aggregate statistics for a batch
type BatchSummary struct {
	Total          int `json:"total"`
	SucceededCount int `json:"succeeded"`
	FailedCount    int `json:"failed"`
	SkippedCount   int `json:"skipped"`
	SimulatedCount int `json:"simulated"`
}

// BatchResult holds every per-repository result of a bulk operation.
// Items are in the order the repositories were submitted, not completion order.
type BatchResult struct {
	ID      string       `json:"id"`
	Action  Action       `json:"action"`
	DryRun  bool         `json:"dry_run"`
	Items   []ItemResult `json:"items"`
	Summary BatchSummary `json:"summary"`
}

// Failed returns the items that did not succeed
func (r *BatchResult) Failed() []ItemResult {
	var failed []ItemResult
	for _, item := range r.Items {
		if item.Outcome == OutcomeFailed {
			failed = append(failed, item)
		}
	}
	return failed
}

// BatchRunner applies one operation to many repositories concurrently.
// Every repository gets its own goroutine; there is no concurrency limit,
// no retry, and a failure never cancels or rolls back the others.
type BatchRunner struct {
	api      APIClient
	dryRun   bool
	logger   *zap.Logger
	reporter Reporter
}

// BatchOption customizes a BatchRunner
type BatchOption func(*BatchRunner)

// WithDryRun simulates mutations without calling the API
func WithDryRun(dryRun bool) BatchOption {
	return func(b *BatchRunner) {
		b.dryRun = dryRun
	}
}

// WithLogger sets the logger used for per-item diagnostics
func WithLogger(logger *zap.Logger) BatchOption {
	return func(b *BatchRunner) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithReporter sets the receiver of per-item results
func WithReporter(reporter Reporter) BatchOption {
	return func(b *BatchRunner) {
		b.reporter = reporter
	}
}

// NewBatchRunner creates a batch runner over the given API client
func NewBatchRunner(api APIClient, options ...BatchOption) *BatchRunner {
	runner := &BatchRunner{
		api:    api,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(runner)
	}
	return runner
}

// Delete removes every repository in repos
func (b *BatchRunner) Delete(ctx context.Context, repos []Repository) *BatchResult {
	return b.run(ctx, ActionDelete, repos, b.deleteOne)
}

// SetVisibility makes every repository in repos private or public
func (b *BatchRunner) SetVisibility(ctx context.Context, repos []Repository, private bool) *BatchResult {
	return b.run(ctx, ActionVisibility, repos, func(ctx context.Context, repo Repository) ItemResult {
		return b.setVisibilityOne(ctx, repo, private)
	})
}

type repositoryOperation func(ctx context.Context, repo Repository) ItemResult

func (b *BatchRunner) run(ctx context.Context, action Action, repos []Repository, operation repositoryOperation) *BatchResult {
	result := &BatchResult{
		ID:     uuid.NewString(),
		Action: action,
		DryRun: b.dryRun,
		Items:  make([]ItemResult, len(repos)),
	}

	logger := b.logger.With(
		zap.String("batch_id", result.ID),
		zap.String("action", string(action)),
		zap.Bool("dry_run", b.dryRun),
	)
	logger.Debug("starting batch", zap.Int("repositories", len(repos)))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(index int, repo Repository) {
			defer wg.Done()

			item := operation(ctx, repo)
			// each goroutine owns its slot
			result.Items[index] = item

			fields := []zap.Field{
				zap.String("repository", repo.FullName),
				zap.String("outcome", string(item.Outcome)),
			}
			if item.Err != nil {
				logger.Warn("repository operation failed", append(fields, zap.Error(item.Err))...)
			} else {
				logger.Debug("repository operation resolved", fields...)
			}

			if b.reporter != nil {
				b.reporter.Report(item)
			}
		}(i, repo)
	}
	wg.Wait()

	result.Summary = summarize(result.Items)
	logger.Debug("batch complete",
		zap.Int("succeeded", result.Summary.SucceededCount),
		zap.Int("failed", result.Summary.FailedCount),
		zap.Int("skipped", result.Summary.SkippedCount),
		zap.Int("simulated", result.Summary.SimulatedCount),
	)

	return result
}

func (b *BatchRunner) deleteOne(ctx context.Context, repo Repository) ItemResult {
	if b.dryRun {
		return ItemResult{
			Repository: repo,
			Outcome:    OutcomeSimulated,
			Message:    fmt.Sprintf("[DRY RUN] Would delete repository: %s", repo.Name),
		}
	}

	if err := b.api.DeleteRepository(ctx, repo.Owner.Login, repo.Name); err != nil {
		return ItemResult{
			Repository: repo,
			Outcome:    OutcomeFailed,
			Message:    fmt.Sprintf("Failed to delete %s: %v", repo.Name, err),
			Err:        err,
		}
	}

	return ItemResult{
		Repository: repo,
		Outcome:    OutcomeSucceeded,
		Message:    fmt.Sprintf("Successfully deleted %s", repo.Name),
	}
}

func (b *BatchRunner) setVisibilityOne(ctx context.Context, repo Repository, private bool) ItemResult {
	// GitHub rejects visibility changes on forks
	if repo.Fork {
		return ItemResult{
			Repository: repo,
			Outcome:    OutcomeSkipped,
			Message:    fmt.Sprintf("Repository %s is a fork and cannot have its visibility changed.", repo.Name),
		}
	}

	if b.dryRun {
		return ItemResult{
			Repository: repo,
			Outcome:    OutcomeSimulated,
			Message: fmt.Sprintf("[DRY RUN] Would update visibility for repository: %s to %s",
				repo.Name, VisibilityName(private)),
		}
	}

	if err := b.api.SetRepositoryVisibility(ctx, repo.Owner.Login, repo.Name, private); err != nil {
		return ItemResult{
			Repository: repo,
			Outcome:    OutcomeFailed,
			Message:    fmt.Sprintf("Failed to update %s: %v", repo.Name, err),
			Err:        err,
		}
	}

	return ItemResult{
		Repository: repo,
		Outcome:    OutcomeSucceeded,
		Message:    fmt.Sprintf("Successfully updated %s to %s", repo.Name, VisibilityName(private)),
	}
}

func summarize(items []ItemResult) BatchSummary {
	summary := BatchSummary{Total: len(items)}
	for _, item := range items {
		switch item.Outcome {
		case OutcomeSucceeded:
			summary.SucceededCount++
		case OutcomeFailed:
			summary.FailedCount++
		case OutcomeSkipped:
			summary.SkippedCount++
		case OutcomeSimulated:
			summary.SimulatedCount++
		}
	}
	return summary
}
