package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when no positive concurrency is configured.
const DefaultConcurrency = 10

// BatchProcessor bounds how many tasks of one stage run at the same time.
type BatchProcessor struct {
	name        string
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchName names the batch in log output.
func WithBatchName(name string) BatchOption {
	return func(b *BatchProcessor) {
		b.name = name
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent tasks.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		name:        "batch",
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// Concurrency returns the task limit.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// Map runs fn for every item with at most bp.Concurrency() tasks in flight
// and waits for all of them. results[i] is the result for items[i]
// whatever the completion order.
//
// fn reports failures through its result. The returned error is only set
// when ctx was done before every task started; those tasks leave a zero
// result.
func Map[T, R any](ctx context.Context, bp *BatchProcessor, items []T, fn func(context.Context, T) R) ([]R, error) {
	bp.logger.Info("starting batch",
		"batch", bp.name,
		"total", len(items),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	results := make([]R, len(items))

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = fn(ctx, item)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch complete",
		"batch", bp.name,
		"total", len(items),
		"elapsed", time.Since(start),
	)
	return results, err
}
