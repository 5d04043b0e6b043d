// pattern: Imperative Shell

// package orchestrator drives one batch of changed paths through
// resolution and invocation.
package orchestrator

import (
	"context"

	"tagsentry/internal/invoke"
	"tagsentry/internal/logging"
	"tagsentry/internal/resolve"
)

// BatchRunner executes assembled invocations sequentially, stopping on
// the first failure. Satisfied by *invoke.Runner.
type BatchRunner interface {
	RunAll(ctx context.Context, invs []invoke.Invocation) error
}

// Orchestrator is the per-batch reaction handler. It is stateless
// across batches: every batch rebuilds its RootMap from scratch.
type Orchestrator struct {
	resolver *resolve.Resolver
	builder  *invoke.Builder
	runner   BatchRunner
	logger   *logging.ScopedLogger
}

// New creates an Orchestrator.
func New(resolver *resolve.Resolver, builder *invoke.Builder, runner BatchRunner, logger *logging.ScopedLogger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		builder:  builder,
		runner:   runner,
		logger:   logger,
	}
}

// HandleBatch processes one batch of changed paths. Affected roots are
// reindexed sequentially in sorted marker order; a failing invocation
// aborts the rest and is reported as the batch's error.
//
// When no roots are affected the batch still completes explicitly with
// a nil error. Host integrations must treat this as a successful
// reaction acknowledgment; skipping it stalls runtimes that wait for
// each batch to be acknowledged before dispatching the next one.
func (o *Orchestrator) HandleBatch(ctx context.Context, events []string) error {
	roots := o.resolver.Resolve(events)

	if len(roots) == 0 {
		o.logger.Info("no roots affected, completing batch as no-op", "events", len(events))
		return nil
	}

	invs := make([]invoke.Invocation, 0, len(roots))
	for _, markerPath := range roots.SortedMarkers() {
		invs = append(invs, o.builder.Build(markerPath, roots[markerPath]))
	}

	o.logger.Info("reindexing affected roots", "roots", len(invs), "events", len(events))
	return o.runner.RunAll(ctx, invs)
}
