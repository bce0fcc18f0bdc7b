package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultPoolWorkers is the bounded Stage-1 fan-out size, matching the
// original's ThreadPoolExecutor(max_workers=50) used for dense-embedding
// batches and carried over here as the default for scrape/parse/upsert
// fan-out as well.
const DefaultPoolWorkers = 50

// Run processes items concurrently, at most workers at a time, collecting
// one Outcome per item in input order. Grounded on
// golang.org/x/sync/errgroup's WithContext + SetLimit pattern, the same
// shape Tangerg-lynx's ai/rag retriever fan-out uses for bounded
// concurrent work.
func Run[T any](ctx context.Context, items []T, workers int, process func(context.Context, T) Outcome) []Outcome {
	if workers <= 0 {
		workers = DefaultPoolWorkers
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	outcomes := make([]Outcome, len(items))
	if len(items) == 0 {
		return outcomes
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			outcome := process(gctx, item)
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			if outcome.Aborts() {
				return errAbort
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// errAbort is a sentinel returned to errgroup so gctx is cancelled as
// soon as a non-recoverable outcome occurs, short-circuiting remaining
// in-flight work; it is never surfaced to callers since Run reports
// results via the Outcome slice, not an error return.
var errAbort = errAbortError{}

type errAbortError struct{}

func (errAbortError) Error() string { return "pipeline: non-recoverable error, aborting" }
