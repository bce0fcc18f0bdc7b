package embed

import (
	"context"
	"sync"
)

// DefaultBatchWorkers is the bounded worker-pool size for dense-embedding
// fan-out, matching the original's ThreadPoolExecutor(max_workers=50).
const DefaultBatchWorkers = 50

// BatchOptions configures a batch embedding call.
type BatchOptions struct {
	Workers    int
	OnProgress func(done, total int)
}

// EmbedDocumentsBatch computes (dense, sparse) pairs for a batch of
// documents in parallel, preserving input order in the result slice
// (ordering is index-addressed, not fan-in order).
func (g *Generator) EmbedDocumentsBatch(ctx context.Context, texts []string, opts BatchOptions) []HybridVectors {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	if workers > len(texts) {
		workers = len(texts)
	}
	if workers == 0 {
		return nil
	}

	out := make([]HybridVectors, len(texts))
	var done int
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = g.ForDocument(ctx, texts[i])
				if opts.OnProgress != nil {
					mu.Lock()
					done++
					opts.OnProgress(done, len(texts))
					mu.Unlock()
				}
			}
		}()
	}

	for i := range texts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return out
		}
	}
	close(jobs)
	wg.Wait()
	return out
}
