// Package health adapts the teacher's shared health/metrics server
// (internal/healthserver) for the ingestion engine's own process: a
// /healthz liveness probe, a /readyz probe backed by Qdrant connectivity,
// and /metrics for the collectors in internal/metrics.
package health

import (
	"context"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/healthserver"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// PingTimeout bounds each readiness check against Qdrant.
const PingTimeout = 5 * time.Second

// Start serves /healthz, /readyz, and /metrics on port, non-blocking.
// readyz reports healthy once store.Ready succeeds against a
// PingTimeout-bounded context — a long-stalled Qdrant connection fails
// the probe rather than hanging it.
func Start(logger *zap.Logger, port int, store *vectorstore.Store) {
	healthserver.Start(logger, port, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
		defer cancel()
		return store.Ready(ctx)
	})
}
