// Package state replaces JSONL success/failure tracking with direct Qdrant
// existence and staleness queries, grounded on original_source's
// src/lex/ingest/state.go equivalent, src/lex/ingest/state.py
// (get_existing_ids, get_existing_ids_with_metadata) and
// src/lex/ingest/amendments_led.py (get_changed_legislation_ids,
// get_stale_or_missing_legislation_ids).
package state

import (
	"context"

	"github.com/i-dot-ai/lex-sub001/internal/ids"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// ScrollPageSize bounds each underlying Qdrant scroll call the amendment
// change-manifest query issues.
const ScrollPageSize = 1000

// Oracle answers "does this document already exist, and is it current"
// questions against the vector store, replacing per-run JSONL file state.
type Oracle struct {
	store  *vectorstore.Store
	logger *zap.Logger
}

// New constructs an Oracle bound to store.
func New(store *vectorstore.Store, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{store: store, logger: logger}
}

// ExistingIDs reports which of docIDs (canonical URIs) already have a
// point in collection, using a batch retrieve keyed by their derived
// uuid5 ids — the efficient existence-only primitive get_existing_ids
// uses instead of a per-id lookup.
func (o *Oracle) ExistingIDs(ctx context.Context, collection string, docIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(docIDs) == 0 {
		return existing, nil
	}

	uuids := make([]string, len(docIDs))
	for i, id := range docIDs {
		uuids[i] = ids.DocumentUUIDString(id)
	}

	points, err := o.store.Retrieve(ctx, collection, uuids, false)
	if err != nil {
		o.logger.Warn("existence check failed, treating all as missing", zap.String("collection", collection), zap.Error(err))
		return existing, nil
	}

	for _, p := range points {
		if id, ok := p.Payload["id"].(string); ok {
			existing[id] = true
		}
	}
	return existing, nil
}

// FilterNew returns the subset of docIDs not already present in
// collection, matching filter_new_items's "skip what's already ingested"
// use at the top of every scrape pass.
func (o *Oracle) FilterNew(ctx context.Context, collection string, docIDs []string) ([]string, error) {
	existing, err := o.ExistingIDs(ctx, collection, docIDs)
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, id := range docIDs {
		if !existing[id] {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

// ExistingMetadata is get_existing_ids_with_metadata's result: which of
// the requested ids exist, keyed by the original (non-uuid) document id,
// carrying the payload fields the caller asked to see.
type ExistingMetadata struct {
	ModifiedDate string // ISO date string, empty if absent
}

// ExistingWithMetadata retrieves existence plus modified_date for every
// id in docIDs, the staleness-comparison primitive
// get_stale_or_missing_legislation_ids builds on.
func (o *Oracle) ExistingWithMetadata(ctx context.Context, collection string, docIDs []string) (map[string]ExistingMetadata, error) {
	out := make(map[string]ExistingMetadata)
	if len(docIDs) == 0 {
		return out, nil
	}

	uuids := make([]string, len(docIDs))
	for i, id := range docIDs {
		uuids[i] = ids.DocumentUUIDString(id)
	}

	points, err := o.store.Retrieve(ctx, collection, uuids, false)
	if err != nil {
		o.logger.Warn("metadata existence check failed", zap.String("collection", collection), zap.Error(err))
		return out, nil
	}

	for _, p := range points {
		id, ok := p.Payload["id"].(string)
		if !ok {
			continue
		}
		meta := ExistingMetadata{}
		if modified, ok := p.Payload["modified_date"].(string); ok {
			meta.ModifiedDate = modified
		}
		out[id] = meta
	}
	return out, nil
}

// Count returns the number of points in collection, or 0 on error —
// matching count_documents's fail-open behaviour for a non-critical
// reporting statistic.
func (o *Oracle) Count(ctx context.Context, collection string) int {
	n, err := o.store.Count(ctx, collection)
	if err != nil {
		return 0
	}
	return int(n)
}
