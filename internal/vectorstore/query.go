package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QueryRequest is the engine's three search modes' shared input: a
// (dense, sparse) query pair (hybrid), just sparse (keyword), or neither
// (filter-only scroll).
type QueryRequest struct {
	Dense  []float32
	Sparse SparseVector
	Filter FilterOptions
	Limit  uint64
	Offset uint64
}

// SearchResult is one returned point, decoded into plain Go values.
type SearchResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// HybridQuery fuses a dense prefetch and a sparse prefetch with
// reciprocal-rank fusion, per spec.md §4.6: two prefetches each limited to
// limit+offset, fused, filtered, then paginated.
func (s *Store) HybridQuery(ctx context.Context, collection string, req QueryRequest) ([]SearchResult, error) {
	prefetchLimit := req.Limit + req.Offset

	prefetch := []*qdrant.PrefetchQuery{
		{
			Query:      qdrant.NewQueryDense(req.Dense),
			Using:      qdrant.PtrOf(denseVectorName),
			Limit:      qdrant.PtrOf(prefetchLimit),
			Filter:     BuildFilter(req.Filter),
		},
	}
	if len(req.Sparse.Indices) > 0 {
		prefetch = append(prefetch, &qdrant.PrefetchQuery{
			Query:  qdrant.NewQuerySparse(req.Sparse.Indices, req.Sparse.Values),
			Using:  qdrant.PtrOf(sparseVectorName),
			Limit:  qdrant.PtrOf(prefetchLimit),
			Filter: BuildFilter(req.Filter),
		})
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Prefetch:       prefetch,
		Query:          qdrant.NewQueryFusion(qdrant.Fusion_RRF),
		Filter:         BuildFilter(req.Filter),
		Limit:          qdrant.PtrOf(req.Limit),
		Offset:         qdrant.PtrOf(req.Offset),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: hybrid query on %s: %w", collection, err)
	}
	return decodeScoredPoints(points), nil
}

// KeywordQuery is sparse-only retrieval with the same filter surface.
func (s *Store) KeywordQuery(ctx context.Context, collection string, req QueryRequest) ([]SearchResult, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuerySparse(req.Sparse.Indices, req.Sparse.Values),
		Using:          qdrant.PtrOf(sparseVectorName),
		Filter:         BuildFilter(req.Filter),
		Limit:          qdrant.PtrOf(req.Limit),
		Offset:         qdrant.PtrOf(req.Offset),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: keyword query on %s: %w", collection, err)
	}
	return decodeScoredPoints(points), nil
}

// ScrollQuery returns points matching only the filter, with no ranking —
// used for filter-only listing and for ReferenceSearch. Grounded on
// original_source/src/backend/caselaw/search.py's "no query" branch,
// which calls query_points(..., offset=input.offset, ...) instead of
// scroll: Scroll's cursor is an opaque point id returned from the
// previous page, not the numeric req.Offset this engine's callers pass,
// so a plain Query with no vector (ordered by id, filter-only) is used
// instead — it accepts and honours a numeric offset directly.
func (s *Store) ScrollQuery(ctx context.Context, collection string, req QueryRequest) ([]SearchResult, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Filter:         BuildFilter(req.Filter),
		Limit:          qdrant.PtrOf(req.Limit),
		Offset:         qdrant.PtrOf(req.Offset),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: scroll on %s: %w", collection, err)
	}
	return decodeScoredPoints(points), nil
}

// ScrollAll exhaustively walks a collection's filter match, paging
// through Qdrant's scroll cursor until it's exhausted, mirroring
// get_changed_legislation_ids's offset-loop over the amendments
// collection. pageSize bounds each underlying Scroll call.
func (s *Store) ScrollAll(ctx context.Context, collection string, filter FilterOptions, pageSize uint32) ([]SearchResult, error) {
	var out []SearchResult
	var offset *qdrant.PointId

	for {
		points, next, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Filter:         BuildFilter(filter),
			Limit:          qdrant.PtrOf(pageSize),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("vectorstore: scroll-all on %s: %w", collection, err)
		}

		for _, p := range points {
			out = append(out, SearchResult{
				ID:      p.GetId().GetUuid(),
				Payload: convertPayloadToMap(p.GetPayload()),
			})
		}

		if next == nil || len(points) == 0 {
			return out, nil
		}
		offset = next
	}
}

// ReferenceSearch finds records whose reference-id list field contains id,
// e.g. caselaw citing a given piece of legislation.
func (s *Store) ReferenceSearch(ctx context.Context, collection, field, id string, limit uint64) ([]SearchResult, error) {
	return s.ScrollQuery(ctx, collection, QueryRequest{
		Filter: FilterOptions{ReferenceField: field, ReferenceID: id},
		Limit:  limit,
	})
}

func decodeScoredPoints(points []*qdrant.ScoredPoint) []SearchResult {
	out := make([]SearchResult, len(points))
	for i, p := range points {
		out[i] = SearchResult{
			ID:      p.GetId().GetUuid(),
			Score:   p.GetScore(),
			Payload: convertPayloadToMap(p.GetPayload()),
		}
	}
	return out
}
