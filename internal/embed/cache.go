package embed

import (
	"context"

	"github.com/i-dot-ai/lex-sub001/internal/ids"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
)

// Cache fronts dense+sparse generation with the embedding_cache collection,
// keyed by uuid5(DNS, sha256(query)), grounded on original_source's
// embedding_cache.py.
type Cache struct {
	store *vectorstore.Store
}

// NewCache constructs a Cache over the shared vector store.
func NewCache(store *vectorstore.Store) *Cache {
	return &Cache{store: store}
}

// Get performs an O(1) point-id lookup for a cached (dense, sparse) pair.
func (c *Cache) Get(ctx context.Context, query string) (dense []float32, sparse SparseVector, ok bool, err error) {
	id := ids.QueryCacheUUID(query).String()
	points, err := c.store.Retrieve(ctx, vectorstore.CollectionEmbeddingCache, []string{id}, true)
	if err != nil {
		return nil, SparseVector{}, false, err
	}
	if len(points) == 0 {
		return nil, SparseVector{}, false, nil
	}

	p := points[0]
	sv := decodeSparsePayload(p.Payload)
	return p.Dense, sv, true, nil
}

// Put writes through the (dense, sparse) pair for a query.
func (c *Cache) Put(ctx context.Context, query string, dense []float32, sparse SparseVector) error {
	id := ids.QueryCacheUUID(query).String()
	payload := map[string]any{
		"query":          query,
		"query_hash":     ids.QueryHash(query),
		"sparse_indices": sparse.Indices,
		"sparse_values":  sparse.Values,
	}
	return c.store.Upsert(ctx, vectorstore.CollectionEmbeddingCache, []vectorstore.Record{
		{ID: id, Dense: dense, Payload: payload},
	})
}

func decodeSparsePayload(payload map[string]any) SparseVector {
	var sv SparseVector
	if raw, ok := payload["sparse_indices"].([]any); ok {
		sv.Indices = make([]uint32, len(raw))
		for i, v := range raw {
			if f, ok := v.(float64); ok {
				sv.Indices[i] = uint32(f)
			}
		}
	}
	if raw, ok := payload["sparse_values"].([]any); ok {
		sv.Values = make([]float32, len(raw))
		for i, v := range raw {
			if f, ok := v.(float64); ok {
				sv.Values[i] = float32(f)
			}
		}
	}
	return sv
}
