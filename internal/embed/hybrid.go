package embed

import "context"

// HybridVectors is the (dense, sparse) pair the vector store's hybrid
// query and every document upsert needs.
type HybridVectors struct {
	Dense  []float32
	Sparse SparseVector
}

// Generator produces cache-aware hybrid vectors for queries, and plain
// (uncached) hybrid vectors for documents being ingested — the embedding
// cache only makes sense for repeated search queries, not unique
// documents, matching the original's generate_hybrid_embeddings (cached)
// vs. the document-ingestion embedding calls (uncached).
type Generator struct {
	dense  *DenseClient
	sparse *SparseEmbedder
	cache  *Cache
}

// NewGenerator constructs a Generator.
func NewGenerator(dense *DenseClient, sparse *SparseEmbedder, cache *Cache) *Generator {
	return &Generator{dense: dense, sparse: sparse, cache: cache}
}

// ForDocument computes (dense, sparse) for a document being ingested,
// bypassing the query cache.
func (g *Generator) ForDocument(ctx context.Context, text string) HybridVectors {
	return HybridVectors{
		Dense:  g.dense.Embed(ctx, text),
		Sparse: g.sparse.Embed(text),
	}
}

// ForQuery computes (dense, sparse) for a search query, consulting the
// embedding cache first.
func (g *Generator) ForQuery(ctx context.Context, query string) (HybridVectors, error) {
	if g.cache != nil {
		if dense, sparse, ok, err := g.cache.Get(ctx, query); err != nil {
			return HybridVectors{}, err
		} else if ok {
			return HybridVectors{Dense: dense, Sparse: sparse}, nil
		}
	}

	vecs := HybridVectors{
		Dense:  g.dense.Embed(ctx, query),
		Sparse: g.sparse.Embed(query),
	}
	if g.cache != nil {
		_ = g.cache.Put(ctx, query, vecs.Dense, vecs.Sparse)
	}
	return vecs, nil
}
