package pipeline

import (
	"context"
	"fmt"

	"github.com/i-dot-ai/lex-sub001/internal/embed"
	"github.com/i-dot-ai/lex-sub001/internal/ids"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
)

// upsertOne embeds rec's text via generator and upserts it into
// collection, keyed by uuid5(DNS, docID). Every Stage-1 record kind goes
// through this one path, mirroring the original's uniform "embed then
// upload" tail shared by every per-kind pipeline.
func upsertOne(ctx context.Context, store *vectorstore.Store, generator *embed.Generator, collection, docID string, rec models.Embeddable) error {
	payload, err := vectorstore.PayloadFromJSON(rec)
	if err != nil {
		return fmt.Errorf("pipeline: building payload for %s: %w", docID, err)
	}

	vecs := generator.ForDocument(ctx, rec.EmbeddingText())

	return store.Upsert(ctx, collection, []vectorstore.Record{
		{
			ID:      ids.DocumentUUIDString(docID),
			Dense:   vecs.Dense,
			Sparse:  vectorstore.SparseVector{Indices: vecs.Sparse.Indices, Values: vecs.Sparse.Values},
			Payload: payload,
		},
	})
}

// upsertMany embeds and upserts a batch of records sharing one
// collection, one id per record via idOf.
func upsertMany[T models.Embeddable](ctx context.Context, store *vectorstore.Store, generator *embed.Generator, collection string, records []T, idOf func(T) string) error {
	if len(records) == 0 {
		return nil
	}
	batch := make([]vectorstore.Record, len(records))
	for i, rec := range records {
		payload, err := vectorstore.PayloadFromJSON(rec)
		if err != nil {
			return fmt.Errorf("pipeline: building payload for %s: %w", idOf(rec), err)
		}
		vecs := generator.ForDocument(ctx, rec.EmbeddingText())
		batch[i] = vectorstore.Record{
			ID:      ids.DocumentUUIDString(idOf(rec)),
			Dense:   vecs.Dense,
			Sparse:  vectorstore.SparseVector{Indices: vecs.Sparse.Indices, Values: vecs.Sparse.Values},
			Payload: payload,
		}
	}
	return store.Upsert(ctx, collection, batch)
}
