package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// Upsert writes records into the named collection, keyed by their point
// ids. Upserts are idempotent: re-running with the same id overwrites the
// existing point in place, the mechanism the whole pipeline's "re-running
// is safe" guarantee rests on.
func (s *Store) Upsert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		p, err := buildPointStruct(r)
		if err != nil {
			return fmt.Errorf("vectorstore: building point for %s: %w", r.ID, err)
		}
		points = append(points, p)
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("vectorstore: upserting into %s: %w", collection, err)
	}
	return nil
}

func buildPointStruct(r Record) (*qdrant.PointStruct, error) {
	payload, err := PayloadFromJSON(r.Payload)
	if err != nil {
		return nil, err
	}

	vectors := map[string]*qdrant.Vector{
		denseVectorName: qdrant.NewVectorDense(r.Dense),
	}
	if len(r.Sparse.Indices) > 0 {
		vectors[sparseVectorName] = qdrant.NewVectorSparse(r.Sparse.Indices, r.Sparse.Values)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(r.ID),
		Vectors: qdrant.NewVectorsMap(vectors),
		Payload: qdrant.TryValueMap(payload),
	}, nil
}

// Retrieve does a direct batch id lookup — the state oracle's "which of
// these candidate ids already exist" primitive, and the embedding cache's
// O(1) lookup by query-hash id.
func (s *Store) Retrieve(ctx context.Context, collection string, ids []string, withVectors bool) ([]RetrievedPoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVectors),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: retrieving from %s: %w", collection, err)
	}

	out := make([]RetrievedPoint, len(points))
	for i, p := range points {
		out[i] = RetrievedPoint{
			ID:      p.GetId().GetUuid(),
			Payload: convertPayloadToMap(p.GetPayload()),
		}
		if withVectors {
			out[i].Dense = extractNamedVector(p.GetVectors(), denseVectorName)
		}
	}
	return out, nil
}

// RetrievedPoint is the decoded result of a Retrieve call.
type RetrievedPoint struct {
	ID      string
	Payload map[string]any
	Dense   []float32
}

func extractNamedVector(vectors *qdrant.VectorsOutput, name string) []float32 {
	if vectors == nil {
		return nil
	}
	m := vectors.GetVectors()
	if m == nil {
		return nil
	}
	v, ok := m.GetVectors()[name]
	if !ok {
		return nil
	}
	return v.GetDense().GetData()
}
