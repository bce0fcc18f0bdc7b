// Package vectorstore adapts the engine's collections onto Qdrant,
// grounded directly on Tangerg-lynx's qdrant vector-store provider
// (ai/providers/vectorstores/qdrant/store.go), which is the only complete
// github.com/qdrant/go-client integration found across the example pack.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"

	// RRFConstant is the k in RRF's 1/(k+rank) fusion score, per spec.md's
	// glossary entry for Reciprocal Rank Fusion.
	RRFConstant = 60
)

// CollectionSpec describes one kind's collection configuration.
type CollectionSpec struct {
	Name               string
	Quantized          bool // INT8 scalar quantisation, quantile 0.99, always_ram
	DenseOnly          bool // no sparse vector config (the embedding cache collection)
	KeywordIndexFields []string
	IntegerIndexFields []string
	KeywordListFields  []string
}

// Store wraps a *qdrant.Client with the engine's collection and query
// operations.
type Store struct {
	client *qdrant.Client
	logger *zap.Logger
}

// Config dials a Store's underlying client.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// New dials Qdrant and returns a Store.
func New(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: dialing qdrant: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// EnsureCollection creates the named collection with a dense cosine vector,
// a sparse (in-memory) BM25 vector, optional INT8 scalar quantisation, and
// the spec's payload indexes, if it does not already exist.
func (s *Store) EnsureCollection(ctx context.Context, spec CollectionSpec, dims int) error {
	exists, err := s.client.CollectionExists(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("vectorstore: checking collection %s: %w", spec.Name, err)
	}
	if exists {
		return nil
	}

	createReq := &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {
				Size:     uint64(dims),
				Distance: qdrant.Distance_Cosine,
			},
		}),
	}

	if !spec.DenseOnly {
		createReq.SparseVectorsConfig = qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {
				Index: &qdrant.SparseIndexConfig{
					OnDisk: qdrant.PtrOf(false),
				},
			},
		})
	}

	if spec.Quantized {
		createReq.QuantizationConfig = qdrant.NewQuantizationScalar(&qdrant.QuantizationScalar{
			Type:      qdrant.QuantizationType_Int8,
			Quantile:  qdrant.PtrOf(float32(0.99)),
			AlwaysRam: qdrant.PtrOf(true),
		})
	}

	if err := s.client.CreateCollection(ctx, createReq); err != nil {
		return fmt.Errorf("vectorstore: creating collection %s: %w", spec.Name, err)
	}

	for _, field := range spec.KeywordIndexFields {
		if err := s.createPayloadIndex(ctx, spec.Name, field, qdrant.FieldType_Keyword); err != nil {
			return err
		}
	}
	for _, field := range spec.IntegerIndexFields {
		if err := s.createPayloadIndex(ctx, spec.Name, field, qdrant.FieldType_Integer); err != nil {
			return err
		}
	}
	for _, field := range spec.KeywordListFields {
		if err := s.createPayloadIndex(ctx, spec.Name, field, qdrant.FieldType_Keyword); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createPayloadIndex(ctx context.Context, collection, field string, kind qdrant.FieldType) error {
	if err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      field,
		FieldType:      qdrant.PtrOf(kind),
	}); err != nil {
		return fmt.Errorf("vectorstore: creating payload index %s.%s: %w", collection, field, err)
	}
	return nil
}

// DeleteCollection drops a collection entirely.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	return s.client.DeleteCollection(ctx, name)
}

// Count returns the number of points in a collection.
func (s *Store) Count(ctx context.Context, collection string) (uint64, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: collection})
	if err != nil {
		return 0, fmt.Errorf("vectorstore: counting %s: %w", collection, err)
	}
	return n, nil
}

// Ready reports whether Qdrant is reachable, by listing collections —
// the same connectivity check get_collections serves in the original's
// readiness probe.
func (s *Store) Ready(ctx context.Context) bool {
	_, err := s.client.ListCollections(ctx)
	return err == nil
}
