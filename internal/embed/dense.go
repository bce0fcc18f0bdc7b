// Package embed generates dense and sparse query/document vectors and
// fronts them with the embedding cache, grounded on original_source's
// core/embeddings.py.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/models"
	"go.uber.org/zap"
)

// MaxInputChars is the truncation point applied before a dense embedding
// call, matching the original's 30 000-character cap.
const MaxInputChars = 30_000

// DenseBaseBackoff is the exponential backoff base used between retries
// on a rate-limited embedding call.
const DenseBaseBackoff = 1 * time.Second

// DenseMaxRetries is the retry budget for a single dense embedding call.
const DenseMaxRetries = 5

// DenseClient calls a remote dense-embedding service. No pack example
// ships an SDK for a specific embedding vendor, so this is a small typed
// HTTP client rather than a vendor SDK (see DESIGN.md's stdlib
// justification).
type DenseClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

// NewDenseClient constructs a DenseClient.
func NewDenseClient(endpoint, apiKey string, logger *zap.Logger) *DenseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DenseClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

type denseRequest struct {
	Input string `json:"input"`
}

type denseResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns a 1024-D dense vector for text. On any terminal failure
// (after exhausting retries) it returns a zero vector — the original's
// "never halt the pipeline for one bad embedding" policy — and it has no
// error result, so the failure never reaches the caller.
func (c *DenseClient) Embed(ctx context.Context, text string) []float32 {
	if len(text) > MaxInputChars {
		text = text[:MaxInputChars]
	}

	for attempt := 0; attempt < DenseMaxRetries; attempt++ {
		vec, rateLimited, err := c.call(ctx, text)
		if err == nil {
			return vec
		}
		if !rateLimited {
			c.logger.Warn("dense embedding failed, returning zero vector", zap.Error(err))
			return zeroVector()
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * DenseBaseBackoff
		select {
		case <-ctx.Done():
			return zeroVector()
		case <-time.After(backoff):
		}
	}
	c.logger.Warn("dense embedding exhausted retries, returning zero vector")
	return zeroVector()
}

func (c *DenseClient) call(ctx context.Context, text string) ([]float32, bool, error) {
	body, err := json.Marshal(denseRequest{Input: text})
	if err != nil {
		return nil, false, fmt.Errorf("embed: marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("embed: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("embed: http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("embed: rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("embed: status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("embed: reading body: %w", err)
	}
	var out denseResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("embed: decoding response: %w", err)
	}
	return out.Embedding, false, nil
}

func zeroVector() []float32 {
	return make([]float32, models.EmbeddingDimensions)
}
