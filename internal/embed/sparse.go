package embed

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"
)

// bm25K1 and bm25B are the standard Okapi BM25 tuning constants.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// SparseEmbedder computes BM25 term-weight sparse vectors locally. No
// Go-ecosystem library in the example pack provides fastembed's
// Qdrant/bm25-equivalent term weighting, and spec.md §4.5 frames sparse
// embedding as "a local deterministic tokeniser/statistics model" by
// design, so this is a from-scratch implementation rather than a stdlib
// compromise (see DESIGN.md).
type SparseEmbedder struct {
	avgDocLen float64
	docLens   []int
}

// NewSparseEmbedder constructs a SparseEmbedder. Its average document
// length, the BM25 length-normalisation term, starts at 1 (no
// normalisation effect) until documents have been observed.
func NewSparseEmbedder() *SparseEmbedder {
	return &SparseEmbedder{avgDocLen: 1}
}

// SparseVector is the local representation used before handing off to
// vectorstore.SparseVector.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// tokenize lowercases and splits on non-letter/non-digit runes, the
// simplest deterministic tokeniser that gives stable term ids across runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// termID hashes a token to a stable uint32 vocabulary index. Using a hash
// rather than a growing vocabulary table keeps term ids independent of
// which documents the embedder has seen and deterministic across
// processes, matching the identity-stability
// invariant the rest of the system relies on.
func termID(token string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(token))
	return h.Sum32()
}

// Embed computes a single document's BM25-weighted sparse vector against
// this embedder's running average document length.
func (s *SparseEmbedder) Embed(text string) SparseVector {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return SparseVector{}
	}

	termFreq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		termFreq[t]++
	}

	docLen := len(tokens)
	s.observe(docLen)
	avgLen := s.avgDocLen

	type weighted struct {
		id     uint32
		weight float32
	}
	weights := make([]weighted, 0, len(termFreq))
	for term, freq := range termFreq {
		tf := float64(freq)
		norm := 1 - bm25B + bm25B*(float64(docLen)/avgLen)
		score := (tf * (bm25K1 + 1)) / (tf + bm25K1*norm)
		weights = append(weights, weighted{id: termID(term), weight: float32(score)})
	}

	sort.Slice(weights, func(i, j int) bool { return weights[i].id < weights[j].id })

	indices := make([]uint32, len(weights))
	values := make([]float32, len(weights))
	for i, w := range weights {
		indices[i] = w.id
		values[i] = w.weight
	}
	return SparseVector{Indices: indices, Values: values}
}

func (s *SparseEmbedder) observe(docLen int) {
	s.docLens = append(s.docLens, docLen)
	total := 0
	for _, l := range s.docLens {
		total += l
	}
	s.avgDocLen = math.Max(1, float64(total)/float64(len(s.docLens)))
}

// EmbedBatch computes sparse vectors for a batch of texts in input order.
func (s *SparseEmbedder) EmbedBatch(texts []string) []SparseVector {
	out := make([]SparseVector, len(texts))
	for i, t := range texts {
		out[i] = s.Embed(t)
	}
	return out
}
