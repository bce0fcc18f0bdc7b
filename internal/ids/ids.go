// Package ids computes the deterministic identity primitives the rest of
// the ingestion engine relies on for idempotent upserts.
package ids

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// DocumentUUID derives the vector-store point id for a record from its
// canonical URI. Stable across processes and runs: uuid5(DNS, uri).
func DocumentUUID(uri string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(uri))
}

// DocumentUUIDString is DocumentUUID formatted as its canonical string form,
// the representation the Qdrant client and payload layers use as a point id.
func DocumentUUIDString(uri string) string {
	return DocumentUUID(uri).String()
}

// QueryHash is the sha256 hex digest of a search query string, the key
// space the embedding cache indexes by before deriving a point id from it.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// QueryCacheUUID derives the embedding-cache point id for a query:
// uuid5(DNS, sha256(query)).
func QueryCacheUUID(query string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(QueryHash(query)))
}

// AmendmentID builds the symmetric amendment identity:
// "changed-{changed_url}-affecting-{affecting_url}". Both URLs must be
// non-empty; callers are responsible for treating a missing URL as a
// parse failure rather than calling this with an empty string (see
// DESIGN.md Open Question (c)).
func AmendmentID(changedURL, affectingURL string) string {
	return "changed-" + changedURL + "-affecting-" + affectingURL
}

// SummaryID builds a CaselawSummary's id from its parent Caselaw id.
func SummaryID(caselawID string) string {
	return caselawID + "-summary"
}
