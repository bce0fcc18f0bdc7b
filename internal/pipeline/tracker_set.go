package pipeline

import (
	"fmt"

	"github.com/i-dot-ai/lex-sub001/internal/tracking"
)

// trackerSet lazily constructs and caches one tracking.Tracker per
// (docType, year) combination, matching url_tracker.py's file-per-
// (doc_type, year, type_value) layout. Legislation Stage 1 processes
// many types and years within a single scrape, so one global Tracker
// cannot represent the legacy audit log faithfully; a set keyed by the
// document's own type/year can.
type trackerSet struct {
	dir   string
	runID string
	cache map[string]*tracking.Tracker
}

func newTrackerSet(dir, runID string) *trackerSet {
	return &trackerSet{dir: dir, runID: runID, cache: make(map[string]*tracking.Tracker)}
}

// get returns the Tracker for (docType, year), constructing and caching
// it on first use.
func (s *trackerSet) get(docType string, year int) (*tracking.Tracker, error) {
	key := fmt.Sprintf("%s_%d", docType, year)
	if t, ok := s.cache[key]; ok {
		return t, nil
	}
	t, err := tracking.New(s.dir, docType, year, "", s.runID)
	if err != nil {
		return nil, err
	}
	s.cache[key] = t
	return t, nil
}
