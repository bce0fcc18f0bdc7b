// Package tracking implements the legacy JSONL success/failure audit log,
// grounded on original_source's src/lex/core/url_tracker.py (URLTracker,
// SuccessRecord, FailureRecord). It is the file-based compatibility
// surface spec.md §6 names alongside the preferred Qdrant-as-state-of-truth
// mode implemented by internal/state.
package tracking

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SuccessRecord is one line of a "<kind>_<year>_<type>_success.jsonl" file.
type SuccessRecord struct {
	URL       string `json:"url"`
	UUID      string `json:"uuid"`
	RunID     string `json:"run_id"`
	DocType   string `json:"doc_type"`
	Year      int    `json:"year"`
	TypeValue string `json:"type_value,omitempty"`
	DocDate   string `json:"doc_date,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FailureRecord is one line of a "<kind>_<year>_<type>_failures.jsonl" file.
type FailureRecord struct {
	URL       string `json:"url"`
	Error     string `json:"error"`
	RunID     string `json:"run_id"`
	DocType   string `json:"doc_type"`
	Year      int    `json:"year"`
	TypeValue string `json:"type_value,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Stats summarises one Tracker's accumulated counts.
type Stats struct {
	Success  int
	Failures int
	Total    int
}

// Tracker appends success/failure records for one (doc_type, year,
// type_value) combination and caches which URLs have already succeeded,
// so a re-run can skip them without re-fetching.
type Tracker struct {
	mu sync.Mutex

	docType     string
	year        int
	typeValue   string
	runID       string
	successFile string
	failureFile string

	processed map[string]bool
}

// New constructs a Tracker rooted at dir, loading any already-recorded
// successes from a previous run of the same (docType, year, typeValue).
func New(dir, docType string, year int, typeValue, runID string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tracking: creating %s: %w", dir, err)
	}

	identifier := fmt.Sprintf("%s_%d", docType, year)
	if typeValue != "" {
		identifier = fmt.Sprintf("%s_%s", identifier, typeValue)
	}

	t := &Tracker{
		docType:     docType,
		year:        year,
		typeValue:   typeValue,
		runID:       runID,
		successFile: filepath.Join(dir, identifier+"_success.jsonl"),
		failureFile: filepath.Join(dir, identifier+"_failures.jsonl"),
		processed:   make(map[string]bool),
	}

	if err := t.loadProcessed(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) loadProcessed() error {
	f, err := os.Open(t.successFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tracking: opening %s: %w", t.successFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec SuccessRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		t.processed[rec.URL] = true
	}
	return scanner.Err()
}

// IsProcessed reports whether url already has a recorded success.
func (t *Tracker) IsProcessed(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processed[url]
}

// RecordSuccess appends a success line and marks url processed.
func (t *Tracker) RecordSuccess(url, docUUID, docDate string) error {
	rec := SuccessRecord{
		URL:       url,
		UUID:      docUUID,
		RunID:     t.runID,
		DocType:   t.docType,
		Year:      t.year,
		TypeValue: t.typeValue,
		DocDate:   docDate,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := appendJSONLine(t.successFile, rec); err != nil {
		return err
	}
	t.processed[url] = true
	return nil
}

// RecordFailure appends a failure line. errMsg is stored in full, not
// truncated, since file size is not a practical constraint for JSONL.
func (t *Tracker) RecordFailure(url, errMsg string) error {
	rec := FailureRecord{
		URL:       url,
		Error:     errMsg,
		RunID:     t.runID,
		DocType:   t.docType,
		Year:      t.year,
		TypeValue: t.typeValue,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return appendJSONLine(t.failureFile, rec)
}

// Stats reports accumulated success/failure counts.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	success := len(t.processed)
	t.mu.Unlock()

	failures := countLines(t.failureFile)
	return Stats{Success: success, Failures: failures, Total: success + failures}
}

func appendJSONLine(path string, v any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("tracking: opening %s: %w", path, err)
	}
	defer f.Close()

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("tracking: marshalling record: %w", err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("tracking: writing %s: %w", path, err)
	}
	return nil
}

func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			n++
		}
	}
	return n
}

// ClearTracking removes every tracking file for docType under dir,
// mirroring the original's clear_tracking glob-delete.
func ClearTracking(dir, docType string) error {
	matches, err := filepath.Glob(filepath.Join(dir, docType+"_*"))
	if err != nil {
		return fmt.Errorf("tracking: globbing %s: %w", docType, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("tracking: removing %s: %w", m, err)
		}
	}
	return nil
}
