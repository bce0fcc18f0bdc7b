package tracking

import (
	"path/filepath"
	"testing"
)

func TestNewTrackerLoadsProcessedFromPreviousRun(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir, "ukpga", 2020, "", "run-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.RecordSuccess("http://example.com/a", "uuid-a", "2020-01-01"); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}

	second, err := New(dir, "ukpga", 2020, "", "run-2")
	if err != nil {
		t.Fatalf("New (second): %v", err)
	}
	if !second.IsProcessed("http://example.com/a") {
		t.Fatalf("expected previously-recorded success to be loaded")
	}
	if second.IsProcessed("http://example.com/b") {
		t.Fatalf("unrecorded url should not be processed")
	}
}

func TestRecordFailureDoesNotMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	tr, err := New(dir, "ukpga", 2021, "", "run-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.RecordFailure("http://example.com/c", "boom"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if tr.IsProcessed("http://example.com/c") {
		t.Fatalf("failed url should not be marked processed")
	}

	stats := tr.Stats()
	if stats.Success != 0 || stats.Failures != 1 || stats.Total != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStatsCountsSuccessAndFailures(t *testing.T) {
	dir := t.TempDir()
	tr, err := New(dir, "caselaw", 2023, "ewca", "run-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := tr.RecordSuccess("http://example.com/s"+string(rune('a'+i)), "uuid", ""); err != nil {
			t.Fatalf("RecordSuccess: %v", err)
		}
	}
	if err := tr.RecordFailure("http://example.com/f", "oops"); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}

	stats := tr.Stats()
	if stats.Success != 3 || stats.Failures != 1 || stats.Total != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestIdentifierIncludesTypeValueWhenPresent(t *testing.T) {
	dir := t.TempDir()
	tr, err := New(dir, "amendment", 2024, "ukpga", "run-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wantSuccess := filepath.Join(dir, "amendment_2024_ukpga_success.jsonl")
	if tr.successFile != wantSuccess {
		t.Fatalf("successFile = %q, want %q", tr.successFile, wantSuccess)
	}
}

func TestClearTrackingRemovesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	tr, err := New(dir, "ukpga", 2022, "", "run-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.RecordSuccess("http://example.com/x", "uuid", ""); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}
	other, err := New(dir, "caselaw", 2022, "", "run-1")
	if err != nil {
		t.Fatalf("New (other): %v", err)
	}
	if err := other.RecordSuccess("http://example.com/y", "uuid", ""); err != nil {
		t.Fatalf("RecordSuccess (other): %v", err)
	}

	if err := ClearTracking(dir, "ukpga"); err != nil {
		t.Fatalf("ClearTracking: %v", err)
	}

	fresh, err := New(dir, "ukpga", 2022, "", "run-2")
	if err != nil {
		t.Fatalf("New (fresh): %v", err)
	}
	if fresh.IsProcessed("http://example.com/x") {
		t.Fatalf("expected ukpga tracking to be cleared")
	}
	if !other.IsProcessed("http://example.com/y") {
		t.Fatalf("expected caselaw tracking to survive clearing ukpga")
	}
}
