package ocr

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCompletedMissingFileReturnsEmptySet(t *testing.T) {
	completed, err := LoadCompleted(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	if err != nil {
		t.Fatalf("LoadCompleted() error = %v, want nil", err)
	}
	if len(completed) != 0 {
		t.Fatalf("LoadCompleted() = %v, want empty", completed)
	}
}

func TestLoadCompletedParsesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	content := `{"legislation_type":"ukpga","identifier":"Edw7/6/19","success":true}
{"legislation_type":"aep","identifier":"Geo3/41/90","success":true}

not json
{"legislation_type":"","identifier":"x"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	completed, err := LoadCompleted(path)
	if err != nil {
		t.Fatalf("LoadCompleted() error = %v", err)
	}
	if !completed["ukpga/Edw7/6/19"] {
		t.Error("expected ukpga/Edw7/6/19 to be completed")
	}
	if !completed["aep/Geo3/41/90"] {
		t.Error("expected aep/Geo3/41/90 to be completed")
	}
	if len(completed) != 2 {
		t.Errorf("len(completed) = %d, want 2", len(completed))
	}
}

func TestAppendResultThenLoadCompletedRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	result := ExtractionResult{
		LegislationType: "ukpga",
		Identifier:      "Edw7/6/19",
		Success:         true,
		ExtractedData:   "transcribed text",
	}
	if err := AppendResult(path, result); err != nil {
		t.Fatalf("AppendResult() error = %v", err)
	}

	completed, err := LoadCompleted(path)
	if err != nil {
		t.Fatalf("LoadCompleted() error = %v", err)
	}
	if !completed[result.Key()] {
		t.Errorf("expected %q to be completed after AppendResult", result.Key())
	}
}

func TestExtractionResultKey(t *testing.T) {
	r := ExtractionResult{LegislationType: "ukpga", Identifier: "Edw7/6/19"}
	if got, want := r.Key(), "ukpga/Edw7/6/19"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
