package ocr

import (
	"bufio"
	"encoding/json"
	"os"
)

// LoadCompleted reads a JSONL output file of previously-written
// ExtractionResults and returns the set of "type/identifier" keys
// already present, so a re-run of the same batch skips them, matching
// the original's load_completed_pdfs resume behaviour. A missing file
// is not an error: it just means nothing has completed yet.
func LoadCompleted(path string) (map[string]bool, error) {
	completed := make(map[string]bool)
	if path == "" {
		return completed, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return completed, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var result ExtractionResult
		if err := json.Unmarshal(line, &result); err != nil {
			continue
		}
		if result.LegislationType != "" && result.Identifier != "" {
			completed[result.Key()] = true
		}
	}
	return completed, scanner.Err()
}

// AppendResult appends result to path as one JSONL line, creating the
// file if it does not already exist. Parent directories are not created.
func AppendResult(path string, result ExtractionResult) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(result)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return err
}
