// Package ocr digitises historical legislation PDFs that have no machine
// text layer (pre-1988 legislation.gov.uk documents served as scanned
// images), by splitting the source PDF's pages into chunks and sending
// the whole PDF, with one chunk's page range named in the prompt, to a
// vision-capable chat-completions model per chunk, then stitching the
// chunks' transcriptions back into one document.
package ocr

import "time"

// ExtractionProvenance records how one extraction was produced, mirroring
// the original's pdf_digitization.models.ExtractionProvenance so the
// provenance survives into the upserted record's payload.
type ExtractionProvenance struct {
	Source                string    `json:"source"`
	Model                 string    `json:"model"`
	PromptVersion         string    `json:"prompt_version"`
	Timestamp             time.Time `json:"timestamp"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	InputTokens           int       `json:"input_tokens"`
	OutputTokens          int       `json:"output_tokens"`
	CachedTokens          int       `json:"cached_tokens"`
	ResponseID            string    `json:"response_id"`
}

// PromptVersion identifies the current OCR prompt's revision, bumped
// whenever the prompt's wording changes in a way that would affect
// output comparability across a resumed batch.
const PromptVersion = "v1.0"

// ExtractionResult is the outcome of digitising one PDF, mirroring the
// original's ExtractionResult.
type ExtractionResult struct {
	ExtractedData   string               `json:"extracted_data"`
	Provenance      ExtractionProvenance `json:"provenance"`
	Success         bool                 `json:"success"`
	Error           string               `json:"error,omitempty"`
	PDFSource       string               `json:"pdf_source"`
	LegislationType string               `json:"legislation_type"`
	Identifier      string               `json:"identifier"`
}

// Key returns the "type/identifier" string batch resume state is keyed
// by, matching load_completed_pdfs' f"{leg_type}/{identifier}" form.
func (r ExtractionResult) Key() string {
	return r.LegislationType + "/" + r.Identifier
}
