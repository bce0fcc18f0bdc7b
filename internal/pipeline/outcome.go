// Package pipeline orchestrates each document kind's scrape → parse →
// embed → upsert Stage 1, plus Stage 2 AI enrichment, across the three
// ingest modes (daily, full, amendments-led), grounded on
// original_source's per-kind pipeline.py modules
// (legislation/pipeline.py, amendment/pipeline.py, caselaw/pipeline.py,
// explanatory_note/pipeline.py).
package pipeline

import "github.com/i-dot-ai/lex-sub001/internal/errtax"

// OutcomeKind is the closed set of results a pipeline stage can produce
// for one record, replacing the original's ProcessedException
// control-flow exception with a plain value the orchestrator switches on.
type OutcomeKind string

const (
	// OutcomeOK means the record was scraped, parsed, embedded, and
	// upserted successfully.
	OutcomeOK OutcomeKind = "ok"

	// OutcomeSkip means no work was done for the record: it is outside
	// the amendments-led rescrape set, already recorded as processed in
	// the legacy tracking log, a PDF-only document with no body to
	// extract, an amendment page with no rows, or a judgment too short to
	// summarise. Stage 1 does not check the vector store for records that
	// already exist, and Stage 2 leaves already-summarised judgments out
	// of its work list without producing an outcome for them.
	OutcomeSkip OutcomeKind = "skip"

	// OutcomeFail means processing failed; Category decides whether the
	// orchestrator logs and continues or aborts the run.
	OutcomeFail OutcomeKind = "fail"
)

// Outcome is the value every Stage 1/Stage 2 record-processing step
// returns instead of raising.
type Outcome struct {
	Kind     OutcomeKind
	Record   any
	URL      string
	Reason   string
	Category errtax.Category
	Detail   string
}

// OK wraps a successfully produced record.
func OK(url string, record any) Outcome {
	return Outcome{Kind: OutcomeOK, URL: url, Record: record}
}

// Skip reports a record that needed no work, with a human-readable reason.
func Skip(url, reason string) Outcome {
	return Outcome{Kind: OutcomeSkip, URL: url, Reason: reason}
}

// Fail wraps err's taxonomy category and message as a failed outcome.
func Fail(url string, err error) Outcome {
	return Outcome{
		Kind:     OutcomeFail,
		URL:      url,
		Category: errtax.Categorize(err),
		Detail:   err.Error(),
	}
}

// Aborts reports whether this outcome should stop the run: only a
// failure whose category is non-recoverable.
func (o Outcome) Aborts() bool {
	return o.Kind == OutcomeFail && !errtax.IsRecoverable(o.Category)
}
