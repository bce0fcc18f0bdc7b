package pipeline

import (
	"context"
	"fmt"

	"github.com/i-dot-ai/lex-sub001/internal/config"
	"github.com/i-dot-ai/lex-sub001/internal/state"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
)

// ResolveYears computes the year set Stage 1 scraping enumerates for
// daily and full mode, given opts and the current calendar year (passed
// in rather than read from time.Now so the decision is a pure,
// unit-testable function).
//
// Daily: {currentYear, currentYear-1}, per spec.md §4.4 rule 1.
// Full: opts.Years verbatim if given, else 1267..currentYear, per rule 2.
func ResolveYears(opts config.RunOptions, currentYear int) []int {
	switch opts.Mode {
	case config.ModeDaily:
		return []int{currentYear, currentYear - 1}
	case config.ModeFull:
		if len(opts.Years) > 0 {
			return opts.Years
		}
		years := make([]int, 0, currentYear-config.FirstLegislationYear+1)
		for y := config.FirstLegislationYear; y <= currentYear; y++ {
			years = append(years, y)
		}
		return years
	default:
		return opts.Years
	}
}

// AmendmentsLedPlan is the outcome of spec.md §4.4 rule 3's steps (a)-(d):
// which years to scan for amendments, and which legislation ids the scan
// determined need re-scraping.
type AmendmentsLedPlan struct {
	AmendmentYears   []int
	Changed          state.ChangedLegislation
	NeedsRescrapeIDs map[string]bool
}

// BuildAmendmentsLedPlan implements spec.md §4.4 rule 3 steps (a)-(d):
// scrape amendments for the last yearsBack years, extract the unique
// changed_legislation ids with their max affecting_year, and mark any id
// missing or stale as needing re-scrape. The orchestrator is responsible
// for steps (e) (re-scrape) and (f) (Stage-2 enrichment).
func BuildAmendmentsLedPlan(ctx context.Context, oracle *state.Oracle, currentYear, yearsBack int) (AmendmentsLedPlan, error) {
	if yearsBack <= 0 {
		yearsBack = config.DefaultYearsBack
	}

	years := make([]int, 0, yearsBack)
	for y := currentYear - yearsBack + 1; y <= currentYear; y++ {
		years = append(years, y)
	}

	changed, err := oracle.GetChangedLegislationIDs(ctx, vectorstore.CollectionAmendment, years)
	if err != nil {
		return AmendmentsLedPlan{}, fmt.Errorf("pipeline: building change manifest: %w", err)
	}

	needsRescrape, err := oracle.GetStaleOrMissingLegislationIDs(ctx, vectorstore.CollectionLegislation, changed)
	if err != nil {
		return AmendmentsLedPlan{}, fmt.Errorf("pipeline: checking legislation staleness: %w", err)
	}

	return AmendmentsLedPlan{AmendmentYears: years, Changed: changed, NeedsRescrapeIDs: needsRescrape}, nil
}
