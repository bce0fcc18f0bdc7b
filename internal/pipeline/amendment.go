package pipeline

import (
	"context"

	"github.com/i-dot-ai/lex-sub001/internal/embed"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/parse"
	"github.com/i-dot-ai/lex-sub001/internal/scrape"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// AmendmentDeps wires an amendment Stage-1 run's collaborators.
type AmendmentDeps struct {
	Scraper   *scrape.AmendmentScraper
	Generator *embed.Generator
	Store     *vectorstore.Store
	Logger    *zap.Logger
	Workers   int
}

// RunAmendmentStage1 scrapes the changes index for each affected year,
// parses every page's rows, and upserts them. There is no per-id
// uniqueness check against the state oracle here: a changes-table page
// naturally yields many rows at once, and ids.AmendmentID makes every
// row's point id a function of the (changed, affecting) URL pair, so
// re-scraping the same page is already idempotent via Upsert.
func RunAmendmentStage1(ctx context.Context, deps AmendmentDeps, yearsAffected []int, yearMadeBy, limit int) []Outcome {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	var pages []scrape.ScrapedDoc
	var outcomes []Outcome

	for doc, err := range deps.Scraper.Scrape(ctx, yearsAffected, yearMadeBy, limit) {
		if err != nil {
			outcomes = append(outcomes, scrapeErrorOutcome(doc.URI, err))
			continue
		}
		pages = append(pages, doc)
	}

	processed := Run(ctx, pages, deps.Workers, func(ctx context.Context, doc scrape.ScrapedDoc) Outcome {
		return processAmendmentPage(ctx, deps, doc)
	})
	return append(outcomes, processed...)
}

func processAmendmentPage(ctx context.Context, deps AmendmentDeps, doc scrape.ScrapedDoc) Outcome {
	rows, err := parse.ParseAmendments(doc.Body)
	if err != nil {
		return categorizedOutcome(doc.URI, err)
	}
	if len(rows) == 0 {
		return Skip(doc.URI, "no amendment rows on page")
	}

	if err := upsertMany(ctx, deps.Store, deps.Generator, vectorstore.CollectionAmendment, rows,
		func(a models.Amendment) string { return a.ID }); err != nil {
		return Fail(doc.URI, err)
	}
	return OK(doc.URI, rows)
}
