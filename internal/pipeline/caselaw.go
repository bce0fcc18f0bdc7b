package pipeline

import (
	"context"
	"encoding/json"

	"github.com/i-dot-ai/lex-sub001/internal/embed"
	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/ids"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/parse"
	"github.com/i-dot-ai/lex-sub001/internal/scrape"
	"github.com/i-dot-ai/lex-sub001/internal/state"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// CaselawDeps wires a caselaw Stage-1 run's collaborators.
type CaselawDeps struct {
	Scraper   *scrape.CaselawScraper
	Generator *embed.Generator
	Store     *vectorstore.Store
	Logger    *zap.Logger
	Workers   int
}

// RunCaselawStage1 scrapes, parses, embeds, and upserts judgments (plus
// their sections) for courts × years, bounded by limit.
func RunCaselawStage1(ctx context.Context, deps CaselawDeps, courts []string, years []int, limit int) []Outcome {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	var docs []scrape.ScrapedDoc
	var outcomes []Outcome

	for doc, err := range deps.Scraper.Scrape(ctx, courts, years, limit) {
		if err != nil {
			outcomes = append(outcomes, scrapeErrorOutcome(doc.URI, err))
			continue
		}
		docs = append(docs, doc)
	}

	processed := Run(ctx, docs, deps.Workers, func(ctx context.Context, doc scrape.ScrapedDoc) Outcome {
		return processCaselawDoc(ctx, deps, doc)
	})
	return append(outcomes, processed...)
}

func processCaselawDoc(ctx context.Context, deps CaselawDeps, doc scrape.ScrapedDoc) Outcome {
	c, err := parse.ParseCaselaw(doc.Body, doc.URI)
	if err != nil {
		return categorizedOutcome(doc.URI, err)
	}

	if err := upsertOne(ctx, deps.Store, deps.Generator, vectorstore.CollectionCaselaw, c.ID, c); err != nil {
		return Fail(doc.URI, err)
	}

	sections, err := parse.ParseCaselawSections(doc.Body, doc.URI)
	if err != nil && !errtax.Is(err, errtax.PDFFallback) {
		deps.Logger.Warn("caselaw sections parse failed", zap.String("uri", doc.URI), zap.Error(err))
	}
	if len(sections) > 0 {
		if err := upsertMany(ctx, deps.Store, deps.Generator, vectorstore.CollectionCaselawSection, sections,
			func(s models.CaselawSection) string { return s.ID }); err != nil {
			deps.Logger.Warn("caselaw sections upsert failed", zap.String("uri", doc.URI), zap.Error(err))
		}
	}

	return OK(doc.URI, c)
}

// RunCaselawSummaryStage2 fetches each Stage-1-upserted caselaw record
// not yet summarised, generates and upserts its summary, grounded on
// the original's summary_generator.py "skip ids that already have a
// summary" pass. caselawIDs is the set of case URLs Stage 1 produced
// this run (or an explicit backlog, for a dedicated enrichment pass).
func RunCaselawSummaryStage2(ctx context.Context, store *vectorstore.Store, embedder *embed.Generator, oracle *state.Oracle, gen *SummaryGenerator, workers int, caselawIDs []string) ([]Outcome, error) {
	if len(caselawIDs) == 0 {
		return nil, nil
	}

	summaryIDs := make([]string, len(caselawIDs))
	summaryIDOf := make(map[string]string, len(caselawIDs))
	for i, caselawID := range caselawIDs {
		sid := ids.SummaryID(caselawID)
		summaryIDs[i] = sid
		summaryIDOf[caselawID] = sid
	}

	existing, err := oracle.ExistingIDs(ctx, vectorstore.CollectionCaselawSummary, summaryIDs)
	if err != nil {
		return nil, err
	}

	pointIDs := make([]string, len(caselawIDs))
	for i, id := range caselawIDs {
		pointIDs[i] = ids.DocumentUUIDString(id)
	}
	records, err := store.Retrieve(ctx, vectorstore.CollectionCaselaw, pointIDs, false)
	if err != nil {
		return nil, err
	}

	var pending []models.Caselaw
	for _, rec := range records {
		c, err := caselawFromPayload(rec.Payload)
		if err != nil {
			continue
		}
		if existing[summaryIDOf[c.ID]] {
			continue
		}
		pending = append(pending, c)
	}

	return Run(ctx, pending, workers, func(ctx context.Context, c models.Caselaw) Outcome {
		outcome := gen.Generate(ctx, summaryIDOf[c.ID], c)
		if outcome.Kind != OutcomeOK {
			return outcome
		}
		summary := outcome.Record.(models.CaselawSummary)
		if err := upsertOne(ctx, store, embedder, vectorstore.CollectionCaselawSummary, summary.ID, summary); err != nil {
			return Fail(c.ID, err)
		}
		return outcome
	}), nil
}

// caselawFromPayload decodes a retrieved point's plain payload map back
// into a Caselaw via a JSON round-trip, the same approach
// vectorstore.DecodeInto takes for the wire qdrant.Value form.
func caselawFromPayload(payload map[string]any) (models.Caselaw, error) {
	var c models.Caselaw
	b, err := json.Marshal(payload)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}
