package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/embed"
	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/ocr"
	"github.com/i-dot-ai/lex-sub001/internal/parse"
	"github.com/i-dot-ai/lex-sub001/internal/scrape"
	"github.com/i-dot-ai/lex-sub001/internal/tracking"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// LegislationDeps wires a legislation Stage-1 run's collaborators.
type LegislationDeps struct {
	Scraper   *scrape.LegislationScraper
	Generator *embed.Generator
	Store     *vectorstore.Store
	Logger    *zap.Logger
	Workers   int

	// LegacyTracking enables the per-(type, year) JSONL audit log;
	// TrackerDir/RunID are ignored when it is false.
	LegacyTracking bool
	TrackerDir     string
	RunID          string

	// OCR digitises PDF-only legislation when EnablePDFFallback is set.
	// Leaving it nil always falls back to skipping PDF-only documents,
	// regardless of EnablePDFFallback.
	OCR               *ocr.Processor
	EnablePDFFallback bool
	OCRResumePath     string
}

// RunLegislationStage1 scrapes, parses, embeds, and upserts legislation
// (plus its sections and explanatory notes) for types × years, bounded by
// limit. needsRescrape, if non-nil, restricts processing to the
// amendments-led mode's computed rescrape set (short-form legislation
// ids, e.g. "ukpga/2020/1"); pass nil for daily/full mode's unrestricted
// scrape.
func RunLegislationStage1(ctx context.Context, deps LegislationDeps, types []string, years []int, limit int, needsRescrape map[string]bool) []Outcome {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	var trackers *trackerSet
	if deps.LegacyTracking {
		trackers = newTrackerSet(deps.TrackerDir, deps.RunID)
	}
	trackerFor := make(map[string]*tracking.Tracker)

	trackerForDoc := func(docType string, year int) *tracking.Tracker {
		if trackers == nil {
			return nil
		}
		t, err := trackers.get(docType, year)
		if err != nil {
			deps.Logger.Warn("legacy tracker init failed", zap.String("type", docType), zap.Int("year", year), zap.Error(err))
			return nil
		}
		return t
	}

	var docs []scrape.ScrapedDoc
	var pdfFallbacks []*errtax.Error
	var outcomes []Outcome

	for doc, err := range deps.Scraper.Scrape(ctx, types, years, limit) {
		if err != nil {
			var taxErr *errtax.Error
			if deps.OCR != nil && deps.EnablePDFFallback && errors.As(err, &taxErr) && taxErr.Category == errtax.PDFFallback {
				pdfFallbacks = append(pdfFallbacks, taxErr)
				if t := trackerForDoc(taxErr.DocType, taxErr.Year); t != nil {
					trackerFor[taxErr.DocID] = t
				}
				continue
			}
			outcomes = append(outcomes, scrapeErrorOutcome(doc.URI, err))
			continue
		}
		if needsRescrape != nil && !needsRescrape[legislationShortID(doc.URI)] {
			outcomes = append(outcomes, Skip(doc.URI, "not in amendments-led rescrape set"))
			continue
		}
		t := trackerForDoc(doc.Type, doc.Year)
		if t != nil && t.IsProcessed(doc.URI) {
			outcomes = append(outcomes, Skip(doc.URI, "already tracked as processed"))
			continue
		}
		if t != nil {
			trackerFor[doc.URI] = t
		}
		docs = append(docs, doc)
	}

	processed := Run(ctx, docs, deps.Workers, func(ctx context.Context, doc scrape.ScrapedDoc) Outcome {
		return processLegislationDoc(ctx, deps, doc)
	})

	if len(pdfFallbacks) > 0 {
		ocrOutcomes := Run(ctx, pdfFallbacks, deps.Workers, func(ctx context.Context, taxErr *errtax.Error) Outcome {
			return processLegislationPDFFallback(ctx, deps, taxErr)
		})
		processed = append(processed, ocrOutcomes...)
	}

	for _, o := range processed {
		t, ok := trackerFor[o.URL]
		if !ok {
			continue
		}
		if o.Kind == OutcomeOK {
			_ = t.RecordSuccess(o.URL, "", "")
		} else if o.Kind == OutcomeFail {
			_ = t.RecordFailure(o.URL, o.Detail)
		}
	}

	return append(outcomes, processed...)
}

// processLegislationPDFFallback digitises a PDF-only legislation document
// via OCR and upserts the transcribed text in place of the structured
// parse the normal path would have produced.
func processLegislationPDFFallback(ctx context.Context, deps LegislationDeps, taxErr *errtax.Error) Outcome {
	pdfURL := strings.TrimSuffix(taxErr.DocID, "/") + "/data.pdf"
	identifier := legislationIdentifier(taxErr.DocID, taxErr.DocType)

	result := deps.OCR.Extract(ctx, pdfURL, taxErr.DocType, identifier)
	if deps.OCRResumePath != "" {
		if err := ocr.AppendResult(deps.OCRResumePath, result); err != nil {
			deps.Logger.Warn("ocr resume-log append failed", zap.String("uri", taxErr.DocID), zap.Error(err))
		}
	}
	if !result.Success {
		return Fail(taxErr.DocID, errors.New(result.Error))
	}

	leg := models.Legislation{
		Base:   models.Base{CreatedAt: time.Now().UTC()},
		ID:     taxErr.DocID,
		Type:   taxErr.DocType,
		Year:   taxErr.Year,
		Number: legislationNumberFromIdentifier(identifier),
		Title:  identifier,
		Status: "digitised_from_pdf",
		Text:   result.ExtractedData,
	}
	if err := upsertOne(ctx, deps.Store, deps.Generator, vectorstore.CollectionLegislation, leg.ID, leg); err != nil {
		return Fail(taxErr.DocID, err)
	}
	return OK(taxErr.DocID, leg)
}

// legislationIdentifier strips the base URL and type prefix from a
// legislation URI, leaving the identifier legislation.gov.uk itself uses
// (e.g. "Edw7/6/19" or "2020/1"), matching the original's identifier
// form passed to fetch_xml_metadata.
func legislationIdentifier(uri, docType string) string {
	trimmed := strings.TrimPrefix(uri, scrape.BaseURL+"/")
	return strings.TrimPrefix(trimmed, docType+"/")
}

func legislationNumberFromIdentifier(identifier string) string {
	parts := strings.Split(identifier, "/")
	return parts[len(parts)-1]
}

func processLegislationDoc(ctx context.Context, deps LegislationDeps, doc scrape.ScrapedDoc) Outcome {
	number := legislationNumber(doc.URI)

	leg, err := parse.ParseLegislation(doc.Body, doc.URI, doc.Type, doc.Year, number)
	if err != nil {
		return categorizedOutcome(doc.URI, err)
	}

	if err := upsertOne(ctx, deps.Store, deps.Generator, vectorstore.CollectionLegislation, leg.ID, leg); err != nil {
		return Fail(doc.URI, err)
	}

	sections, err := parse.ParseLegislationSections(doc.Body, doc.URI, doc.Type, doc.Year)
	if err != nil && !errtax.Is(err, errtax.PDFFallback) {
		deps.Logger.Warn("legislation sections parse failed", zap.String("uri", doc.URI), zap.Error(err))
	}
	if len(sections) > 0 {
		if err := upsertMany(ctx, deps.Store, deps.Generator, vectorstore.CollectionLegislationSection, sections,
			func(s models.LegislationSection) string { return s.ID }); err != nil {
			deps.Logger.Warn("legislation sections upsert failed", zap.String("uri", doc.URI), zap.Error(err))
		}
	}

	notes, err := parse.ParseExplanatoryNotes(doc.Body, leg.ID)
	if err != nil && !errtax.Is(err, errtax.PDFFallback) {
		deps.Logger.Warn("explanatory notes parse failed", zap.String("uri", doc.URI), zap.Error(err))
	}
	if len(notes) > 0 {
		if err := upsertMany(ctx, deps.Store, deps.Generator, vectorstore.CollectionExplanatoryNote, notes,
			func(n models.ExplanatoryNote) string { return n.ID }); err != nil {
			deps.Logger.Warn("explanatory notes upsert failed", zap.String("uri", doc.URI), zap.Error(err))
		}
	}

	return OK(doc.URI, leg)
}

// legislationShortID strips the host from a legislation.gov.uk URI,
// matching the "type/year/number" form amendments store under
// changed_legislation.
func legislationShortID(uri string) string {
	return strings.TrimPrefix(strings.TrimPrefix(uri, scrape.BaseURL+"/id/"), scrape.BaseURL+"/")
}

// legislationNumber extracts the trailing path segment of a
// legislation.gov.uk URI, e.g. ".../ukpga/2020/1" -> "1".
func legislationNumber(uri string) string {
	parts := strings.Split(strings.TrimRight(uri, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// scrapeErrorOutcome classifies a scraper-yielded error into a skip (the
// document is PDF-only, a terminal processed marker rather than a
// failure) or a categorised failure.
func scrapeErrorOutcome(url string, err error) Outcome {
	if errtax.Is(err, errtax.PDFFallback) {
		return Skip(url, "document has no Body element (PDF-only)")
	}
	return categorizedOutcome(url, err)
}

// categorizedOutcome builds a Fail outcome that reuses an *errtax.Error's
// own category rather than re-deriving it from the message, when err
// already carries one.
func categorizedOutcome(url string, err error) Outcome {
	if cat := errtax.Categorize(err); cat == errtax.PDFFallback {
		return Skip(url, "document has no Body element (PDF-only)")
	}
	return Fail(url, err)
}
