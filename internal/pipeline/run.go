package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/blobstore"
	"github.com/i-dot-ai/lex-sub001/internal/config"
	"github.com/i-dot-ai/lex-sub001/internal/embed"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"github.com/i-dot-ai/lex-sub001/internal/metrics"
	"github.com/i-dot-ai/lex-sub001/internal/models"
	"github.com/i-dot-ai/lex-sub001/internal/ocr"
	"github.com/i-dot-ai/lex-sub001/internal/scrape"
	"github.com/i-dot-ai/lex-sub001/internal/state"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// DefaultCaselawCourts is the set of courts/tribunals scraped when the
// caller does not restrict to a subset, matching the original's
// DEFAULT_COURTS judgments-archive coverage.
var DefaultCaselawCourts = []string{
	"uksc", "ukpc", "ewca/civ", "ewca/crim", "ewhc", "eat", "ukut", "ukftt",
}

// Engine wires every Stage-1/Stage-2 collaborator one ingest run needs:
// the shared fetcher, one scraper per document kind, the embedding
// generator, the vector store, and the state oracle.
type Engine struct {
	Store         *vectorstore.Store
	Oracle        *state.Oracle
	Generator     *embed.Generator
	Legislation   *scrape.LegislationScraper
	Amendment     *scrape.AmendmentScraper
	Caselaw       *scrape.CaselawScraper
	Summaries     *SummaryGenerator
	Explanation   *ExplanationGenerator
	OCR           *ocr.Processor
	OCRResumePath string
	TrackerDir    string
	RunID         string
	Logger        *zap.Logger
	Workers       int
}

// NewEngine dials every external collaborator (Qdrant, the embedding
// endpoint, the OpenAI-compatible chat endpoint, and the three scrapers'
// shared fetcher) from cfg, and ensures every collection exists.
func NewEngine(ctx context.Context, cfg config.Config, opts config.RunOptions, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := vectorstore.New(vectorstore.Config{Host: cfg.QdrantHost, Port: cfg.QdrantGRPCPort, APIKey: cfg.QdrantAPIKey}, logger)
	if err != nil {
		return nil, err
	}
	for _, spec := range vectorstore.Specs() {
		if err := store.EnsureCollection(ctx, spec, models.EmbeddingDimensions); err != nil {
			return nil, err
		}
	}
	if err := store.EnsureCollection(ctx, vectorstore.EmbeddingCacheSpec(), models.EmbeddingDimensions); err != nil {
		return nil, err
	}

	dense := embed.NewDenseClient(cfg.EmbeddingEndpoint, cfg.EmbeddingAPIKey, logger)
	sparse := embed.NewSparseEmbedder()
	cache := embed.NewCache(store)
	generator := embed.NewGenerator(dense, sparse, cache)

	fetcher := fetch.New(fetch.DefaultConfig(), logger)

	engine := &Engine{
		Store:       store,
		Oracle:      state.New(store, logger),
		Generator:   generator,
		Legislation: scrape.NewLegislationScraper(fetcher, logger),
		Amendment:   scrape.NewAmendmentScraper(fetcher, logger),
		Caselaw:     scrape.NewCaselawScraper(fetcher, logger),
		TrackerDir:  cfg.TrackerDir,
		Logger:      logger,
		Workers:     DefaultPoolWorkers,
	}
	if opts.LegacyTracking {
		engine.RunID = time.Now().UTC().Format("20060102T150405Z")
	}
	if opts.EnableSummaries {
		engine.Summaries = NewSummaryGenerator(cfg.ChatEndpoint, cfg.ChatAPIKey, logger)
		engine.Explanation = NewExplanationGenerator(cfg.ChatEndpoint, cfg.ChatAPIKey, fetcher, logger)
	}
	if opts.EnablePDFFallback {
		var blob *blobstore.Credentials
		if cfg.BlobEndpoint != "" {
			blob = &blobstore.Credentials{Endpoint: cfg.BlobEndpoint, AccessKeyId: cfg.BlobAccessKey, SecretAccessKey: cfg.BlobSecretKey}
		}
		engine.OCR = ocr.NewProcessor(ocr.Config{Endpoint: cfg.OCREndpoint, APIKey: cfg.OCRAPIKey, Blob: blob, Bucket: cfg.BlobBucket}, fetcher, logger)
		engine.OCRResumePath = filepath.Join(cfg.TrackerDir, "pdf_ocr_results.jsonl")
	}
	return engine, nil
}

// Stats aggregates one ingest run's outcomes by document kind, for the
// per-run report spec.md §7 asks the CLI to print.
type Stats struct {
	OK    map[string]int
	Skip  map[string]int
	Fail  map[string]int
}

// NewStats returns an empty Stats with its maps initialised.
func NewStats() Stats {
	return Stats{OK: map[string]int{}, Skip: map[string]int{}, Fail: map[string]int{}}
}

// Add tallies one kind's outcomes into s, also recording each outcome
// against the Prometheus lex_ingest_records_total counter.
func (s Stats) Add(kind string, outcomes []Outcome) {
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeOK:
			s.OK[kind]++
			metrics.ObserveOutcome(kind, "ok")
		case OutcomeSkip:
			s.Skip[kind]++
			metrics.ObserveOutcome(kind, "skip")
		case OutcomeFail:
			s.Fail[kind]++
			metrics.ObserveOutcome(kind, "fail")
		}
	}
}

// Total returns the total number of outcomes tallied across every kind.
func (s Stats) Total() int {
	total := 0
	for _, n := range s.OK {
		total += n
	}
	for _, n := range s.Skip {
		total += n
	}
	for _, n := range s.Fail {
		total += n
	}
	return total
}

// Run executes one full ingest pass against opts, dispatching to the
// mode-appropriate year/plan resolution from modes.go and fanning out
// across legislation, amendment, and caselaw Stage 1, followed by
// Stage-2 enrichment when opts.EnableSummaries is set.
func (e *Engine) Run(ctx context.Context, opts config.RunOptions) (Stats, error) {
	stats := NewStats()
	currentYear := time.Now().UTC().Year()
	years := ResolveYears(opts, currentYear)

	var needsRescrape map[string]bool
	amendmentYears := years

	if opts.Mode == config.ModeAmendmentsLed {
		plan, err := BuildAmendmentsLedPlan(ctx, e.Oracle, currentYear, opts.YearsBack)
		if err != nil {
			return stats, err
		}
		needsRescrape = plan.NeedsRescrapeIDs
		amendmentYears = plan.AmendmentYears
	}

	legOutcomes := RunLegislationStage1(ctx, LegislationDeps{
		Scraper: e.Legislation, Generator: e.Generator, Store: e.Store,
		Logger: e.Logger, Workers: e.Workers,
		LegacyTracking: opts.LegacyTracking, TrackerDir: e.TrackerDir, RunID: e.RunID,
		OCR: e.OCR, EnablePDFFallback: opts.EnablePDFFallback, OCRResumePath: e.OCRResumePath,
	}, opts.Types, years, opts.Limit, needsRescrape)
	stats.Add("legislation", legOutcomes)

	amendOutcomes := RunAmendmentStage1(ctx, AmendmentDeps{
		Scraper: e.Amendment, Generator: e.Generator, Store: e.Store,
		Logger: e.Logger, Workers: e.Workers,
	}, amendmentYears, 0, opts.Limit)
	stats.Add("amendment", amendOutcomes)

	if opts.Mode != config.ModeAmendmentsLed {
		caseOutcomes := RunCaselawStage1(ctx, CaselawDeps{
			Scraper: e.Caselaw, Generator: e.Generator, Store: e.Store,
			Logger: e.Logger, Workers: e.Workers,
		}, DefaultCaselawCourts, years, opts.Limit)
		stats.Add("caselaw", caseOutcomes)

		if opts.EnableSummaries && e.Summaries != nil {
			caselawIDs := caselawIDsFromOutcomes(caseOutcomes)
			summaryOutcomes, err := RunCaselawSummaryStage2(ctx, e.Store, e.Generator, e.Oracle, e.Summaries, e.Workers, caselawIDs)
			if err != nil {
				e.Logger.Warn("caselaw summary stage failed", zap.Error(err))
			} else {
				stats.Add("caselaw_summary", summaryOutcomes)
			}
		}
	}

	if opts.EnableSummaries && e.Explanation != nil {
		explanationOutcomes := e.runAmendmentExplanations(ctx, amendOutcomes)
		stats.Add("amendment_explanation", explanationOutcomes)
	}

	return stats, nil
}

func caselawIDsFromOutcomes(outcomes []Outcome) []string {
	var ids []string
	for _, o := range outcomes {
		if o.Kind == OutcomeOK {
			ids = append(ids, o.URL)
		}
	}
	return ids
}

// runAmendmentExplanations generates an AI explanation for every
// amendment Stage 1 produced this run, then re-upserts each one: once
// AIExplanation is set, Amendment.EmbeddingText prefers it over the
// bare structural description, so the point's dense/sparse vectors must
// be recomputed against the new text.
func (e *Engine) runAmendmentExplanations(ctx context.Context, amendOutcomes []Outcome) []Outcome {
	var pending []models.Amendment
	for _, o := range amendOutcomes {
		if o.Kind != OutcomeOK {
			continue
		}
		rows, ok := o.Record.([]models.Amendment)
		if !ok {
			continue
		}
		pending = append(pending, rows...)
	}

	return Run(ctx, pending, e.Workers, func(ctx context.Context, a models.Amendment) Outcome {
		outcome := e.Explanation.Generate(ctx, a)
		if outcome.Kind != OutcomeOK {
			return outcome
		}
		explained := outcome.Record.(models.Amendment)
		if err := upsertOne(ctx, e.Store, e.Generator, vectorstore.CollectionAmendment, explained.ID, explained); err != nil {
			return Fail(a.ID, err)
		}
		return outcome
	})
}
