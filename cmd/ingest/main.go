// Command ingest runs one pass of the legal-corpus ingestion engine:
// scrape, parse, embed, and upsert legislation, amendments, and case law
// into Qdrant, optionally enriching with AI-generated summaries and
// amendment explanations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/i-dot-ai/lex-sub001/internal/config"
	"github.com/i-dot-ai/lex-sub001/internal/health"
	"github.com/i-dot-ai/lex-sub001/internal/logging"
	"github.com/i-dot-ai/lex-sub001/internal/pipeline"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	mode := flag.String("mode", string(config.ModeDaily), "ingest mode: daily, full, or amendments-led")
	limit := flag.Int("limit", 0, "maximum documents to process per year/type (0 = unlimited)")
	yearsFlag := flag.String("years", "", "comma-separated list of years (full mode only; default: full history)")
	enablePDFFallback := flag.Bool("enable-pdf-fallback", false, "queue PDF-only documents for OCR instead of skipping them")
	yearsBack := flag.Int("years-back", config.DefaultYearsBack, "amendments-led mode's lookback window, in years")
	enableSummaries := flag.Bool("enable-summaries", false, "generate AI case-law summaries and amendment explanations")
	legacyTracking := flag.Bool("legacy-tracking", false, "also write the file-based per-(type,year) JSONL success/failure audit log")
	typesFlag := flag.String("types", "", "comma-separated legislation types, groups (primary, secondary, european), or globs (default: all)")
	logFormat := flag.String("log-format", "json", "log output style: json, terminal, logfmt, or noop")
	flag.Parse()

	logger := logging.NewLogger(&logging.Config{Style: logging.Style(*logFormat)})
	defer logger.Sync() //nolint:errcheck

	opts, err := parseOptions(*mode, *limit, *yearsFlag, *enablePDFFallback, *yearsBack, *enableSummaries, *legacyTracking, *typesFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ingest:", err)
		return 1
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine, err := pipeline.NewEngine(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("failed to initialise engine", zap.Error(err))
		return 1
	}
	health.Start(logger, cfg.HealthPort, engine.Store)

	stats, err := engine.Run(ctx, opts)
	printStats(stats)

	if ctx.Err() != nil {
		logger.Warn("run interrupted", zap.Int("records_processed", stats.Total()))
		return 130
	}
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}

func parseOptions(mode string, limit int, yearsFlag string, enablePDFFallback bool, yearsBack int, enableSummaries, legacyTracking bool, typesFlag string) (config.RunOptions, error) {
	m := config.IngestMode(mode)
	switch m {
	case config.ModeDaily, config.ModeFull, config.ModeAmendmentsLed:
	default:
		return config.RunOptions{}, fmt.Errorf("unknown mode %q (want daily, full, or amendments-led)", mode)
	}

	years, err := parseYears(yearsFlag)
	if err != nil {
		return config.RunOptions{}, err
	}

	return config.RunOptions{
		Mode:              m,
		Limit:             limit,
		Years:             years,
		EnablePDFFallback: enablePDFFallback,
		YearsBack:         yearsBack,
		EnableSummaries:   enableSummaries,
		LegacyTracking:    legacyTracking,
		Types:             expandTypes(splitNonEmpty(typesFlag)),
	}, nil
}

// expandTypes resolves the --types flag against config.AllLegislationTypes:
// an empty flag (raw == nil) means every type, matching the flag's own
// "default: all" help text. Each token may be a named group from
// config.LegislationTypeGroups, a literal type, or a doublestar glob
// (e.g. "uk*") matched against the canonical list; a token that matches
// nothing is passed through literally so unrecognised-but-valid future
// legislation.gov.uk types still reach the scraper.
func expandTypes(raw []string) []string {
	if len(raw) == 0 {
		return config.AllLegislationTypes
	}

	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	for _, token := range raw {
		if group, ok := config.LegislationTypeGroups[token]; ok {
			for _, t := range group {
				add(t)
			}
			continue
		}

		matched := false
		for _, t := range config.AllLegislationTypes {
			if ok, _ := doublestar.Match(token, t); ok {
				add(t)
				matched = true
			}
		}
		if !matched {
			add(token)
		}
	}
	return out
}

func parseYears(s string) ([]int, error) {
	fields := splitNonEmpty(s)
	if len(fields) == 0 {
		return nil, nil
	}
	years := make([]int, 0, len(fields))
	for _, f := range fields {
		y, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", f, err)
		}
		years = append(years, y)
	}
	return years, nil
}

func splitNonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printStats(stats pipeline.Stats) {
	fmt.Printf("ingest run complete: %d records processed\n", stats.Total())
	seen := make(map[string]bool)
	for kind := range stats.OK {
		seen[kind] = true
	}
	for kind := range stats.Skip {
		seen[kind] = true
	}
	for kind := range stats.Fail {
		seen[kind] = true
	}
	for kind := range seen {
		fmt.Printf("  %-24s ok=%d skip=%d fail=%d\n", kind, stats.OK[kind], stats.Skip[kind], stats.Fail[kind])
	}
}
