package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/scrape"
	"github.com/i-dot-ai/lex-sub001/internal/vectorstore"
	"go.uber.org/zap"
)

// LegislationIDPrefix is prefixed onto an amendment's short-form
// changed-legislation id (e.g. "ukpga/2020/1") to match the full URI
// legislation is keyed by in Qdrant ("http://www.legislation.gov.uk/id/...").
const LegislationIDPrefix = scrape.BaseURL + "/id/"

// ChangedLegislation maps a short-form legislation id to the latest year
// in which an amendment affecting it was made.
type ChangedLegislation map[string]int

// GetChangedLegislationIDs scrolls the amendment collection for every
// point whose affecting_year falls in years, and returns the unique set
// of changed_legislation ids with the latest affecting year seen for
// each — the amendments-led mode's "change manifest", grounded on
// get_changed_legislation_ids.
func (o *Oracle) GetChangedLegislationIDs(ctx context.Context, amendmentCollection string, years []int) (ChangedLegislation, error) {
	changed := make(ChangedLegislation)
	if len(years) == 0 {
		return changed, nil
	}

	results, err := o.store.ScrollAll(ctx, amendmentCollection, vectorstore.FilterOptions{AffectingYears: years}, ScrollPageSize)
	if err != nil {
		return nil, fmt.Errorf("state: scrolling amendments for years %v: %w", years, err)
	}

	for _, r := range results {
		changedURL, ok := r.Payload["changed_url"].(string)
		if !ok || changedURL == "" {
			continue
		}
		legID := shortLegislationID(changedURL)
		if legID == "" {
			continue
		}
		year, ok := payloadInt(r.Payload["affecting_year"])
		if !ok {
			continue
		}
		if existing, seen := changed[legID]; !seen || year > existing {
			changed[legID] = year
		}
	}

	o.logger.Info("amendments-led change manifest built",
		zap.Int("unique_legislation", len(changed)),
		zap.Int("amendments_scanned", len(results)),
		zap.Ints("years", years))
	return changed, nil
}

// GetStaleOrMissingLegislationIDs checks each changed legislation id
// against the legislation collection and returns the short-form ids
// that are missing entirely, or whose modified_date year predates the
// latest year it was amended in — grounded on
// get_stale_or_missing_legislation_ids.
func (o *Oracle) GetStaleOrMissingLegislationIDs(ctx context.Context, legislationCollection string, changed ChangedLegislation) (map[string]bool, error) {
	needsRescrape := make(map[string]bool)
	if len(changed) == 0 {
		return needsRescrape, nil
	}

	shortToFull := make(map[string]string, len(changed))
	fullIDs := make([]string, 0, len(changed))
	for shortID := range changed {
		full := LegislationIDPrefix + shortID
		shortToFull[shortID] = full
		fullIDs = append(fullIDs, full)
	}

	existing, err := o.ExistingWithMetadata(ctx, legislationCollection, fullIDs)
	if err != nil {
		return nil, err
	}

	needsRescrape, missing, stale, upToDate := classifyStaleness(changed, shortToFull, existing)

	o.logger.Info("legislation staleness check complete",
		zap.Int("up_to_date", upToDate), zap.Int("stale", stale), zap.Int("missing", missing))
	return needsRescrape, nil
}

// classifyStaleness is GetStaleOrMissingLegislationIDs's decision logic,
// pulled out as a pure function of already-fetched metadata so it can be
// exercised without a live Qdrant connection.
func classifyStaleness(changed ChangedLegislation, shortToFull map[string]string, existing map[string]ExistingMetadata) (needsRescrape map[string]bool, missing, stale, upToDate int) {
	needsRescrape = make(map[string]bool)

	for shortID, fullID := range shortToFull {
		meta, ok := existing[fullID]
		if !ok {
			needsRescrape[shortID] = true
			missing++
			continue
		}

		maxAffectingYear := changed[shortID]
		if meta.ModifiedDate == "" {
			needsRescrape[shortID] = true
			stale++
			continue
		}

		modified, err := parseModifiedDate(meta.ModifiedDate)
		if err != nil {
			needsRescrape[shortID] = true
			stale++
			continue
		}

		if modified.Year() < maxAffectingYear {
			needsRescrape[shortID] = true
			stale++
			continue
		}
		upToDate++
	}
	return needsRescrape, missing, stale, upToDate
}

// parseModifiedDate accepts both the RFC3339 timestamp json.Marshal
// produces for a stored time.Time and a bare ISO date, mirroring the
// original's tolerance for either a date string or a datetime value.
func parseModifiedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// shortLegislationID strips a legislation.gov.uk URI down to its
// "{type}/{year}/{number}" form, the key changed/affecting legislation is
// matched by.
func shortLegislationID(uri string) string {
	short := strings.TrimPrefix(uri, LegislationIDPrefix)
	short = strings.TrimPrefix(short, scrape.BaseURL+"/")
	return strings.Trim(short, "/")
}

func payloadInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
