package scrape

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"go.uber.org/zap"
)

// AmendmentResultsPerPage is the changes-table page size requested,
// matching the original's results_count=100 default.
const AmendmentResultsPerPage = 100

// AmendmentScraper walks the legislation.gov.uk "changes" index, one
// page of the changes table per ScrapedDoc, grounded on
// original_source's AmendmentScraper.load_content.
type AmendmentScraper struct {
	fetcher *fetch.Fetcher
	logger  *zap.Logger
}

// NewAmendmentScraper constructs an AmendmentScraper.
func NewAmendmentScraper(fetcher *fetch.Fetcher, logger *zap.Logger) *AmendmentScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmendmentScraper{fetcher: fetcher, logger: logger}
}

// Scrape walks the changes index for each affected year in descending
// order, one ScrapedDoc per page, stopping a year's pagination as soon
// as a page's table is empty (the original's _page_has_results guard)
// and stopping entirely once limit pages have been yielded. yearMadeBy,
// when non-zero, restricts results to amendments made by legislation
// from that year, mirroring the original's optional filter.
func (s *AmendmentScraper) Scrape(ctx context.Context, yearsAffected []int, yearMadeBy, limit int) iter.Seq2[ScrapedDoc, error] {
	years := append([]int(nil), yearsAffected...)
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	return func(yield func(ScrapedDoc, error) bool) {
		count := 0

		for _, yearAffected := range years {
			if count >= limit {
				return
			}

			page := 1
			for {
				if count >= limit {
					return
				}

				select {
				case <-ctx.Done():
					yield(ScrapedDoc{}, ctx.Err())
					return
				default:
				}

				pageURL := amendmentChangesURL(yearAffected, yearMadeBy, page, AmendmentResultsPerPage)

				resp, err := s.fetcher.Get(ctx, pageURL)
				if err != nil {
					wrapped := &errtax.Error{Category: errtax.HTTPError, DocID: pageURL, Year: yearAffected, Err: err}
					if !yield(ScrapedDoc{}, wrapped) {
						return
					}
					break
				}

				if !pageHasResultsTable(resp.Body) {
					break
				}

				doc := ScrapedDoc{URI: pageURL, Type: "amendment", Year: yearAffected, Body: resp.Body}
				count++
				if !yield(doc, nil) {
					return
				}
				page++
			}
		}
	}
}

// amendmentChangesURL builds the changes-index URL for one page,
// matching _get_url_legislation_changes's query-string shape exactly
// (results-count, page, sort=affected-year-number).
func amendmentChangesURL(yearAffected, yearMadeBy, page, resultsCount int) string {
	url := fmt.Sprintf("%s/changes/affected/all/%d", BaseURL, yearAffected)
	if yearMadeBy != 0 {
		url += fmt.Sprintf("/affecting/all/%d", yearMadeBy)
	}
	url += fmt.Sprintf("?results-count=%d&page=%d&sort=affected-year-number", resultsCount, page)
	return url
}

// pageHasResultsTable reports whether the page's HTML contains a
// changes table, the original's end-of-pagination sentinel.
func pageHasResultsTable(body []byte) bool {
	return strings.Contains(string(body), "<table")
}
