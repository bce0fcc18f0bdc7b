package scrape

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"github.com/i-dot-ai/lex-sub001/internal/ratelimit"
	"go.uber.org/zap"
)

// CaselawResultsPerPage is the judgments-search page size requested,
// matching the original's results_per_page=50 default.
const CaselawResultsPerPage = 50

// CaselawScraper walks the National Archives "Find Case Law" judgments
// search index and fetches each case's data.xml, grounded on
// original_source's CaselawScraper. It installs the harsher
// CaselawConfig rate-limit profile on the fetcher it's given, mirroring
// the original's module-level http_client.rate_limiter override.
type CaselawScraper struct {
	fetcher *fetch.Fetcher
	logger  *zap.Logger
}

// NewCaselawScraper wraps fetcher with the case-law rate-limit profile
// and returns a CaselawScraper bound to it.
func NewCaselawScraper(fetcher *fetch.Fetcher, logger *zap.Logger) *CaselawScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher = fetcher.WithLimiter(ratelimit.New(ratelimit.CaselawConfig()))
	return &CaselawScraper{fetcher: fetcher, logger: logger}
}

// Scrape requests judgments for the given courts and years. Years are
// validated for consecutiveness in a single search query (the National
// Archives' from_date_2/to_date_2 range filter has no way to express a
// gap), so non-consecutive years are split into maximal runs of
// consecutive years and queried as separate searches, with results
// merged in ascending-year order; limit applies per run, matching the
// original's per-call limit semantics.
func (s *CaselawScraper) Scrape(ctx context.Context, courts []string, years []int, limit int) iter.Seq2[ScrapedDoc, error] {
	runs := consecutiveRuns(years)

	return func(yield func(ScrapedDoc, error) bool) {
		for _, run := range runs {
			select {
			case <-ctx.Done():
				yield(ScrapedDoc{}, ctx.Err())
				return
			default:
			}

			caseURLs, err := s.listCaseURLs(ctx, courts, run, limit)
			if err != nil {
				if !yield(ScrapedDoc{}, err) {
					return
				}
				continue
			}

			for _, caseURL := range caseURLs {
				doc, err := s.fetchCase(ctx, caseURL)
				if !yield(doc, err) {
					return
				}
			}
		}
	}
}

// consecutiveRuns sorts years ascending and splits them into maximal
// runs where each element is exactly one more than its predecessor.
func consecutiveRuns(years []int) [][]int {
	if len(years) == 0 {
		return [][]int{nil}
	}
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	var runs [][]int
	run := []int{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run = append(run, sorted[i])
			continue
		}
		runs = append(runs, run)
		run = []int{sorted[i]}
	}
	return append(runs, run)
}

// listCaseURLs walks the judgments-search index for one consecutive
// run of years, following the "next page" chevron link until it
// disappears or limit case URLs have been collected.
func (s *CaselawScraper) listCaseURLs(ctx context.Context, courts []string, years []int, limit int) ([]string, error) {
	var urls []string
	nextURL := caselawSearchURL(courts, years, 1, CaselawResultsPerPage)

	for nextURL != "" && len(urls) < limit {
		select {
		case <-ctx.Done():
			return urls, ctx.Err()
		default:
		}

		resp, err := s.fetcher.Get(ctx, nextURL)
		if err != nil {
			return urls, &errtax.Error{Category: errtax.HTTPError, DocID: nextURL, Err: err}
		}

		pageURLs, next, err := parseCaselawSearchPage(resp.Body)
		if err != nil {
			return urls, &errtax.Error{Category: errtax.ParseError, DocID: nextURL, Err: err}
		}

		urls = append(urls, pageURLs...)
		nextURL = next
	}

	if len(urls) > limit {
		urls = urls[:limit]
	}
	return urls, nil
}

// caselawSearchURL builds the judgments/search URL for one page,
// matching _get_request_url's query-string shape (order=-date,
// from_date_2/to_date_2 for the year range, one court param per court).
func caselawSearchURL(courts []string, years []int, page, perPage int) string {
	url := fmt.Sprintf("%s/judgments/search?query=&order=-date&page=%d&per_page=%d", CaselawBaseURL, page, perPage)
	if len(years) > 0 {
		url += fmt.Sprintf("&from_date_2=%d&to_date_2=%d", years[0], years[len(years)-1])
	}
	for _, court := range courts {
		url += "&court=" + court
	}
	return url
}

// parseCaselawSearchPage extracts the case URLs listed in the
// judgments-table and the "next page" chevron link, if any, mirroring
// _get_cases_from_contents_soup and _get_next_page_url.
func parseCaselawSearchPage(body []byte) ([]string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, "", err
	}

	var caseURLs []string
	doc.Find("div.judgments-table table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row carries no link
		}
		href, ok := row.Find("a").Attr("href")
		if !ok || href == "" {
			return
		}
		href = strings.SplitN(href, "?", 2)[0]
		caseURLs = append(caseURLs, CaselawBaseURL+href)
	})

	var nextURL string
	if href, ok := doc.Find("a.pagination__page-chevron-next").Attr("href"); ok && href != "" {
		nextURL = CaselawBaseURL + href
	}

	return caseURLs, nextURL, nil
}

// fetchCase fetches one case's {url}/data.xml judgment document.
func (s *CaselawScraper) fetchCase(ctx context.Context, caseURL string) (ScrapedDoc, error) {
	xmlURL := caseURL + "/data.xml"

	resp, err := s.fetcher.Get(ctx, xmlURL)
	if err != nil {
		return ScrapedDoc{}, &errtax.Error{Category: errtax.HTTPError, DocID: caseURL, Err: err}
	}

	return ScrapedDoc{URI: caseURL, Type: "caselaw", Body: resp.Body}, nil
}
