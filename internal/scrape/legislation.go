package scrape

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"
	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
	"go.uber.org/zap"
)

// LegislationResultsPerPage is the index page size the canonical source
// serves, matching the original's paginated feed default.
const LegislationResultsPerPage = 20

// LegislationScraper enumerates legislation documents for (type, year)
// combinations and fetches each one's data.xml.
type LegislationScraper struct {
	fetcher *fetch.Fetcher
	logger  *zap.Logger
}

// NewLegislationScraper constructs a LegislationScraper.
func NewLegislationScraper(fetcher *fetch.Fetcher, logger *zap.Logger) *LegislationScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegislationScraper{fetcher: fetcher, logger: logger}
}

// Scrape iterates types × years; for each combination it walks the
// paginated index listing (via a colly collector scoped to one page at a
// time, grounded on docsaf/source_web.go's collector setup) to discover
// document URIs, then fetches {uri}/data.xml through the shared fetcher.
// limit caps the total number of documents yielded across every (type,
// year) pair, decremented as the original's generator-based scrapers do.
func (s *LegislationScraper) Scrape(ctx context.Context, types []string, years []int, limit int) iter.Seq2[ScrapedDoc, error] {
	return func(yield func(ScrapedDoc, error) bool) {
		remaining := limit

		for _, docType := range types {
			for _, year := range years {
				if remaining <= 0 {
					return
				}
				uris, err := s.listURIs(ctx, docType, year, remaining)
				if err != nil {
					s.logger.Warn("legislation index listing failed", zap.String("type", docType), zap.Int("year", year), zap.Error(err))
					if !yield(ScrapedDoc{}, err) {
						return
					}
					continue
				}

				for _, uri := range uris {
					if remaining <= 0 {
						return
					}
					doc, err := s.fetchDocument(ctx, uri, docType, year)
					remaining--
					if !yield(doc, err) {
						return
					}
				}
			}
		}
	}
}

// listURIs walks the index listing for one (type, year) combination,
// stopping at the page with no results table or once limit candidate
// URIs have been collected.
func (s *LegislationScraper) listURIs(ctx context.Context, docType string, year, limit int) ([]string, error) {
	var uris []string
	var mu sync.Mutex
	var collectErr error

	page := 1
	for len(uris) < limit {
		select {
		case <-ctx.Done():
			return uris, ctx.Err()
		default:
		}

		indexURL := fmt.Sprintf("%s/%s/%d/data.xml?page=%d&results-count=%d", BaseURL, docType, year, page, LegislationResultsPerPage)

		c := colly.NewCollector()
		pageURIs := make([]string, 0, LegislationResultsPerPage)
		c.OnXML("//Legislation/item", func(e *colly.XMLElement) {
			if href := e.Attr("DocumentURI"); href != "" {
				mu.Lock()
				pageURIs = append(pageURIs, href)
				mu.Unlock()
			}
		})
		c.OnError(func(r *colly.Response, err error) {
			mu.Lock()
			collectErr = err
			mu.Unlock()
		})
		if err := c.Visit(indexURL); err != nil {
			return uris, fmt.Errorf("legislation scrape: visiting index %s: %w", indexURL, err)
		}
		c.Wait()
		if collectErr != nil {
			return uris, fmt.Errorf("legislation scrape: parsing index %s: %w", indexURL, collectErr)
		}

		if len(pageURIs) == 0 {
			break
		}
		uris = append(uris, pageURIs...)
		if len(pageURIs) < LegislationResultsPerPage {
			break
		}
		page++
	}

	if len(uris) > limit {
		uris = uris[:limit]
	}
	return uris, nil
}

// fetchDocument fetches {uri}/data.xml. A 404 or a missing Body element
// is the "document exists only as a PDF" terminal outcome: it is not a
// transient failure, so it's reported as a recoverable PDFFallback error
// rather than retried.
func (s *LegislationScraper) fetchDocument(ctx context.Context, uri, docType string, year int) (ScrapedDoc, error) {
	dataURL := strings.TrimSuffix(uri, "/") + "/data.xml"

	resp, err := s.fetcher.Get(ctx, dataURL)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return ScrapedDoc{}, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, DocType: docType, Year: year, Err: fmt.Errorf("legislation scrape: %s has no data.xml (pdf-only)", uri)}
		}
		return ScrapedDoc{}, &errtax.Error{Category: errtax.HTTPError, DocID: uri, DocType: docType, Year: year, Err: err}
	}
	if !strings.Contains(string(resp.Body), "<Body") {
		return ScrapedDoc{}, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, DocType: docType, Year: year, Err: fmt.Errorf("legislation scrape: %s has no Body element (pdf-only)", uri)}
	}

	return ScrapedDoc{URI: uri, Type: docType, Year: year, Body: resp.Body}, nil
}
