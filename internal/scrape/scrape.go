// Package scrape enumerates source URLs for a (year, type) combination and
// feeds them through the shared fetcher, grounded on the teacher's
// colly-based web traversal (docsaf/source_web.go) and original_source's
// per-kind scrapers (legislation/loader.py's enumeration shape,
// amendment/scraper.py, caselaw/scraper.py).
package scrape

// ScrapedDoc is one fetched, unparsed document ready to hand to
// internal/parse. URI is the canonical identity the rest of the system
// derives uuid5 ids from.
type ScrapedDoc struct {
	URI    string
	Type   string
	Year   int
	Number string
	Body   []byte
}

// BaseURL is the canonical legislation.gov.uk origin every legislation
// and amendment URL is built against.
const BaseURL = "http://www.legislation.gov.uk"

// CaselawBaseURL is the National Archives "Find Case Law" origin.
const CaselawBaseURL = "https://caselaw.nationalarchives.gov.uk"
