package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/ids"
	"github.com/i-dot-ai/lex-sub001/internal/models"
)

// AmendmentBaseURL is prefixed onto every relative href the changes-table
// rows carry.
const AmendmentBaseURL = "http://www.legislation.gov.uk"

// ParseAmendments decodes a changes-table HTML page into its Amendment
// rows, grounded on the original's column-index extraction over a 7-<td>
// table row (cols 0..6: changed title, changed year/number + link,
// changed provision + link, type of effect, affecting title, affecting
// year/number + link, affecting provision + link).
func ParseAmendments(html []byte) ([]models.Amendment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, &errtax.Error{Category: errtax.ParseError, Err: fmt.Errorf("amendment: parsing html: %w", err)}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var out []models.Amendment
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if a, ok := rowToAmendment(row); ok {
			out = append(out, a)
		}
	})
	return out, nil
}

func rowToAmendment(row *goquery.Selection) (models.Amendment, bool) {
	cols := row.Find("td")
	if cols.Length() < 7 {
		return models.Amendment{}, false
	}

	col := func(i int) *goquery.Selection { return cols.Eq(i) }

	changedYear, changedNumber := splitYearNumber(col(1).Text())
	affectingYear, affectingNumber := splitYearNumber(col(5).Text())
	changedURL := hrefIfExists(col(1))
	affectingURL := hrefIfExists(col(5))

	// Both hrefs are mandatory in the original (_get_href_if_exists
	// against required table cells); a row missing either one is skipped
	// without an error, rather than building a colliding id for it
	// (DESIGN.md Open Question (c)).
	if changedURL == "" || affectingURL == "" {
		return models.Amendment{}, false
	}

	a := models.Amendment{
		ID:                    ids.AmendmentID(changedURL, affectingURL),
		ChangedLegislation:    strings.TrimSpace(col(0).Text()),
		ChangedYear:           changedYear,
		ChangedNumber:         changedNumber,
		ChangedURL:            changedURL,
		ChangedProvision:      strings.TrimSpace(col(2).Text()),
		ChangedProvisionURL:   hrefIfExists(col(2)),
		AffectingLegislation:  strings.TrimSpace(col(4).Text()),
		AffectingYear:         affectingYear,
		AffectingNumber:       affectingNumber,
		AffectingURL:          affectingURL,
		AffectingProvision:    strings.TrimSpace(col(6).Text()),
		AffectingProvisionURL: hrefIfExists(col(6)),
		TypeOfEffect:          strings.TrimSpace(col(3).Text()),
	}
	return a, true
}

func hrefIfExists(s *goquery.Selection) string {
	a := s.Find("a").First()
	if a.Length() == 0 {
		return ""
	}
	href, ok := a.Attr("href")
	if !ok || href == "" {
		return ""
	}
	return AmendmentBaseURL + href
}

// splitYearNumber splits the "{year} {number}" cell text the
// changes-table renders, mirroring the original's split on the
// non-breaking space.
func splitYearNumber(text string) (int, string) {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return 0, ""
	}
	year, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	return year, strings.TrimSpace(parts[1])
}
