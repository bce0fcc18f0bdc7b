package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/models"
)

// caselawURLPattern extracts {court}/{division?}/{year}/{number} from a
// National Archives judgment URL, e.g.
// https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/123
var caselawURLPattern = regexp.MustCompile(`/([a-z]+)(?:/([a-z0-9]+))?/(\d{4})/(\d+)$`)

// ParseCaselaw decodes a judgment XML document (National Archives "Find
// Case Law" schema) into its Caselaw metadata + text record. uri is the
// canonical case URL used both as the record id and, via
// caselawURLPattern, as the source of court/division/year/number — the
// judgment XML's own FRBR metadata is inconsistent about carrying these,
// so the URL (already validated by the scraper's enumeration) is
// authoritative, matching the loader's pass-through behaviour for
// legislation.
func ParseCaselaw(data []byte, uri string) (models.Caselaw, error) {
	root, err := ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return models.Caselaw{}, &errtax.Error{Category: errtax.ParseError, DocID: uri, Err: fmt.Errorf("caselaw: decoding xml: %w", err)}
	}

	body := root.Find("judgmentBody")
	if body == nil {
		return models.Caselaw{}, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, Err: fmt.Errorf("caselaw: no judgmentBody element")}
	}

	court, division, year, number, ok := parseCaselawURL(uri)
	if !ok {
		return models.Caselaw{}, &errtax.Error{Category: errtax.ValidationError, DocID: uri, Err: fmt.Errorf("caselaw: url does not match expected court/division/year/number shape")}
	}

	c := models.Caselaw{
		ID:       uri,
		Court:    court,
		Division: division,
		Year:     year,
		Number:   number,
	}

	if name := root.Find("FRBRname"); name != nil {
		if v, ok := name.Attr("value"); ok {
			c.Name = v
		}
	}
	if cite := root.Find("neutralCitation"); cite != nil {
		c.CiteAs = strings.TrimSpace(cite.Text())
	}
	if dateNode := root.Find("FRBRdate"); dateNode != nil {
		if v, ok := dateNode.Attr("date"); ok {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				c.Date = t
			}
		}
	}

	if header := root.Find("header"); header != nil {
		c.Header = strings.TrimSpace(header.Text())
	}

	var sb strings.Builder
	for _, p := range body.FindAll("p") {
		sb.WriteString(strings.TrimSpace(p.Text()))
		sb.WriteString("\n\n")
	}
	c.Text = strings.TrimSpace(sb.String())

	c.LegislationReferences, c.CaselawReferences = extractReferences(root)

	return c, nil
}

// ParseCaselawSections splits a judgment into its ordered sections —
// each <decision>/<level> element under judgmentBody, at any depth,
// whose direct <p> children carry text becomes one CaselawSection, route
// carrying the breadcrumb of heading titles down to and including its
// own (elements without a heading add nothing to the route).
func ParseCaselawSections(data []byte, uri string) ([]models.CaselawSection, error) {
	root, err := ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return nil, &errtax.Error{Category: errtax.ParseError, DocID: uri, Err: fmt.Errorf("caselaw sections: decoding xml: %w", err)}
	}

	body := root.Find("judgmentBody")
	if body == nil {
		return nil, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, Err: fmt.Errorf("caselaw sections: no judgmentBody element")}
	}

	court, division, year, number, ok := parseCaselawURL(uri)
	if !ok {
		return nil, &errtax.Error{Category: errtax.ValidationError, DocID: uri, Err: fmt.Errorf("caselaw sections: url does not match expected shape")}
	}

	citeAs := ""
	if cite := root.Find("neutralCitation"); cite != nil {
		citeAs = strings.TrimSpace(cite.Text())
	}

	var sections []models.CaselawSection
	order := 0

	var walk func(n *Node, route []string)
	walk = func(n *Node, route []string) {
		for _, child := range n.ChildElements() {
			if child.Name != "level" && child.Name != "decision" {
				walk(child, route)
				continue
			}

			title := headingTitle(child)
			nextRoute := route
			if title != "" {
				nextRoute = append(append([]string{}, route...), title)
			}

			text := strings.TrimSpace(directParagraphText(child))
			if text != "" {
				order++
				sections = append(sections, models.CaselawSection{
					ID:        fmt.Sprintf("%s/section/%d", uri, order),
					CaselawID: uri,
					Court:     court,
					Division:  division,
					Year:      year,
					Number:    number,
					CiteAs:    citeAs,
					Route:     nextRoute,
					Order:     order,
					Text:      text,
				})
			}
			walk(child, nextRoute)
		}
	}
	walk(body, nil)
	return sections, nil
}

// directParagraphText concatenates the text of n's direct <p> children
// only, so a heading's own section text doesn't duplicate its nested
// sub-sections' text.
func directParagraphText(n *Node) string {
	var sb strings.Builder
	for _, child := range n.ChildElements() {
		if child.Name == "p" {
			sb.WriteString(strings.TrimSpace(child.Text()))
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func parseCaselawURL(uri string) (court models.Court, division models.CourtDivision, year int, number string, ok bool) {
	m := caselawURLPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", "", 0, "", false
	}
	y, err := strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, "", false
	}
	return models.Court(strings.ToUpper(m[1])), models.CourtDivision(strings.ToUpper(m[2])), y, m[4], true
}

// extractReferences splits a judgment's <ref> citation elements into
// legislation vs. other-caselaw reference URIs by inspecting the uk:type
// attribute the National Archives schema attaches to each reference.
func extractReferences(root *Node) (legislation, caselaw []string) {
	for _, ref := range root.FindAll("ref") {
		href, ok := ref.Attr("href")
		if !ok || href == "" {
			continue
		}
		refType, _ := ref.Attr("type")
		switch {
		case strings.Contains(refType, "legislation") || strings.Contains(href, "legislation.gov.uk"):
			legislation = append(legislation, href)
		case strings.Contains(refType, "case") || strings.Contains(href, "caselaw"):
			caselaw = append(caselaw, href)
		}
	}
	return legislation, caselaw
}
