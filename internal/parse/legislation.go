package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/models"
)

// ParseLegislation decodes a CLML data.xml document into its Legislation
// metadata record. uri is the canonical legislation.gov.uk URI used to
// derive the record's id; docType/year/number come from the scraper's
// enumeration rather than re-parsing the URI, matching the original's
// loader passing these through from the index page.
func ParseLegislation(data []byte, uri, docType string, year int, number string) (models.Legislation, error) {
	root, err := ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return models.Legislation{}, &errtax.Error{Category: errtax.ParseError, DocID: uri, Err: fmt.Errorf("legislation: decoding xml: %w", err)}
	}

	body := root.Find("Body")
	if body == nil {
		return models.Legislation{}, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, Err: fmt.Errorf("legislation: no Body element")}
	}

	meta := root.Find("PrimaryMetadata")

	leg := models.Legislation{
		ID:     uri,
		Type:   docType,
		Year:   year,
		Number: number,
	}

	if title := root.Find("Title"); title != nil {
		leg.Title = strings.TrimSpace(title.Text())
	}
	if meta != nil {
		if d := meta.Find("Description"); d != nil {
			leg.Description = strings.TrimSpace(d.Text())
		}
		if d := meta.Find("EnactmentDate"); d != nil {
			if v, ok := d.Attr("Date"); ok {
				if t, err := time.Parse("2006-01-02", v); err == nil {
					leg.EnactmentDate = t
				}
			}
		}
		if d := meta.Find("ModifiedDate"); d != nil {
			if v, ok := d.Attr("Date"); ok {
				if t, err := time.Parse("2006-01-02", v); err == nil {
					leg.ModifiedDate = t
				}
			}
		}
		if s := meta.Find("DocumentStatus"); s != nil {
			leg.Status = strings.TrimSpace(s.Text())
		}
		for _, e := range meta.FindAll("RestrictExtent") {
			leg.Extent = append(leg.Extent, strings.TrimSpace(e.Text()))
		}
	}
	if leg.ModifiedDate.IsZero() {
		leg.ModifiedDate = leg.EnactmentDate
	}

	parser := NewCLMLParser()
	leg.Text = strings.TrimSpace(parser.ParseElement(body, 0, true))

	sections := parseLegislationSections(body, uri, docType, year)
	leg.NumberOfProvision = len(sections)

	return leg, nil
}

// ParseLegislationSections parses the same CLML document into its ordered
// child provisions (P1/P2 top-level sections and Schedule entries).
func ParseLegislationSections(data []byte, uri, docType string, year int) ([]models.LegislationSection, error) {
	root, err := ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return nil, &errtax.Error{Category: errtax.ParseError, DocID: uri, Err: fmt.Errorf("legislation sections: decoding xml: %w", err)}
	}

	body := root.Find("Body")
	if body == nil {
		return nil, &errtax.Error{Category: errtax.PDFFallback, DocID: uri, Err: fmt.Errorf("legislation sections: no Body element")}
	}

	return parseLegislationSections(body, uri, docType, year), nil
}

// topLevelProvisionNames are the section-like elements the original
// treats as one numbered provision each; anything else at this depth
// (Part, Pblock headers) is walked into but doesn't produce its own
// LegislationSection record.
var topLevelProvisionNames = map[string]bool{
	"P1": true, "P2": true,
}

func parseLegislationSections(body *Node, legislationID, docType string, year int) []models.LegislationSection {
	var out []models.LegislationSection
	order := 0
	parser := NewCLMLParser()

	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.ChildElements() {
			switch {
			case topLevelProvisionNames[child.Name]:
				order++
				out = append(out, buildSection(parser, child, legislationID, docType, year, order, "section"))
			case child.Name == "Schedule":
				order++
				out = append(out, buildSection(parser, child, legislationID, docType, year, order, "schedule"))
			case child.Name == "Part" || child.Name == "ScheduleBody":
				walk(child)
			default:
				walk(child)
			}
		}
	}
	walk(body)
	return out
}

func buildSection(parser *CLMLParser, n *Node, legislationID, docType string, year, order int, provisionType string) models.LegislationSection {
	number := ""
	title := ""
	if pn := n.Find("Pnumber"); pn != nil {
		number = strings.TrimSpace(pn.Text())
	}
	if t := n.Find("Title"); t != nil {
		title = strings.TrimSpace(t.Text())
	}

	id := legislationID
	if number != "" {
		id = legislationID + "/" + provisionType + "/" + number
	}

	return models.LegislationSection{
		ID:              id,
		LegislationID:   legislationID,
		LegislationType: docType,
		Year:            year,
		Number:          number,
		ProvisionType:   provisionType,
		Title:           title,
		Text:            strings.TrimSpace(parser.ParseElement(n, 0, true)),
		Order:           order,
	}
}
