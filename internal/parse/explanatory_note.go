package parse

import (
	"fmt"
	"strings"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/models"
)

// explanatoryNoteTypeByHeading maps the top-level heading text CLML
// explanatory-note documents use onto the fixed note_type enum.
var explanatoryNoteTypeByHeading = map[string]models.ExplanatoryNoteType{
	"overview":          models.NoteOverview,
	"policy background":  models.NotePolicyBackground,
	"legal background":  models.NoteLegalBackground,
	"extent":            models.NoteExtent,
	"commentary on provisions": models.NoteProvisions,
	"commencement":      models.NoteCommencement,
}

// ParseExplanatoryNotes decodes a CLML explanatory-notes document into its
// ordered ExplanatoryNote records, one per leaf Part/Pblock section, with
// `route` built from the nested heading titles from document root down to
// that section (the breadcrumb the original's `content` property prefixes
// onto the stored text with markdown `#` heading markers).
func ParseExplanatoryNotes(data []byte, legislationID string) ([]models.ExplanatoryNote, error) {
	root, err := ParseXML(strings.NewReader(string(data)))
	if err != nil {
		return nil, &errtax.Error{Category: errtax.ParseError, DocID: legislationID, Err: fmt.Errorf("explanatory note: decoding xml: %w", err)}
	}

	body := root.Find("Body")
	if body == nil {
		return nil, &errtax.Error{Category: errtax.PDFFallback, DocID: legislationID, Err: fmt.Errorf("explanatory note: no Body element")}
	}

	var notes []models.ExplanatoryNote
	order := 0
	parser := NewCLMLParser()

	var walk func(n *Node, route []string)
	walk = func(n *Node, route []string) {
		for _, child := range n.ChildElements() {
			switch child.Name {
			case "Part", "Pblock":
				title := headingTitle(child)
				nextRoute := route
				if title != "" {
					nextRoute = append(append([]string{}, route...), title)
				}
				if hasLeafContent(child) {
					order++
					notes = append(notes, buildExplanatoryNote(parser, child, legislationID, nextRoute, order))
				}
				walk(child, nextRoute)
			default:
				walk(child, route)
			}
		}
	}
	walk(body, nil)
	return notes, nil
}

func headingTitle(n *Node) string {
	if t := n.Find("Title"); t != nil {
		return strings.TrimSpace(t.Text())
	}
	if num := n.Find("Number"); num != nil {
		return strings.TrimSpace(num.Text())
	}
	if h := n.Find("heading"); h != nil {
		return strings.TrimSpace(h.Text())
	}
	return ""
}

// hasLeafContent reports whether n has its own Text/P-numbered body
// directly, as opposed to being a pure grouping node whose content lives
// entirely in nested Part/Pblock children.
func hasLeafContent(n *Node) bool {
	for _, child := range n.ChildElements() {
		switch child.Name {
		case "Part", "Pblock":
			return false
		}
	}
	return true
}

func buildExplanatoryNote(parser *CLMLParser, n *Node, legislationID string, route []string, order int) models.ExplanatoryNote {
	noteType := models.ExplanatoryNoteType("")
	if len(route) > 0 {
		noteType = explanatoryNoteTypeByHeading[strings.ToLower(route[len(route)-1])]
	}

	sectionType := models.ExplanatoryNoteSectionType("")
	sectionNumber := ""
	if pn := n.Find("Pnumber"); pn != nil {
		sectionNumber = strings.TrimSpace(pn.Text())
		sectionType = models.NoteSectionSection
	}

	id := legislationID + "/notes"
	if sectionNumber != "" {
		id += "/" + sectionNumber
	} else {
		id += fmt.Sprintf("/%d", order)
	}

	return models.ExplanatoryNote{
		ID:            id,
		LegislationID: legislationID,
		NoteType:      noteType,
		Route:         route,
		SectionType:   sectionType,
		SectionNumber: sectionNumber,
		Order:         order,
		Text:          strings.TrimSpace(noteBodyText(parser, n)),
	}
}

// noteBodyText renders n's content excluding its own Title/Number heading
// children, mirroring how formatPart/formatPblock consume a heading
// separately from the body they prefix.
func noteBodyText(parser *CLMLParser, n *Node) string {
	var sb strings.Builder
	for _, child := range n.ChildElements() {
		if child.Name == "Title" || child.Name == "Number" {
			continue
		}
		sb.WriteString(parser.ParseElement(child, 0, false))
	}
	return sb.String()
}
