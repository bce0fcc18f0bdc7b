package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// pNumberedElement matches P1, P2, P3... element names, used to compute
// indent levels for nested numbered paragraphs.
var pNumberedElement = regexp.MustCompile(`^P(\d+)$`)

// pParaElement and pGroupElement match P1para/P2para... and
// P1group/P2group... container elements, which recurse without changing
// indent level.
var (
	pParaElement  = regexp.MustCompile(`^P\d+para$`)
	pGroupElement = regexp.MustCompile(`^P\d+group$`)
)

var curlyQuoteEdits = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`“ `), "“"},
	{regexp.MustCompile(` ”`), "”"},
}

// CLMLParser renders a CLML legislation XML tree into Markdown body text.
// skip_next_pnumber is carried as parser state, exactly mirroring the
// original's per-document CLMLMarkdownParser instance: a P1group heading
// consumes the Pnumber that would otherwise repeat immediately after it.
type CLMLParser struct {
	skipNextPnumber bool
}

// NewCLMLParser constructs a fresh CLMLParser with no pending skip state.
func NewCLMLParser() *CLMLParser {
	return &CLMLParser{}
}

// ParseElement renders n (and its subtree) at indentLevel. recurseOnly
// skips the known-tag dispatch for n itself and renders only its children
// — used when the caller has already consumed n's own semantics (e.g. a
// Schedule wrapper) and just wants the contents walked.
func (p *CLMLParser) ParseElement(n *Node, indentLevel int, recurseOnly bool) string {
	if n == nil {
		return ""
	}

	if !recurseOnly {
		if result, handled := p.parseKnownTag(n, indentLevel); handled {
			return p.regexEdits(result)
		}
	}

	var sb strings.Builder
	for _, c := range n.Children {
		switch v := c.(type) {
		case string:
			if s := parseNavigableString(v); s != "" {
				sb.WriteString(s)
			}
		case *Node:
			result, skip := p.parseKnownTag(v, indentLevel)
			if skip {
				if result == skipElementMarker {
					continue
				}
				sb.WriteString(result)
			} else {
				sb.WriteString(parseUnknownTag(v))
			}
		}
	}

	return p.regexEdits(sb.String())
}

// skipElementMarker is returned by parseKnownTag to signal "render
// nothing, and do not fall through to the unknown-tag handler" —
// equivalent to the original's SkipElement sentinel.
const skipElementMarker = "\x00skip\x00"

func parseNavigableString(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return trimmed + " "
}

func parseUnknownTag(n *Node) string {
	return strings.TrimSpace(n.Text()) + " "
}

// parseKnownTag dispatches on n's tag name. The bool return reports
// whether n was a known tag at all (false means "fall through to
// parseUnknownTag" at the caller).
func (p *CLMLParser) parseKnownTag(n *Node, indentLevel int) (string, bool) {
	switch {
	case n.Name == "Pnumber":
		if p.skipNextPnumber {
			p.skipNextPnumber = false
			return skipElementMarker, true
		}
		return p.formatPnumber(n, indentLevel), true

	case n.Name == "BlockAmendment":
		return p.formatBlockAmendment(n, indentLevel), true

	case n.Name == "Text":
		return p.ParseElement(n, indentLevel, true), true

	case n.Name == "Pblock":
		return p.formatPblock(n, indentLevel), true

	case n.Name == "P1group":
		return p.formatPgroup(n, indentLevel), true

	case n.Name == "Part":
		return p.formatPart(n, indentLevel), true

	case n.Name == "Schedule":
		return p.ParseElement(n, indentLevel, true), true

	case n.Name == "ScheduleBody":
		return p.ParseElement(n, indentLevel, true), true

	case pParaElement.MatchString(n.Name):
		return p.ParseElement(n, indentLevel, true), true

	case pGroupElement.MatchString(n.Name):
		return p.ParseElement(n, indentLevel, true), true

	case pNumberedElement.MatchString(n.Name):
		level, _ := strconv.Atoi(pNumberedElement.FindStringSubmatch(n.Name)[1])
		newIndent := level - 2
		if newIndent < 0 {
			newIndent = 0
		}
		return p.ParseElement(n, newIndent, true), true

	case n.Name == "UnorderedList":
		return p.ParseElement(n, indentLevel, true), true

	case n.Name == "ListItem":
		return p.formatListItem(n, indentLevel), true

	case n.Name == "Para":
		return p.ParseElement(n, indentLevel, true), true
	}

	return "", false
}

func (p *CLMLParser) regexEdits(s string) string {
	for _, edit := range curlyQuoteEdits {
		s = edit.pattern.ReplaceAllString(s, edit.repl)
	}
	return s
}

func (p *CLMLParser) formatPnumber(n *Node, indentLevel int) string {
	indent := strings.Repeat("\t", indentLevel)
	return "\n" + indent + strings.TrimSpace(n.Text()) + ") "
}

// formatBlockAmendment indents one level deeper than the surrounding
// text — the original notes this "always has at least the same indent
// level as the surrounding text" and could be made more context-aware,
// but isn't.
func (p *CLMLParser) formatBlockAmendment(n *Node, indentLevel int) string {
	content := p.ParseElement(n, indentLevel+1, true)
	indent := strings.Repeat("\t", indentLevel)
	return strings.ReplaceAll(content, "\n", "\n"+indent)
}

func (p *CLMLParser) formatPblock(n *Node, indentLevel int) string {
	var result strings.Builder
	var startsWith string

	for _, child := range n.ChildElements() {
		if child.Name == "Title" {
			startsWith = "*" + strings.TrimSpace(child.Text()) + "*\n"
		} else {
			result.WriteString(p.ParseElement(child, indentLevel, false))
		}
	}

	if startsWith != "" {
		return startsWith + result.String()
	}
	return result.String()
}

func (p *CLMLParser) formatPgroup(n *Node, indentLevel int) string {
	var result strings.Builder
	var startsWith string

	for _, child := range n.ChildElements() {
		if child.Name == "Title" {
			groupTitle := strings.TrimSpace(child.Text())
			pnumber := n.Find("Pnumber")
			if pnumber != nil {
				pnumText := strings.TrimSpace(pnumber.Text())
				if !strings.Contains(pnumber.Text(), "Article") {
					startsWith = "\n\nSection " + pnumText + ") **" + groupTitle + "**\n"
					p.skipNextPnumber = true
				} else {
					startsWith = "\n\n" + pnumText + ") **" + groupTitle + "**\n"
					p.skipNextPnumber = true
				}
			}
		} else {
			result.WriteString(p.ParseElement(child, indentLevel, false))
		}
	}

	if startsWith != "" {
		return startsWith + result.String()
	}
	return result.String()
}

func (p *CLMLParser) formatPart(n *Node, indentLevel int) string {
	var result strings.Builder
	var startsWith strings.Builder

	for _, child := range n.ChildElements() {
		switch child.Name {
		case "Number", "Title":
			startsWith.WriteString("## " + strings.TrimSpace(child.Text()) + "\n")
		default:
			result.WriteString(p.ParseElement(child, indentLevel, false))
		}
	}

	if startsWith.Len() > 0 {
		return startsWith.String() + "\n" + result.String()
	}
	return result.String()
}

func (p *CLMLParser) formatListItem(n *Node, indentLevel int) string {
	indent := strings.Repeat("\t", indentLevel+1)
	content := p.ParseElement(n, indentLevel+1, true)
	return "\n" + indent + "- " + strings.TrimSpace(content)
}
