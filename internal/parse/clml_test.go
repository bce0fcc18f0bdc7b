package parse

import (
	"strings"
	"testing"
)

func parseBody(t *testing.T, xmlStr string) *Node {
	t.Helper()
	root, err := ParseXML(strings.NewReader(xmlStr))
	if err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	return root
}

func TestFormatPnumberIndentsByLevel(t *testing.T) {
	n := parseBody(t, `<P3><Pnumber>2</Pnumber><Text>subsection text</Text></P3>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	want := "\n\t2) subsection text "
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatBlockAmendmentIndentsNewlines(t *testing.T) {
	n := parseBody(t, `<BlockAmendment><Pnumber>1</Pnumber><Text>line one</Text></BlockAmendment>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if !strings.HasPrefix(got, "\n\t1) line one") {
		t.Fatalf("expected one-tab-indented block amendment, got %q", got)
	}
}

func TestFormatPblockWithTitle(t *testing.T) {
	n := parseBody(t, `<Pblock><Title>Heading</Title><Text>body text</Text></Pblock>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if !strings.HasPrefix(got, "*Heading*\n") {
		t.Fatalf("expected pblock title prefix, got %q", got)
	}
	if !strings.Contains(got, "body text") {
		t.Fatalf("expected body text preserved, got %q", got)
	}
}

func TestFormatPgroupSectionSuppressesNestedDuplicatePnumber(t *testing.T) {
	// Realistic CLML order: the group's own Pnumber precedes its Title,
	// and a nested P2 repeats that same Pnumber — the one skip_next_pnumber
	// is meant to suppress.
	n := parseBody(t, `<P1group><Pnumber>3</Pnumber><Title>Interpretation</Title><P2><Pnumber>3</Pnumber><Text>body</Text></P2></P1group>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if !strings.Contains(got, "Section 3) **Interpretation**") {
		t.Fatalf("expected section heading, got %q", got)
	}
	if strings.Count(got, "3)") != 2 {
		// one from the group's own leading Pnumber, one from the Section heading; the nested P2's duplicate is suppressed
		t.Fatalf("expected the nested duplicate Pnumber to be suppressed, got %q", got)
	}
}

func TestFormatPgroupArticleDoesNotPrefixSection(t *testing.T) {
	n := parseBody(t, `<P1group><Pnumber>Article 3</Pnumber><Title>General</Title><P2><Text>body</Text></P2></P1group>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if strings.Contains(got, "Section") {
		t.Fatalf("Article pnumbers must not get the 'Section' prefix, got %q", got)
	}
	if !strings.Contains(got, "Article 3) **General**") {
		t.Fatalf("expected article heading, got %q", got)
	}
}

func TestSkipNextPnumberIsConsumedOnce(t *testing.T) {
	n := parseBody(t, `<Body><P1group><Pnumber>3</Pnumber><Title>Interpretation</Title><P2><Pnumber>3</Pnumber><Text>inner</Text></P2></P1group><P1><Pnumber>4</Pnumber><Text>next section</Text></P1></Body>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, true)
	if strings.Count(got, "3)") != 2 {
		t.Fatalf("expected the group's own Pnumber plus the Section heading, nested duplicate suppressed, got %q", got)
	}
	if !strings.Contains(got, "4) next section") {
		t.Fatalf("expected the unrelated following P1 to render normally, got %q", got)
	}
}

func TestFormatPartEmitsHeading(t *testing.T) {
	n := parseBody(t, `<Part><Number>1</Number><Title>General</Title><Text>intro</Text></Part>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if !strings.HasPrefix(got, "## 1\n## General\n\n") {
		t.Fatalf("expected part heading prefix, got %q", got)
	}
}

func TestFormatListItemIndentsAndBullets(t *testing.T) {
	n := parseBody(t, `<ListItem><Text>item text</Text></ListItem>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	want := "\n\t- item text"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCurlyQuoteRegexEdits(t *testing.T) {
	n := parseBody(t, `<Text>a “ quoted ” word</Text>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if strings.Contains(got, "“ ") || strings.Contains(got, " ”") {
		t.Fatalf("expected curly quote spacing collapsed, got %q", got)
	}
}

func TestPNumberedIndentLevel(t *testing.T) {
	// P4 -> indent level max(0, 4-2) = 2 tabs
	n := parseBody(t, `<P4><Pnumber>a</Pnumber><Text>deep</Text></P4>`)
	p := NewCLMLParser()
	got := p.ParseElement(n, 0, false)
	if !strings.HasPrefix(got, "\n\t\ta) deep") {
		t.Fatalf("expected two-tab indent for P4, got %q", got)
	}
}
