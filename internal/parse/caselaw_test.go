package parse

import (
	"testing"

	"github.com/i-dot-ai/lex-sub001/internal/models"
)

const sampleJudgment = `<akomaNtoso>
  <header>
    <FRBRname value="Smith v Jones"/>
    <FRBRdate date="2020-05-04"/>
    <neutralCitation>[2020] EWCA Civ 123</neutralCitation>
  </header>
  <judgmentBody>
    <level>
      <heading>Background</heading>
      <p>The facts are as follows.</p>
      <ref href="https://www.legislation.gov.uk/ukpga/2018/12" type="legislation">the 2018 Act</ref>
    </level>
    <level>
      <heading>Decision</heading>
      <p>The appeal is dismissed.</p>
      <ref href="https://caselaw.nationalarchives.gov.uk/uksc/2019/4" type="case">Doe v Roe</ref>
    </level>
  </judgmentBody>
</akomaNtoso>`

const sampleCaseURL = "https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/123"

func TestParseCaselawMetadata(t *testing.T) {
	c, err := ParseCaselaw([]byte(sampleJudgment), sampleCaseURL)
	if err != nil {
		t.Fatalf("ParseCaselaw: %v", err)
	}
	if c.Court != models.Court("EWCA") {
		t.Fatalf("unexpected court %q", c.Court)
	}
	if c.Division != models.CourtDivision("CIV") {
		t.Fatalf("unexpected division %q", c.Division)
	}
	if c.Year != 2020 || c.Number != "123" {
		t.Fatalf("unexpected year/number: %d/%s", c.Year, c.Number)
	}
	if c.Name != "Smith v Jones" {
		t.Fatalf("unexpected name %q", c.Name)
	}
	if c.Date.Year() != 2020 {
		t.Fatalf("unexpected date %v", c.Date)
	}
	if len(c.LegislationReferences) != 1 {
		t.Fatalf("expected 1 legislation reference, got %d", len(c.LegislationReferences))
	}
	if len(c.CaselawReferences) != 1 {
		t.Fatalf("expected 1 caselaw reference, got %d", len(c.CaselawReferences))
	}
}

func TestParseCaselawSectionsRouteAndOrder(t *testing.T) {
	sections, err := ParseCaselawSections([]byte(sampleJudgment), sampleCaseURL)
	if err != nil {
		t.Fatalf("ParseCaselawSections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Order != 1 || sections[1].Order != 2 {
		t.Fatalf("expected monotonically increasing order, got %d,%d", sections[0].Order, sections[1].Order)
	}
}

func TestParseCaselawInvalidURLFails(t *testing.T) {
	_, err := ParseCaselaw([]byte(sampleJudgment), "https://caselaw.nationalarchives.gov.uk/not-a-valid-shape")
	if err == nil {
		t.Fatalf("expected error for url not matching court/division/year/number shape")
	}
}
