package parse

import (
	"strings"
	"testing"
)

const sampleCLML = `<Legislation>
  <Title>Sample Act 2020</Title>
  <PrimaryMetadata>
    <Description>An Act about things.</Description>
    <EnactmentDate Date="2020-03-01"/>
    <ModifiedDate Date="2021-06-15"/>
    <DocumentStatus>revised</DocumentStatus>
    <RestrictExtent>E+W</RestrictExtent>
  </PrimaryMetadata>
  <Body>
    <Part>
      <Number>1</Number>
      <Title>Preliminary</Title>
      <P1>
        <Pnumber>1</Pnumber>
        <Text>This Act may be cited as the Sample Act 2020.</Text>
      </P1>
      <P1>
        <Pnumber>2</Pnumber>
        <Text>This Act extends to England and Wales.</Text>
      </P1>
    </Part>
    <Schedule>
      <Pnumber>SCHEDULE 1</Pnumber>
      <Title>Transitional provisions</Title>
      <ScheduleBody>
        <Text>Nothing happens.</Text>
      </ScheduleBody>
    </Schedule>
  </Body>
</Legislation>`

func TestParseLegislationMetadata(t *testing.T) {
	leg, err := ParseLegislation([]byte(sampleCLML), "http://www.legislation.gov.uk/ukpga/2020/1", "ukpga", 2020, "1")
	if err != nil {
		t.Fatalf("ParseLegislation: %v", err)
	}
	if leg.Title != "Sample Act 2020" {
		t.Fatalf("expected title 'Sample Act 2020', got %q", leg.Title)
	}
	if leg.Description != "An Act about things." {
		t.Fatalf("unexpected description %q", leg.Description)
	}
	if leg.ModifiedDate.Year() != 2021 {
		t.Fatalf("expected modified year 2021, got %d", leg.ModifiedDate.Year())
	}
	if leg.Status != "revised" {
		t.Fatalf("unexpected status %q", leg.Status)
	}
	if len(leg.Extent) != 1 || leg.Extent[0] != "E+W" {
		t.Fatalf("unexpected extent %v", leg.Extent)
	}
	if !strings.Contains(leg.Text, "cited as the Sample Act 2020") {
		t.Fatalf("expected body text to include section text, got %q", leg.Text)
	}
	if leg.NumberOfProvision != 3 {
		t.Fatalf("expected 3 provisions (2 sections + 1 schedule), got %d", leg.NumberOfProvision)
	}
}

func TestParseLegislationSectionsOrderAndType(t *testing.T) {
	sections, err := ParseLegislationSections([]byte(sampleCLML), "http://www.legislation.gov.uk/ukpga/2020/1", "ukpga", 2020)
	if err != nil {
		t.Fatalf("ParseLegislationSections: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].Order != 1 || sections[1].Order != 2 || sections[2].Order != 3 {
		t.Fatalf("expected monotonically increasing order, got %d,%d,%d", sections[0].Order, sections[1].Order, sections[2].Order)
	}
	if sections[0].ProvisionType != "section" {
		t.Fatalf("expected provision_type 'section', got %q", sections[0].ProvisionType)
	}
	if sections[2].ProvisionType != "schedule" {
		t.Fatalf("expected provision_type 'schedule' for the Schedule entry, got %q", sections[2].ProvisionType)
	}
	if sections[2].Title != "Transitional provisions" {
		t.Fatalf("expected schedule title, got %q", sections[2].Title)
	}
}

func TestParseLegislationNoBodyIsPDFFallback(t *testing.T) {
	_, err := ParseLegislation([]byte(`<Legislation><Title>x</Title></Legislation>`), "http://example/x", "ukpga", 2020, "1")
	if err == nil {
		t.Fatalf("expected error for missing Body element")
	}
}
