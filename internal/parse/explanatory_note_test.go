package parse

import (
	"strings"
	"testing"
)

const sampleExplanatoryNotes = `<ExplanatoryNotes>
  <Body>
    <Part>
      <Title>Overview</Title>
      <Text>This note explains the Act.</Text>
    </Part>
    <Part>
      <Title>Commentary on Provisions</Title>
      <Pblock>
        <Pnumber>1</Pnumber>
        <Text>Section 1 does X.</Text>
      </Pblock>
    </Part>
  </Body>
</ExplanatoryNotes>`

func TestParseExplanatoryNotesRouteAndOrder(t *testing.T) {
	notes, err := ParseExplanatoryNotes([]byte(sampleExplanatoryNotes), "http://www.legislation.gov.uk/ukpga/2020/1")
	if err != nil {
		t.Fatalf("ParseExplanatoryNotes: %v", err)
	}
	if len(notes) == 0 {
		t.Fatalf("expected at least one note")
	}
	first := notes[0]
	if len(first.Route) == 0 || first.Route[0] != "Overview" {
		t.Fatalf("expected first note's route to start with 'Overview', got %v", first.Route)
	}
	if first.Order != 1 {
		t.Fatalf("expected first note order 1, got %d", first.Order)
	}
	if !strings.Contains(first.Text, "explains the Act") {
		t.Fatalf("unexpected first note text %q", first.Text)
	}

	var foundProvisions bool
	for _, n := range notes {
		if n.NoteType == "provisions" {
			foundProvisions = true
		}
	}
	if !foundProvisions {
		t.Fatalf("expected a note mapped to the 'provisions' note_type from the 'Commentary on Provisions' heading")
	}
}
