package pipeline

import "testing"

func TestLegislationIdentifierStripsBaseURLAndType(t *testing.T) {
	got := legislationIdentifier("http://www.legislation.gov.uk/ukpga/Edw7/6/19", "ukpga")
	if got != "Edw7/6/19" {
		t.Errorf("legislationIdentifier() = %q, want Edw7/6/19", got)
	}
}

func TestLegislationIdentifierModernForm(t *testing.T) {
	got := legislationIdentifier("http://www.legislation.gov.uk/ukpga/2020/1", "ukpga")
	if got != "2020/1" {
		t.Errorf("legislationIdentifier() = %q, want 2020/1", got)
	}
}

func TestLegislationNumberFromIdentifier(t *testing.T) {
	if got := legislationNumberFromIdentifier("Edw7/6/19"); got != "19" {
		t.Errorf("legislationNumberFromIdentifier() = %q, want 19", got)
	}
	if got := legislationNumberFromIdentifier("2020/1"); got != "1" {
		t.Errorf("legislationNumberFromIdentifier() = %q, want 1", got)
	}
}

func TestLegislationShortID(t *testing.T) {
	got := legislationShortID("http://www.legislation.gov.uk/ukpga/2020/1")
	if got != "ukpga/2020/1" {
		t.Errorf("legislationShortID() = %q, want ukpga/2020/1", got)
	}
}
