package ids

import "testing"

func TestDocumentUUIDStable(t *testing.T) {
	uri := "http://www.legislation.gov.uk/ukpga/2020/1"
	a := DocumentUUIDString(uri)
	b := DocumentUUIDString(uri)
	if a != b {
		t.Fatalf("expected stable uuid5, got %s and %s", a, b)
	}
}

func TestDocumentUUIDDiffers(t *testing.T) {
	a := DocumentUUIDString("http://www.legislation.gov.uk/ukpga/2020/1")
	b := DocumentUUIDString("http://www.legislation.gov.uk/ukpga/2020/2")
	if a == b {
		t.Fatalf("expected different uris to produce different ids")
	}
}

func TestAmendmentIDSymmetricUnderRescrape(t *testing.T) {
	first := AmendmentID("/changes/a", "/changes/b")
	second := AmendmentID("/changes/a", "/changes/b")
	if first != second {
		t.Fatalf("amendment id must be stable across runs")
	}
	if first != "changed-/changes/a-affecting-/changes/b" {
		t.Fatalf("unexpected amendment id format: %s", first)
	}
}

func TestSummaryID(t *testing.T) {
	if got := SummaryID("ewca/civ/2020/1"); got != "ewca/civ/2020/1-summary" {
		t.Fatalf("unexpected summary id: %s", got)
	}
}
