package pipeline

import "testing"

func TestCaselawFromPayloadRoundTrips(t *testing.T) {
	payload := map[string]any{
		"id":     "https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/123",
		"court":  "EWCA",
		"number": "123",
		"year":   float64(2020),
		"text":   "the judgment",
	}

	c, err := caselawFromPayload(payload)
	if err != nil {
		t.Fatalf("caselawFromPayload returned error: %v", err)
	}
	if c.ID != payload["id"] {
		t.Fatalf("ID = %q, want %q", c.ID, payload["id"])
	}
	if c.Year != 2020 {
		t.Fatalf("Year = %d, want 2020", c.Year)
	}
	if c.Text != "the judgment" {
		t.Fatalf("Text = %q, want %q", c.Text, "the judgment")
	}
}

func TestCaselawFromPayloadErrorsOnBadShape(t *testing.T) {
	// year as a string cannot unmarshal into Caselaw.Year (int).
	payload := map[string]any{"year": "not a number"}
	if _, err := caselawFromPayload(payload); err == nil {
		t.Fatalf("expected an error for a year field that isn't numeric")
	}
}
