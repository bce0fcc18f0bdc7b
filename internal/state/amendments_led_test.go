package state

import "testing"

func TestParseModifiedDateRFC3339(t *testing.T) {
	got, err := parseModifiedDate("2020-05-04T00:00:00Z")
	if err != nil {
		t.Fatalf("parseModifiedDate: %v", err)
	}
	if got.Year() != 2020 {
		t.Fatalf("unexpected year: %d", got.Year())
	}
}

func TestParseModifiedDateBareISODate(t *testing.T) {
	got, err := parseModifiedDate("2020-05-04")
	if err != nil {
		t.Fatalf("parseModifiedDate: %v", err)
	}
	if got.Year() != 2020 {
		t.Fatalf("unexpected year: %d", got.Year())
	}
}

func TestParseModifiedDateInvalid(t *testing.T) {
	if _, err := parseModifiedDate("not-a-date"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestPayloadIntAcceptsNumericKinds(t *testing.T) {
	cases := []any{int(5), int64(5), float64(5)}
	for _, c := range cases {
		n, ok := payloadInt(c)
		if !ok || n != 5 {
			t.Fatalf("payloadInt(%v) = %d, %v", c, n, ok)
		}
	}
	if _, ok := payloadInt("5"); ok {
		t.Fatalf("expected payloadInt to reject a string")
	}
}

func TestClassifyStalenessMissingStaleAndUpToDate(t *testing.T) {
	changed := ChangedLegislation{
		"ukpga/2020/1": 2025, // missing entirely
		"ukpga/2019/2": 2025, // stale: modified before amendment year
		"ukpga/2018/3": 2020, // up to date: modified after amendment year
		"ukpga/2017/4": 2025, // stale: no modified_date recorded
	}
	shortToFull := map[string]string{
		"ukpga/2020/1": LegislationIDPrefix + "ukpga/2020/1",
		"ukpga/2019/2": LegislationIDPrefix + "ukpga/2019/2",
		"ukpga/2018/3": LegislationIDPrefix + "ukpga/2018/3",
		"ukpga/2017/4": LegislationIDPrefix + "ukpga/2017/4",
	}
	existing := map[string]ExistingMetadata{
		LegislationIDPrefix + "ukpga/2019/2": {ModifiedDate: "2023-01-01T00:00:00Z"},
		LegislationIDPrefix + "ukpga/2018/3": {ModifiedDate: "2024-01-01T00:00:00Z"},
		LegislationIDPrefix + "ukpga/2017/4": {ModifiedDate: ""},
	}

	needsRescrape, missing, stale, upToDate := classifyStaleness(changed, shortToFull, existing)

	if missing != 1 || stale != 2 || upToDate != 1 {
		t.Fatalf("unexpected counts: missing=%d stale=%d upToDate=%d", missing, stale, upToDate)
	}
	for _, id := range []string{"ukpga/2020/1", "ukpga/2019/2", "ukpga/2017/4"} {
		if !needsRescrape[id] {
			t.Fatalf("expected %s to need rescrape", id)
		}
	}
	if needsRescrape["ukpga/2018/3"] {
		t.Fatalf("expected ukpga/2018/3 to be up to date")
	}
}
