package scrape

import "testing"

func TestAmendmentChangesURLWithoutYearMadeBy(t *testing.T) {
	url := amendmentChangesURL(2020, 0, 1, 100)
	const want = "http://www.legislation.gov.uk/changes/affected/all/2020?results-count=100&page=1&sort=affected-year-number"
	if url != want {
		t.Fatalf("amendmentChangesURL = %q, want %q", url, want)
	}
}

func TestAmendmentChangesURLWithYearMadeBy(t *testing.T) {
	url := amendmentChangesURL(2020, 2021, 3, 50)
	const want = "http://www.legislation.gov.uk/changes/affected/all/2020/affecting/all/2021?results-count=50&page=3&sort=affected-year-number"
	if url != want {
		t.Fatalf("amendmentChangesURL = %q, want %q", url, want)
	}
}

func TestPageHasResultsTableDetectsTable(t *testing.T) {
	if !pageHasResultsTable([]byte("<html><body><table><tr></tr></table></body></html>")) {
		t.Fatalf("expected table to be detected")
	}
	if pageHasResultsTable([]byte("<html><body>No changes found.</body></html>")) {
		t.Fatalf("expected no table to be detected")
	}
}
