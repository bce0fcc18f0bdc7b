package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestConsecutiveRunsSplitsOnGap(t *testing.T) {
	runs := consecutiveRuns([]int{2020, 2021, 2022, 2024, 2025})
	want := [][]int{{2020, 2021, 2022}, {2024, 2025}}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("consecutiveRuns = %v, want %v", runs, want)
	}
}

func TestConsecutiveRunsSingleYear(t *testing.T) {
	runs := consecutiveRuns([]int{2023})
	want := [][]int{{2023}}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("consecutiveRuns = %v, want %v", runs, want)
	}
}

func TestConsecutiveRunsUnsortedInput(t *testing.T) {
	runs := consecutiveRuns([]int{2022, 2020, 2021})
	want := [][]int{{2020, 2021, 2022}}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("consecutiveRuns = %v, want %v", runs, want)
	}
}

func TestCaselawSearchURLIncludesYearRangeAndCourts(t *testing.T) {
	url := caselawSearchURL([]string{"ewca/civ", "ewhc/comm"}, []int{2020, 2021}, 1, 50)
	const want = "https://caselaw.nationalarchives.gov.uk/judgments/search?query=&order=-date&page=1&per_page=50&from_date_2=2020&to_date_2=2021&court=ewca/civ&court=ewhc/comm"
	if url != want {
		t.Fatalf("caselawSearchURL = %q, want %q", url, want)
	}
}

func TestCaselawSearchURLOmitsYearRangeWhenEmpty(t *testing.T) {
	url := caselawSearchURL(nil, nil, 1, 50)
	const want = "https://caselaw.nationalarchives.gov.uk/judgments/search?query=&order=-date&page=1&per_page=50"
	if url != want {
		t.Fatalf("caselawSearchURL = %q, want %q", url, want)
	}
}

const sampleSearchPage = `<html><body>
<div class="judgments-table">
<table>
<tr><th>Case</th><th>Date</th></tr>
<tr><td><a href="/ewca/civ/2020/123?query=foo">Smith v Jones</a></td><td>2020-05-04</td></tr>
<tr><td><a href="/ewhc/comm/2020/456">Doe v Roe</a></td><td>2020-03-01</td></tr>
</table>
</div>
<a class="pagination__page-chevron-next" href="/judgments/search?page=2">Next</a>
</body></html>`

func TestParseCaselawSearchPageExtractsRowsSkippingHeader(t *testing.T) {
	urls, next, err := parseCaselawSearchPage([]byte(sampleSearchPage))
	if err != nil {
		t.Fatalf("parseCaselawSearchPage: %v", err)
	}
	want := []string{
		"https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/123",
		"https://caselaw.nationalarchives.gov.uk/ewhc/comm/2020/456",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	const wantNext = "https://caselaw.nationalarchives.gov.uk/judgments/search?page=2"
	if next != wantNext {
		t.Fatalf("next = %q, want %q", next, wantNext)
	}
}

const sampleLastPage = `<html><body>
<div class="judgments-table">
<table>
<tr><th>Case</th></tr>
<tr><td><a href="/uksc/2019/4">Final Case</a></td></tr>
</table>
</div>
</body></html>`

func TestParseCaselawSearchPageNoNextLinkOnLastPage(t *testing.T) {
	urls, next, err := parseCaselawSearchPage([]byte(sampleLastPage))
	if err != nil {
		t.Fatalf("parseCaselawSearchPage: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
	if next != "" {
		t.Fatalf("expected no next url, got %q", next)
	}
}

func TestFetchCaseAppendsDataXML(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("<akomaNtoso/>"))
	}))
	defer srv.Close()

	s := &CaselawScraper{fetcher: newTestFetcher()}
	doc, err := s.fetchCase(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchCase: %v", err)
	}
	if doc.URI != srv.URL || doc.Type != "caselaw" {
		t.Fatalf("unexpected doc: %+v", doc)
	}
	if gotPath != "/data.xml" {
		t.Fatalf("expected request to /data.xml, got %q", gotPath)
	}
}
