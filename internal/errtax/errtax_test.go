package errtax

import (
	"errors"
	"testing"
)

func TestCategorizeHTTPError(t *testing.T) {
	err := errors.New("request failed: HTTP error: 503 Service Unavailable")
	if got := Categorize(err); got != HTTPError {
		t.Fatalf("expected http_error, got %s", got)
	}
}

func TestCategorizeParseError(t *testing.T) {
	err := errors.New("failed to parse xml: unexpected element Pnumber")
	if got := Categorize(err); got != ParseError {
		t.Fatalf("expected parse_error, got %s", got)
	}
}

func TestCategorizeUnknown(t *testing.T) {
	err := errors.New("something entirely unrelated happened")
	if got := Categorize(err); got != UnknownError {
		t.Fatalf("expected unknown_error, got %s", got)
	}
}

func TestIsRecoverable(t *testing.T) {
	cases := map[Category]bool{
		PDFFallback:     true,
		HTTPError:       true,
		ParseError:      true,
		ValidationError: true,
		FileError:       true,
		MemoryError:     false,
		EncodingError:   false,
		UnknownError:    false,
	}
	for cat, want := range cases {
		if got := IsRecoverable(cat); got != want {
			t.Errorf("IsRecoverable(%s) = %v, want %v", cat, got, want)
		}
	}
}

func TestExtractHTTPStatus(t *testing.T) {
	code, ok := ExtractHTTPStatus(errors.New("got HTTP error: 429 Too Many Requests"))
	if !ok || code != 429 {
		t.Fatalf("expected 429, got %d ok=%v", code, ok)
	}
}

func TestExtractDocID(t *testing.T) {
	docType, year, number, ok := ExtractDocID("http://www.legislation.gov.uk/ukpga/2020/1/data.xml")
	if !ok || docType != "ukpga" || year != 2020 || number != "1" {
		t.Fatalf("unexpected extraction: %s %d %s ok=%v", docType, year, number, ok)
	}
}

func TestErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	wrapped := &Error{Category: ParseError, Err: base}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected Unwrap to expose base error")
	}
	if !Is(wrapped, ParseError) {
		t.Fatalf("expected Is to match category")
	}
}
