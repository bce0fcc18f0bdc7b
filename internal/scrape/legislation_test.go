package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
	"github.com/i-dot-ai/lex-sub001/internal/fetch"
)

func newTestFetcher() *fetch.Fetcher {
	return fetch.New(fetch.Config{Timeout: 2 * time.Second, MaxRetries: 1}, nil)
}

func TestFetchDocumentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<Legislation><Primary><Body>text</Body></Primary></Legislation>`))
	}))
	defer srv.Close()

	s := NewLegislationScraper(newTestFetcher(), nil)
	doc, err := s.fetchDocument(context.Background(), srv.URL, "ukpga", 2020)
	if err != nil {
		t.Fatalf("fetchDocument: %v", err)
	}
	if doc.URI != srv.URL || doc.Type != "ukpga" || doc.Year != 2020 {
		t.Fatalf("unexpected doc metadata: %+v", doc)
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected non-empty body")
	}
}

func TestFetchDocumentNotFoundIsPDFFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewLegislationScraper(newTestFetcher(), nil)
	_, err := s.fetchDocument(context.Background(), srv.URL, "ukpga", 2020)
	var taxErr *errtax.Error
	if !errors.As(err, &taxErr) {
		t.Fatalf("expected *errtax.Error, got %T: %v", err, err)
	}
	if taxErr.Category != errtax.PDFFallback {
		t.Fatalf("expected pdf_fallback category, got %s", taxErr.Category)
	}
}

func TestFetchDocumentMissingBodyIsPDFFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<Legislation><Primary><Metadata/></Primary></Legislation>`))
	}))
	defer srv.Close()

	s := NewLegislationScraper(newTestFetcher(), nil)
	_, err := s.fetchDocument(context.Background(), srv.URL, "ukpga", 2020)
	var taxErr *errtax.Error
	if !errors.As(err, &taxErr) {
		t.Fatalf("expected *errtax.Error, got %T: %v", err, err)
	}
	if taxErr.Category != errtax.PDFFallback {
		t.Fatalf("expected pdf_fallback category, got %s", taxErr.Category)
	}
}
