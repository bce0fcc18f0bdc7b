package pipeline

import (
	"errors"
	"testing"

	"github.com/i-dot-ai/lex-sub001/internal/errtax"
)

func TestFailCategorisesRecoverableError(t *testing.T) {
	o := Fail("http://example.com/x", errors.New("failed to parse xml: unexpected element"))
	if o.Kind != OutcomeFail {
		t.Fatalf("expected OutcomeFail, got %s", o.Kind)
	}
	if o.Category != errtax.ParseError {
		t.Fatalf("expected parse_error, got %s", o.Category)
	}
	if o.Aborts() {
		t.Fatalf("parse_error should be recoverable and not abort the run")
	}
}

func TestFailAbortsOnNonRecoverableCategory(t *testing.T) {
	o := Fail("http://example.com/y", errors.New("out of memory while decoding"))
	if o.Category != errtax.MemoryError {
		t.Fatalf("expected memory_error, got %s", o.Category)
	}
	if !o.Aborts() {
		t.Fatalf("memory_error should abort the run")
	}
}

func TestSkipDoesNotAbort(t *testing.T) {
	o := Skip("http://example.com/z", "already exists")
	if o.Aborts() {
		t.Fatalf("skip should never abort")
	}
}

func TestOKDoesNotAbort(t *testing.T) {
	o := OK("http://example.com/w", "a record")
	if o.Aborts() {
		t.Fatalf("ok should never abort")
	}
	if o.Record != "a record" {
		t.Fatalf("unexpected record: %v", o.Record)
	}
}
