// Package errtax categorises ingestion errors into the fixed taxonomy the
// orchestrator uses to decide whether a failure is recoverable (log + skip
// the record) or non-recoverable (abort the run).
package errtax

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Category is one of the closed set of error categories the pipeline
// recognises.
type Category string

const (
	PDFFallback     Category = "pdf_fallback"
	HTTPError       Category = "http_error"
	ParseError      Category = "parse_error"
	ValidationError Category = "validation_error"
	MemoryError     Category = "memory_error"
	EncodingError   Category = "encoding_error"
	FileError       Category = "file_error"
	UnknownError    Category = "unknown_error"
)

// patterns maps a category to the lowercase substrings checked against
// both the error message and its dynamic type name, mirroring the
// original ErrorCategorizer.ERROR_PATTERNS table exactly.
var patterns = map[Category][]string{
	PDFFallback:     {"pdf", "no body element", "pdf-only", "pdf only"},
	HTTPError:       {"http", "connection", "timeout", "5xx", "429", "rate limit", "status code"},
	ParseError:      {"parse", "xml", "unmarshal", "malformed", "unexpected element"},
	ValidationError: {"validation", "required field", "missing field", "invalid value"},
	MemoryError:     {"out of memory", "memory", "oom"},
	EncodingError:   {"encoding", "decode", "utf-8", "charset", "invalid byte sequence"},
	FileError:       {"no such file", "file error", "permission denied", "enoent"},
}

// orderedCategories fixes the match order so the first matching category
// wins deterministically, matching the original's dict-iteration order
// (pdf_fallback checked before the more generic http_error, etc.).
var orderedCategories = []Category{
	PDFFallback, HTTPError, ParseError, ValidationError, MemoryError, EncodingError, FileError,
}

// recoverable is the set of categories the orchestrator logs-and-skips
// rather than aborting on, matching the original's is_recoverable_error.
var recoverable = map[Category]bool{
	PDFFallback:     true,
	HTTPError:       true,
	ParseError:      true,
	ValidationError: true,
	FileError:       true,
}

// Error wraps an underlying error with its taxonomy category and optional
// structured metadata for logging.
type Error struct {
	Category Category
	DocID    string
	DocType  string
	Year     int
	HTTPCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Category)
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Categorize applies the pattern-based classifier to an arbitrary error,
// checking both its message and its dynamic Go type name (the closest
// analogue of the original's check against both exception message and
// exception type name).
func Categorize(err error) Category {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	typeName := strings.ToLower(reflect.TypeOf(err).String())
	haystack := msg + " " + typeName

	for _, cat := range orderedCategories {
		for _, p := range patterns[cat] {
			if strings.Contains(haystack, p) {
				return cat
			}
		}
	}
	return UnknownError
}

// IsRecoverable reports whether the orchestrator should log-and-skip (true)
// or abort the run (false) for the given category. unknown_error is
// treated as non-recoverable (fail closed), matching the original's
// conservative default when handle_error(safe=False).
func IsRecoverable(c Category) bool {
	return recoverable[c]
}

// httpStatusPattern extracts a 3-digit HTTP status code from an error
// message, matching any 4xx/5xx code.
var httpStatusPattern = regexp.MustCompile(`\b([45][0-9]{2})\b`)

// ExtractHTTPStatus returns the first HTTP status code embedded in an
// error's message, if any.
func ExtractHTTPStatus(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	m := httpStatusPattern.FindString(err.Error())
	if m == "" {
		return 0, false
	}
	var code int
	fmt.Sscanf(m, "%d", &code)
	return code, true
}

// docIDPatterns extract a legislation-style document id
// (type/year/number) from a URL or error message, mirroring the
// original's three regexes over legislation.gov.uk-style paths.
var docIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([a-z]+)/(\d{4})/(\d+)\b`),
	regexp.MustCompile(`(?i)/id/([a-z]+)/(\d{4})/(\d+)\b`),
	regexp.MustCompile(`(?i)legislation\.gov\.uk/([a-z]+)/(\d{4})/(\d+)\b`),
}

// ExtractDocID extracts a best-effort "{type}/{year}/{number}" document id
// from an arbitrary string (URL or error text), returning ok=false if none
// of the known shapes match.
func ExtractDocID(s string) (docType string, year int, number string, ok bool) {
	for _, re := range docIDPatterns {
		m := re.FindStringSubmatch(s)
		if m != nil {
			var y int
			fmt.Sscanf(m[2], "%d", &y)
			return m[1], y, m[3], true
		}
	}
	return "", 0, "", false
}

// Metadata is the structured context attached to a recoverable error's log
// line, matching the original's extract_error_metadata output fields.
type Metadata struct {
	Category Category
	URL      string
	DocType  string
	Year     int
	Number   string
	HTTPCode int
}

// ExtractMetadata builds a Metadata record from an error and the url/context
// it occurred against.
func ExtractMetadata(err error, url string) Metadata {
	cat := Categorize(err)
	meta := Metadata{Category: cat, URL: url}
	if code, ok := ExtractHTTPStatus(err); ok {
		meta.HTTPCode = code
	}
	if t, y, n, ok := ExtractDocID(url); ok {
		meta.DocType, meta.Year, meta.Number = t, y, n
	}
	return meta
}

// Is reports whether target is (or wraps) an *Error of the given category.
func Is(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}
