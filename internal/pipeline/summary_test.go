package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/models"
)

func TestBuildPromptIncludesCaseMetadata(t *testing.T) {
	c := models.Caselaw{
		ID:     "https://caselaw.nationalarchives.gov.uk/ewca/civ/2020/1",
		Name:   "Smith v Jones",
		CiteAs: "[2020] EWCA Civ 1",
		Court:  models.CourtEWCA,
		Division: models.DivisionCIV,
		Date:   time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		Text:   strings.Repeat("judgment text ", 100),
	}

	prompt, truncated, sourceLength := buildPrompt(c)

	if truncated {
		t.Fatalf("short judgment should not be truncated")
	}
	if sourceLength != len(c.Text) {
		t.Fatalf("sourceLength = %d, want %d", sourceLength, len(c.Text))
	}
	if !strings.Contains(prompt, "Smith v Jones") || !strings.Contains(prompt, "[2020] EWCA Civ 1") {
		t.Fatalf("prompt missing case metadata: %s", prompt)
	}
	if !strings.Contains(prompt, "2020-01-15") {
		t.Fatalf("prompt missing formatted date: %s", prompt)
	}
}

func TestBuildPromptTruncatesLongJudgments(t *testing.T) {
	c := models.Caselaw{
		Name: "Long v Case",
		Text: strings.Repeat("x", models.SummaryTextTruncateLimit+1000),
	}

	prompt, truncated, sourceLength := buildPrompt(c)

	if !truncated {
		t.Fatalf("expected truncation for oversized judgment")
	}
	if sourceLength != len(c.Text) {
		t.Fatalf("sourceLength should report the original length: got %d", sourceLength)
	}
	if strings.Count(prompt, "x") > models.SummaryTextTruncateLimit+200 {
		t.Fatalf("prompt should not include the untruncated text")
	}
}
