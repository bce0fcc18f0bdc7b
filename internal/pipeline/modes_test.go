package pipeline

import (
	"reflect"
	"testing"

	"github.com/i-dot-ai/lex-sub001/internal/config"
)

func TestResolveYearsDaily(t *testing.T) {
	got := ResolveYears(config.RunOptions{Mode: config.ModeDaily}, 2026)
	want := []int{2026, 2025}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolveYears(daily) = %v, want %v", got, want)
	}
}

func TestResolveYearsFullExplicit(t *testing.T) {
	got := ResolveYears(config.RunOptions{Mode: config.ModeFull, Years: []int{2019, 2020}}, 2026)
	want := []int{2019, 2020}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolveYears(full, explicit) = %v, want %v", got, want)
	}
}

func TestResolveYearsFullDefaultSpansFromFirstLegislationYear(t *testing.T) {
	got := ResolveYears(config.RunOptions{Mode: config.ModeFull}, config.FirstLegislationYear+2)
	if len(got) != 3 {
		t.Fatalf("expected 3 years, got %d: %v", len(got), got)
	}
	if got[0] != config.FirstLegislationYear || got[len(got)-1] != config.FirstLegislationYear+2 {
		t.Fatalf("unexpected year span: %v", got)
	}
}
