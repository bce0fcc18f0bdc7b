package vectorstore

import "testing"

func TestBuildFilterEmpty(t *testing.T) {
	if f := BuildFilter(FilterOptions{}); f != nil {
		t.Fatalf("expected nil filter for empty options, got %+v", f)
	}
}

func TestBuildFilterCourtsAndYearRange(t *testing.T) {
	min, max := 2018, 2022
	f := BuildFilter(FilterOptions{
		Courts:  []string{"EWCA", "EWHC"},
		YearMin: &min,
		YearMax: &max,
	})
	if f == nil || len(f.Must) != 2 {
		t.Fatalf("expected 2 must-clauses, got %+v", f)
	}
}

func TestBuildFilterReference(t *testing.T) {
	f := BuildFilter(FilterOptions{
		ReferenceField: "legislation_references",
		ReferenceID:    "http://www.legislation.gov.uk/id/ukpga/2018/12",
	})
	if f == nil || len(f.Must) != 1 {
		t.Fatalf("expected 1 must-clause for reference search, got %+v", f)
	}
}

func TestBuildFilterAffectingYears(t *testing.T) {
	f := BuildFilter(FilterOptions{AffectingYears: []int{2024, 2025}})
	if f == nil || len(f.Must) != 1 {
		t.Fatalf("expected 1 must-clause for affecting years, got %+v", f)
	}
}
