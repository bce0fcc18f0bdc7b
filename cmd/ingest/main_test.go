package main

import (
	"reflect"
	"testing"

	"github.com/i-dot-ai/lex-sub001/internal/config"
)

func TestExpandTypesDefaultsToEverything(t *testing.T) {
	got := expandTypes(nil)
	if !reflect.DeepEqual(got, config.AllLegislationTypes) {
		t.Errorf("expandTypes(nil) = %v, want the full canonical list", got)
	}
}

func TestExpandTypesLiteral(t *testing.T) {
	got := expandTypes([]string{"ukpga", "uksi"})
	want := []string{"ukpga", "uksi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandTypes = %v, want %v", got, want)
	}
}

func TestExpandTypesGlob(t *testing.T) {
	got := expandTypes([]string{"uk??"})
	for _, ty := range got {
		if len(ty) != 4 || ty[:2] != "uk" {
			t.Errorf("expandTypes(\"uk??\") returned non-matching type %q", ty)
		}
	}
	if len(got) == 0 {
		t.Error("expandTypes(\"uk??\") matched nothing")
	}
}

func TestExpandTypesGroup(t *testing.T) {
	got := expandTypes([]string{"primary"})
	want := config.LegislationTypeGroups["primary"]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandTypes(\"primary\") = %v, want %v", got, want)
	}
}

func TestExpandTypesUnmatchedTokenPassesThrough(t *testing.T) {
	got := expandTypes([]string{"madeup"})
	want := []string{"madeup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandTypes(\"madeup\") = %v, want %v", got, want)
	}
}

func TestExpandTypesDedupesAcrossTokens(t *testing.T) {
	got := expandTypes([]string{"ukpga", "primary"})
	seen := make(map[string]int)
	for _, ty := range got {
		seen[ty]++
	}
	for ty, n := range seen {
		if n > 1 {
			t.Errorf("type %q appeared %d times, want at most once", ty, n)
		}
	}
}
