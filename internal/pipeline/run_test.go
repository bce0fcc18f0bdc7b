package pipeline

import "testing"

func TestStatsAddTalliesByOutcomeKind(t *testing.T) {
	stats := NewStats()
	stats.Add("legislation", []Outcome{
		OK("u1", nil),
		OK("u2", nil),
		Skip("u3", "reason"),
		Fail("u4", errNotRecoverableStub{}),
	})

	if stats.OK["legislation"] != 2 {
		t.Fatalf("OK count = %d, want 2", stats.OK["legislation"])
	}
	if stats.Skip["legislation"] != 1 {
		t.Fatalf("Skip count = %d, want 1", stats.Skip["legislation"])
	}
	if stats.Fail["legislation"] != 1 {
		t.Fatalf("Fail count = %d, want 1", stats.Fail["legislation"])
	}
	if stats.Total() != 4 {
		t.Fatalf("Total() = %d, want 4", stats.Total())
	}
}

func TestCaselawIDsFromOutcomesSkipsNonOK(t *testing.T) {
	ids := caselawIDsFromOutcomes([]Outcome{
		OK("https://caselaw/1", nil),
		Skip("https://caselaw/2", "too short"),
		Fail("https://caselaw/3", errNotRecoverableStub{}),
	})
	if len(ids) != 1 || ids[0] != "https://caselaw/1" {
		t.Fatalf("caselawIDsFromOutcomes = %v, want [https://caselaw/1]", ids)
	}
}

type errNotRecoverableStub struct{}

func (errNotRecoverableStub) Error() string { return "boom" }
