package pipeline

import "testing"

func TestTrackerSetCachesByTypeAndYear(t *testing.T) {
	dir := t.TempDir()
	set := newTrackerSet(dir, "run-1")

	a, err := set.get("ukpga", 2020)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := set.get("ukpga", 2020)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a != b {
		t.Error("expected the same Tracker instance for a repeated (type, year)")
	}

	c, err := set.get("ukpga", 2021)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c == a {
		t.Error("expected a distinct Tracker for a different year")
	}

	d, err := set.get("uksi", 2020)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d == a {
		t.Error("expected a distinct Tracker for a different type")
	}
}
