package extractor

import (
	"errors"
	"testing"
)

func TestNewResult_CoversAllCategories(t *testing.T) {
	r := NewResult("some-backend", 3, CategoryText, CategoryTables)

	if len(r.Content) != 2 {
		t.Fatalf("expected 2 content categories, got %d", len(r.Content))
	}
	for _, c := range []string{CategoryText, CategoryTables} {
		v, ok := r.Content[c]
		if !ok {
			t.Errorf("missing category %q", c)
		}
		if v != "" {
			t.Errorf("category %q should start empty, got %q", c, v)
		}
	}
	if r.Metadata[MetaExtractor] != "some-backend" {
		t.Errorf("expected extractor metadata, got %v", r.Metadata[MetaExtractor])
	}
	if r.Metadata[MetaUnit] != 3 {
		t.Errorf("expected unit metadata 3, got %v", r.Metadata[MetaUnit])
	}
}

func TestFailureSet_OneUnitWithError(t *testing.T) {
	rs := FailureSet("some-backend", 1, errors.New("file cannot be opened"))

	if len(rs) != 1 {
		t.Fatalf("expected exactly one unit, got %d", len(rs))
	}
	r, ok := rs[1]
	if !ok {
		t.Fatal("expected failure unit at index 1")
	}
	if r.Content == nil || r.Metadata == nil {
		t.Fatal("failure result must still carry non-nil content and metadata")
	}
	if r.Metadata[MetaError] != "file cannot be opened" {
		t.Errorf("expected error metadata, got %v", r.Metadata[MetaError])
	}
	for c, v := range r.Content {
		if v != "" {
			t.Errorf("failure content %q should be empty, got %q", c, v)
		}
	}
}

func TestFailureSet_KeepsRequestedUnit(t *testing.T) {
	rs := FailureSet("some-backend", 7, errors.New("boom"))
	if _, ok := rs[7]; !ok {
		t.Fatalf("expected failure unit at requested index 7, got %v", rs)
	}

	// Audio backends index their first segment at 0.
	rs = FailureSet("some-backend", 0, errors.New("boom"))
	if _, ok := rs[0]; !ok {
		t.Fatalf("expected failure unit at index 0, got %v", rs)
	}

	// Negative indices are caller bugs, clamped to 1.
	rs = FailureSet("some-backend", -4, errors.New("boom"))
	if _, ok := rs[1]; !ok {
		t.Fatalf("expected clamped failure unit at index 1, got %v", rs)
	}
}

func TestStatus_Terminal(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("%s: expected terminal=%v, got %v", tc.status, tc.terminal, got)
		}
	}
}
