package extractor

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record("pdf-text", time.Duration(ms)*time.Millisecond)
	}

	snap, ok := stats.Snapshot()["pdf-text"]
	if !ok {
		t.Fatal("expected snapshot entry for pdf-text")
	}
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
}

func TestStatsKeepsBackendsApart(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record("pdf-text", 100*time.Millisecond)
	stats.Record("doc-ai", 900*time.Millisecond)

	snaps := stats.Snapshot()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 backends, got %d", len(snaps))
	}
	if snaps["pdf-text"].MaxMs != 100 {
		t.Errorf("pdf-text max: expected 100, got %d", snaps["pdf-text"].MaxMs)
	}
	if snaps["doc-ai"].MinMs != 900 {
		t.Errorf("doc-ai min: expected 900, got %d", snaps["doc-ai"].MinMs)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record("pdf-text", 100*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if snaps := stats.Snapshot(); len(snaps) != 0 {
		t.Fatalf("expected no entries after prune, got %v", snaps)
	}
}
