package stats

import (
	"testing"
	"time"
)

func TestExtractionSnapshotPercentiles(t *testing.T) {
	s := NewExtraction(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		s.Record(time.Duration(ms)*time.Millisecond, OutcomeOK)
	}

	snap := s.Snapshot()
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
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestExtractionCountsOutcomes(t *testing.T) {
	s := NewExtraction(time.Hour)
	s.Record(time.Millisecond, OutcomeOK)
	s.Record(time.Millisecond, OutcomeOK)
	s.Record(time.Second, OutcomeTimeout)
	s.Record(0, OutcomeEmpty)

	snap := s.Snapshot()
	if snap.Outcomes[OutcomeOK] != 2 {
		t.Errorf("expected 2 ok outcomes, got %d", snap.Outcomes[OutcomeOK])
	}
	if snap.Outcomes[OutcomeTimeout] != 1 || snap.Outcomes[OutcomeEmpty] != 1 {
		t.Errorf("unexpected outcomes %v", snap.Outcomes)
	}
}

func TestExtractionPrunesExpiredSamples(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewExtraction(10 * time.Minute)
	s.now = func() time.Time { return clock }

	s.Record(100*time.Millisecond, OutcomeOK)
	clock = clock.Add(11 * time.Minute)

	if snap := s.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	s.Record(200*time.Millisecond, OutcomeOK)
	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestExtractionRecordClampsNegativeDuration(t *testing.T) {
	s := NewExtraction(time.Hour)
	s.Record(-10*time.Millisecond, OutcomeFailed)
	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
