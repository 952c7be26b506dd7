package history

import (
	"testing"
	"time"

	"github.com/karimlaafif/Event-Flow/models"
)

func TestAppendAndRecent(t *testing.T) {
	s := NewStore(10)
	base := time.Date(2026, 6, 14, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.Append("A", models.HistoricalDataPoint{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			GateID:    "A",
			Queue:     i * 10,
		})
	}

	pts := s.Recent("A", 3)
	if len(pts) != 3 {
		t.Fatalf("Recent returned %d points, want 3", len(pts))
	}
	// Chronological order: oldest of the window first
	if pts[0].Queue != 20 || pts[1].Queue != 30 || pts[2].Queue != 40 {
		t.Errorf("Recent queues = [%d %d %d], want [20 30 40]", pts[0].Queue, pts[1].Queue, pts[2].Queue)
	}
}

func TestEviction(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 5; i++ {
		s.Append("A", models.HistoricalDataPoint{GateID: "A", Queue: i})
	}

	if got := s.Len("A"); got != 3 {
		t.Fatalf("Len = %d, want 3 after eviction", got)
	}

	pts := s.Recent("A", 10)
	if len(pts) != 3 {
		t.Fatalf("Recent returned %d points, want 3", len(pts))
	}
	if pts[0].Queue != 2 || pts[1].Queue != 3 || pts[2].Queue != 4 {
		t.Errorf("oldest samples should be evicted, got queues [%d %d %d]", pts[0].Queue, pts[1].Queue, pts[2].Queue)
	}
}

func TestRecentUnknownGate(t *testing.T) {
	s := NewStore(10)
	if pts := s.Recent("Z", 5); len(pts) != 0 {
		t.Errorf("Recent for unknown gate = %v, want empty", pts)
	}
	if got := s.Len("Z"); got != 0 {
		t.Errorf("Len for unknown gate = %d, want 0", got)
	}
}

func TestQueueSequence(t *testing.T) {
	s := NewStore(10)
	for _, q := range []int{5, 15, 25} {
		s.Append("B", models.HistoricalDataPoint{GateID: "B", Queue: q})
	}

	seq := s.QueueSequence("B", 20)
	if len(seq) != 3 {
		t.Fatalf("QueueSequence returned %d values, want 3", len(seq))
	}
	want := []float64{5, 15, 25}
	for i, v := range want {
		if seq[i] != v {
			t.Errorf("seq[%d] = %f, want %f", i, seq[i], v)
		}
	}
}

func TestGateIDs(t *testing.T) {
	s := NewStore(10)
	s.Append("A", models.HistoricalDataPoint{GateID: "A"})
	s.Append("B", models.HistoricalDataPoint{GateID: "B"})

	ids := s.GateIDs()
	if len(ids) != 2 {
		t.Fatalf("GateIDs returned %d ids, want 2", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["A"] || !seen["B"] {
		t.Errorf("GateIDs = %v, want A and B", ids)
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	s := NewStore(0)
	s.Append("A", models.HistoricalDataPoint{GateID: "A"})
	if got := s.Len("A"); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}
