package topology

import "testing"

func TestGatesComplete(t *testing.T) {
	gates := Gates()
	if len(gates) != 6 {
		t.Fatalf("Gates() returned %d gates, want 6", len(gates))
	}

	wantIDs := []string{"A", "B", "C", "D", "E", "F"}
	for i, id := range wantIDs {
		if gates[i].ID != id {
			t.Errorf("gates[%d].ID = %q, want %q", i, gates[i].ID, id)
		}
		if gates[i].Capacity <= 0 {
			t.Errorf("gate %q has non-positive capacity %d", id, gates[i].Capacity)
		}
		if gates[i].AvgProcessTime <= 0 {
			t.Errorf("gate %q has non-positive process time %f", id, gates[i].AvgProcessTime)
		}
	}
}

func TestRingSymmetry(t *testing.T) {
	for _, cfg := range Gates() {
		neighbors := Neighbors(cfg.ID)
		if len(neighbors) != 2 {
			t.Errorf("gate %q has %d neighbors, want 2", cfg.ID, len(neighbors))
		}
		for _, n := range neighbors {
			if n == cfg.ID {
				t.Errorf("gate %q lists itself as neighbor", cfg.ID)
			}
			back := Neighbors(n)
			found := false
			for _, b := range back {
				if b == cfg.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("gate %q lists %q as neighbor, but not vice versa", cfg.ID, n)
			}
		}
	}
}

func TestNeighborsUnknownGate(t *testing.T) {
	if got := Neighbors("Z"); got != nil {
		t.Errorf("Neighbors(\"Z\") = %v, want nil", got)
	}
}

func TestLookup(t *testing.T) {
	cfg, ok := Lookup("D")
	if !ok {
		t.Fatal("Lookup(\"D\") should succeed")
	}
	if cfg.Capacity != 900 {
		t.Errorf("gate D capacity = %d, want 900", cfg.Capacity)
	}
	if cfg.AvgProcessTime != 10 {
		t.Errorf("gate D process time = %f, want 10", cfg.AvgProcessTime)
	}

	if _, ok := Lookup("Z"); ok {
		t.Error("Lookup(\"Z\") should fail")
	}
}

func TestGatesReturnsCopy(t *testing.T) {
	first := Gates()
	first[0].Capacity = 1

	second := Gates()
	if second[0].Capacity == 1 {
		t.Error("mutating Gates() result should not affect later calls")
	}
}

func TestPositionsInLayoutSpace(t *testing.T) {
	for id, pos := range Positions() {
		if pos.X < 0 || pos.X > 100 || pos.Y < 0 || pos.Y > 100 {
			t.Errorf("gate %q position (%f, %f) outside layout space", id, pos.X, pos.Y)
		}
	}
}
