// Package topology holds the fixed stadium layout: six gates arranged in a
// hexagonal ring, each connected to its two ring neighbours by walking
// paths. The data is closed and hardcoded; there is no mutable state.
package topology

import "github.com/karimlaafif/Event-Flow/models"

// GateConfig is the static part of a gate: everything except its live
// queue, throughput and derived status.
type GateConfig struct {
	ID             string
	Name           string
	Capacity       int
	AvgProcessTime float64 // seconds per admitted person
	Position       models.Position
}

var gateConfigs = []GateConfig{
	{ID: "A", Name: "Gate A - North", Capacity: 800, AvgProcessTime: 12, Position: models.Position{X: 50, Y: 10}},
	{ID: "B", Name: "Gate B - Northeast", Capacity: 600, AvgProcessTime: 15, Position: models.Position{X: 85, Y: 25}},
	{ID: "C", Name: "Gate C - Southeast", Capacity: 700, AvgProcessTime: 14, Position: models.Position{X: 85, Y: 75}},
	{ID: "D", Name: "Gate D - South", Capacity: 900, AvgProcessTime: 10, Position: models.Position{X: 50, Y: 90}},
	{ID: "E", Name: "Gate E - Southwest", Capacity: 650, AvgProcessTime: 13, Position: models.Position{X: 15, Y: 75}},
	{ID: "F", Name: "Gate F - Northwest", Capacity: 750, AvgProcessTime: 11, Position: models.Position{X: 15, Y: 25}},
}

// Walking paths between gates: each gate reaches exactly its two ring
// neighbours.
var ring = map[string][]string{
	"A": {"B", "F"},
	"B": {"A", "C"},
	"C": {"B", "D"},
	"D": {"C", "E"},
	"E": {"D", "F"},
	"F": {"E", "A"},
}

// Gates returns the static gate configurations in layout order.
func Gates() []GateConfig {
	out := make([]GateConfig, len(gateConfigs))
	copy(out, gateConfigs)
	return out
}

// Positions maps every gate id to its fixed layout position.
func Positions() map[string]models.Position {
	out := make(map[string]models.Position, len(gateConfigs))
	for _, g := range gateConfigs {
		out[g.ID] = g.Position
	}
	return out
}

// Neighbors returns the gates adjacent to id, in ring order. Unknown ids
// yield nil.
func Neighbors(id string) []string {
	adj, ok := ring[id]
	if !ok {
		return nil
	}
	out := make([]string, len(adj))
	copy(out, adj)
	return out
}

// Lookup returns the static config for a gate id.
func Lookup(id string) (GateConfig, bool) {
	for _, g := range gateConfigs {
		if g.ID == id {
			return g, true
		}
	}
	return GateConfig{}, false
}
