// Package routing computes shortest walking paths over the fixed gate ring
// and ranks gates by total time (walk plus expected queue wait).
package routing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/karimlaafif/Event-Flow/models"
	"github.com/karimlaafif/Event-Flow/topology"
)

// walkingSpeed is a normal walking pace in layout units per minute.
const walkingSpeed = 5.0

// Recommender holds the weighted walking graph. Edge weights are the
// Euclidean distances between connected gates' fixed positions.
type Recommender struct {
	graph     *simple.WeightedUndirectedGraph
	nodeIDs   map[string]int64
	gateIDs   map[int64]string
	positions map[string]models.Position
}

func NewRecommender() *Recommender {
	r := &Recommender{
		graph:     simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		nodeIDs:   make(map[string]int64),
		gateIDs:   make(map[int64]string),
		positions: topology.Positions(),
	}

	for i, cfg := range topology.Gates() {
		id := int64(i)
		r.nodeIDs[cfg.ID] = id
		r.gateIDs[id] = cfg.ID
		r.graph.AddNode(simple.Node(id))
	}
	for gateID, nodeID := range r.nodeIDs {
		for _, neighbor := range topology.Neighbors(gateID) {
			neighborID, ok := r.nodeIDs[neighbor]
			if !ok || r.graph.HasEdgeBetween(nodeID, neighborID) {
				continue
			}
			w := distance(r.positions[gateID], r.positions[neighbor])
			r.graph.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(nodeID),
				T: simple.Node(neighborID),
				W: w,
			})
		}
	}
	return r
}

// ShortestPath runs Dijkstra from one gate to another over the walking
// graph and prices the target by walk time plus its live queue wait.
// Unknown gate ids yield nil rather than an error.
func (r *Recommender) ShortestPath(fromID, toID string, gates []models.Gate) *models.PathRecommendation {
	fromNode, okFrom := r.nodeIDs[fromID]
	toNode, okTo := r.nodeIDs[toID]
	if !okFrom || !okTo {
		return nil
	}

	target := findGate(gates, toID)

	if fromID == toID {
		wait := queueWait(target)
		return &models.PathRecommendation{
			GateID:        toID,
			GateName:      gateName(target, toID),
			Distance:      0,
			EstimatedTime: 0,
			WaitTime:      round1(wait),
			TotalTime:     round1(wait),
			Path:          []string{toID},
		}
	}

	shortest := path.DijkstraFrom(r.graph.Node(fromNode), r.graph)
	nodes, dist := shortest.To(toNode)
	if math.IsInf(dist, 1) {
		return nil
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = r.gateIDs[n.ID()]
	}

	estimatedTime := dist / walkingSpeed
	wait := queueWait(target)

	return &models.PathRecommendation{
		GateID:        toID,
		GateName:      gateName(target, toID),
		Distance:      round1(dist),
		EstimatedTime: round1(estimatedTime),
		WaitTime:      round1(wait),
		TotalTime:     round1(estimatedTime + wait),
		Path:          ids,
	}
}

// RecommendBestGate finds the nearest gate to the given position, computes
// the shortest path from it to every live gate and returns the results
// sorted ascending by total time.
func (r *Recommender) RecommendBestGate(pos models.Position, gates []models.Gate) []models.PathRecommendation {
	origin := ""
	minDist := math.Inf(1)
	for gateID, gatePos := range r.positions {
		d := distance(gatePos, pos)
		if d < minDist {
			minDist = d
			origin = gateID
		}
	}
	if origin == "" {
		return nil
	}

	recommendations := make([]models.PathRecommendation, 0, len(gates))
	for _, gate := range gates {
		if rec := r.ShortestPath(origin, gate.ID, gates); rec != nil {
			recommendations = append(recommendations, *rec)
		}
	}
	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].TotalTime < recommendations[j].TotalTime
	})
	return recommendations
}

// Graph exposes the underlying walking graph for inspection.
func (r *Recommender) Graph() graph.WeightedUndirected {
	return r.graph
}

func findGate(gates []models.Gate, id string) *models.Gate {
	for i := range gates {
		if gates[i].ID == id {
			return &gates[i]
		}
	}
	return nil
}

func gateName(gate *models.Gate, id string) string {
	if gate != nil {
		return gate.Name
	}
	return fmt.Sprintf("Gate %s", id)
}

func queueWait(gate *models.Gate) float64 {
	if gate == nil || gate.Capacity <= 0 || gate.AvgProcessTime <= 0 {
		return 0
	}
	return float64(gate.CurrentQueue) / (float64(gate.Capacity) / gate.AvgProcessTime)
}

func distance(a, b models.Position) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
