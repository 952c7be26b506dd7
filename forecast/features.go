package forecast

import (
	"math"
	"time"

	"github.com/karimlaafif/Event-Flow/models"
)

// Features is the pure input extracted for one gate: its own state, a
// short historical window and the load on the surrounding gates.
type Features struct {
	GateID                string
	CurrentQueue          int
	Capacity              int
	Throughput            int
	AvgProcessTime        float64
	TimeOfDay             int // 0-24
	DayOfWeek             int // 0-6
	HistoricalAvg         float64
	Trend                 float64 // clamped to [-1, 1]
	NearbyGateUtilization float64
}

// ExtractFeatures derives the model input for a gate from its live state,
// the last 10 historical samples and the mean utilization of the other
// gates.
func (f *Forecaster) ExtractFeatures(gate models.Gate, gates []models.Gate, now time.Time) Features {
	recent := f.hist.Recent(gate.ID, 10)

	historicalAvg := float64(gate.CurrentQueue)
	if len(recent) > 0 {
		sum := 0.0
		for _, p := range recent {
			sum += float64(p.Queue)
		}
		historicalAvg = sum / float64(len(recent))
	}

	trend := 0.0
	if len(recent) >= 2 && gate.Capacity > 0 {
		trend = float64(recent[len(recent)-1].Queue-recent[0].Queue) / float64(gate.Capacity)
		trend = math.Max(-1, math.Min(1, trend))
	}

	nearby := 0.0
	count := 0
	for _, g := range gates {
		if g.ID == gate.ID || g.Capacity == 0 {
			continue
		}
		nearby += float64(g.CurrentQueue) / float64(g.Capacity)
		count++
	}
	if count > 0 {
		nearby /= float64(count)
	}

	return Features{
		GateID:                gate.ID,
		CurrentQueue:          gate.CurrentQueue,
		Capacity:              gate.Capacity,
		Throughput:            gate.Throughput,
		AvgProcessTime:        gate.AvgProcessTime,
		TimeOfDay:             now.Hour(),
		DayOfWeek:             int(now.Weekday()),
		HistoricalAvg:         historicalAvg,
		Trend:                 trend,
		NearbyGateUtilization: nearby,
	}
}

// normalize maps the features into the 9-value input vector the network
// consumes, all scaled into [0, 1].
func normalize(feats Features, sequence []float64) []float64 {
	capacity := float64(feats.Capacity)
	lastSeq := 0.5
	if len(sequence) > 0 && capacity > 0 {
		lastSeq = sequence[len(sequence)-1] / capacity
	}
	return []float64{
		float64(feats.CurrentQueue) / capacity,
		float64(feats.Throughput) / capacity,
		feats.AvgProcessTime / 60,
		float64(feats.TimeOfDay) / 24,
		float64(feats.DayOfWeek) / 7,
		feats.HistoricalAvg / capacity,
		(feats.Trend + 1) / 2,
		feats.NearbyGateUtilization,
		lastSeq,
	}
}
