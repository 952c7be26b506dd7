package models

// GateStatus is derived from the queue/capacity ratio and is never set
// independently of it.
type GateStatus string

const (
	StatusOptimal   GateStatus = "optimal"
	StatusModerate  GateStatus = "moderate"
	StatusCongested GateStatus = "congested"
	StatusCritical  GateStatus = "critical"
)

// StatusForQueue classifies a gate by its queue/capacity ratio.
// Thresholds: <0.3 optimal, <0.6 moderate, <0.85 congested, else critical.
func StatusForQueue(queue, capacity int) GateStatus {
	if capacity <= 0 {
		return StatusCritical
	}
	ratio := float64(queue) / float64(capacity)
	switch {
	case ratio < 0.3:
		return StatusOptimal
	case ratio < 0.6:
		return StatusModerate
	case ratio < 0.85:
		return StatusCongested
	default:
		return StatusCritical
	}
}

// Position is a point in the normalized stadium layout space (0-100 on
// both axes).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Gate struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	CurrentQueue   int        `json:"current_queue"`
	AvgProcessTime float64    `json:"avg_process_time"` // seconds per admitted person
	Status         GateStatus `json:"status"`
	Position       Position   `json:"position"`
	Throughput     int        `json:"throughput"`
}
