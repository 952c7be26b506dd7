package models

import "time"

// SimulationState is the dashboard-facing snapshot of the tick engine.
type SimulationState struct {
	IsRunning         bool      `json:"is_running"`
	Speed             float64   `json:"speed"`
	CurrentTime       time.Time `json:"current_time"`
	TotalSpectators   int       `json:"total_spectators"`
	EnteredSpectators int       `json:"entered_spectators"`
	AvgWaitTime       float64   `json:"avg_wait_time"`
	CrisisMode        bool      `json:"crisis_mode"`
}

// PathRecommendation ranks a target gate by walking time plus expected
// queue wait from a given origin.
type PathRecommendation struct {
	GateID        string   `json:"gate_id"`
	GateName      string   `json:"gate_name"`
	Distance      float64  `json:"distance"`
	EstimatedTime float64  `json:"estimated_time"`
	WaitTime      float64  `json:"wait_time"`
	TotalTime     float64  `json:"total_time"`
	Path          []string `json:"path"`
}
