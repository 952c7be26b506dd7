package models

import "time"

// HistoricalDataPoint is one sample of a gate's observed state.
type HistoricalDataPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	GateID     string    `json:"gate_id"`
	Queue      int       `json:"queue"`
	Throughput int       `json:"throughput"`
	WaitTime   float64   `json:"wait_time"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type SuggestedAction string

const (
	ActionMaintain         SuggestedAction = "maintain"
	ActionRedirect         SuggestedAction = "redirect"
	ActionIncreaseCapacity SuggestedAction = "increase-capacity"
	ActionAlert            SuggestedAction = "alert"
)

// ModelPrediction is a multi-horizon congestion forecast for one gate.
// PredictedDensity[i] is always PredictedQueue[i]/capacity, and the risk
// level is a pure threshold function of the peak predicted density.
type ModelPrediction struct {
	GateID            string          `json:"gate_id"`
	Timestamp         time.Time       `json:"timestamp"`
	PredictedQueue    []float64       `json:"predicted_queue"`
	PredictedDensity  []float64       `json:"predicted_density"`
	Confidence        float64         `json:"confidence"`
	TimeHorizon       []int           `json:"time_horizon"` // minutes ahead
	SuggestedAction   SuggestedAction `json:"suggested_action"`
	RiskLevel         RiskLevel       `json:"risk_level"`
	EstimatedWaitTime []float64       `json:"estimated_wait_time"`
}

// ModelMetrics are illustrative model quality figures. TotalPredictions is
// a real monotone counter; the accuracy figures carry bounded noise rather
// than being computed against ground truth.
type ModelMetrics struct {
	Accuracy           float64   `json:"accuracy"`
	Precision          float64   `json:"precision"`
	Recall             float64   `json:"recall"`
	F1Score            float64   `json:"f1_score"`
	MAE                float64   `json:"mae"`
	RMSE               float64   `json:"rmse"`
	LastUpdated        time.Time `json:"last_updated"`
	TotalPredictions   int64     `json:"total_predictions"`
	CorrectPredictions int64     `json:"correct_predictions"`
}
