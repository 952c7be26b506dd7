package models

import "time"

// PredictionRow is the per-horizon archived form of a ModelPrediction,
// written by the archiver and read back by the API history endpoints.
type PredictionRow struct {
	TS               time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	GateID           string    `gorm:"column:gate_id;primaryKey" json:"gate_id"`
	HorizonMin       int       `gorm:"column:horizon_min;primaryKey" json:"horizon_min"`
	PredictedQueue   float64   `gorm:"column:predicted_queue" json:"predicted_queue"`
	PredictedDensity float64   `gorm:"column:predicted_density" json:"predicted_density"`
	Confidence       float64   `gorm:"column:confidence" json:"confidence"`
	RiskLevel        string    `gorm:"column:risk_level" json:"risk_level"`
	SuggestedAction  string    `gorm:"column:suggested_action" json:"suggested_action"`
}

func (PredictionRow) TableName() string { return "gate_predictions" }

// ScanRow is one ticket scan ingested from the MQTT feed.
type ScanRow struct {
	TS       time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	TicketID string    `gorm:"column:ticket_id;primaryKey" json:"ticket_id"`
	GateID   string    `gorm:"column:gate_id" json:"gate_id"`
	Profile  string    `gorm:"column:profile" json:"profile"`
	X        float64   `gorm:"column:x" json:"x"`
	Y        float64   `gorm:"column:y" json:"y"`
}

func (ScanRow) TableName() string { return "scans" }

// AlertRow is an archived engine alert.
type AlertRow struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Type      string    `gorm:"column:type" json:"type"`
	Title     string    `gorm:"column:title" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`
	GateID    string    `gorm:"column:gate_id" json:"gate_id"`
	Action    string    `gorm:"column:action" json:"action"`
}

func (AlertRow) TableName() string { return "alerts" }
