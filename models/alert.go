package models

import "time"

type AlertType string

const (
	AlertInfo     AlertType = "info"
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
	AlertSuccess  AlertType = "success"
)

type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	GateID    string    `json:"gate_id,omitempty"`
	Action    string    `json:"action,omitempty"`
}
