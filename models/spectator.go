package models

import "time"

type SpectatorStatus string

const (
	SpectatorApproaching SpectatorStatus = "approaching"
	SpectatorQueued      SpectatorStatus = "queued"
	SpectatorEntered     SpectatorStatus = "entered"
	SpectatorDelayed     SpectatorStatus = "delayed"
)

type Profile string

const (
	ProfileFamily   Profile = "family"
	ProfileUltra    Profile = "ultra"
	ProfileVIP      Profile = "vip"
	ProfileStandard Profile = "standard"
)

// Profiles lists the spectator categories in assignment order.
var Profiles = []Profile{ProfileFamily, ProfileUltra, ProfileVIP, ProfileStandard}

// Spectator is a simulated person moving toward an assigned gate. Once its
// status reaches entered it is frozen for the rest of the session.
type Spectator struct {
	ID            string          `json:"id"`
	Profile       Profile         `json:"profile"`
	AssignedGate  string          `json:"assigned_gate"`
	Position      Position        `json:"position"`
	Status        SpectatorStatus `json:"status"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	EstimatedWait int             `json:"estimated_wait"`
}
