package model

import "time"

// AgentPosition is the latest known map location for one operator. There is
// at most one entry per email; each position report replaces the previous
// one. Entries older than the staleness horizon are hidden from reads.
type AgentPosition struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	ColorCode string    `json:"color_code"`
	UpdatedAt time.Time `json:"updated_at"`
}
