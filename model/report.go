package model

import "time"

// Report is a submitted field alert. Reports are immutable once created;
// the server assigns the timestamp and binds the submitter from the
// authorized session, never from the request body.
type Report struct {
	Timestamp   time.Time         `json:"timestamp"`
	Level       string            `json:"level"`
	Operation   string            `json:"operation"`
	Location    string            `json:"location"`
	Description string            `json:"description"`
	Extras      map[string]string `json:"extras,omitempty"`
	Latitude    *float64          `json:"latitude,omitempty"`
	Longitude   *float64          `json:"longitude,omitempty"`
	Submitter   Submitter         `json:"submitter"`
}

// Submitter identifies the operator who filed a report.
type Submitter struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
