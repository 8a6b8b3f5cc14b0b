package model

import "time"

// AccessOutcome is the recorded result of a login attempt.
type AccessOutcome string

const (
	AccessOK      AccessOutcome = "OK"
	AccessDenied  AccessOutcome = "DENIED"
	AccessBlocked AccessOutcome = "BLOCKED"
)

// AccessEvent is one row of the access audit log, appended at login time.
// Rows are append-only; blocking an operator annotates their historical rows
// rather than deleting them.
type AccessEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	SourceIP  string        `json:"source_ip"`
	Outcome   AccessOutcome `json:"outcome"`
}
