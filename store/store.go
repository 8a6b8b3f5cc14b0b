// Package store holds the in-memory state of the reporting backend: the
// credential store, the access audit log with its block set, the report
// ledger and the agent presence tracker. Each collection is guarded by its
// own lock; there is no cross-collection transaction, but every individual
// operation is atomic with respect to concurrent readers.
package store

import "time"

// Options configures a Store.
type Options struct {
	// FirstUserAdmin designates the first registered identity as
	// administrator.
	FirstUserAdmin bool
	// AccessLogCap bounds admin reads of the access log.
	AccessLogCap int
	// ReportListCap bounds admin reads of the report ledger.
	ReportListCap int
	// PresenceTTL is the staleness horizon for agent positions.
	PresenceTTL time.Duration
}

// Store aggregates the shared collections. It is created once at startup and
// injected into request handlers; nothing in this package is ambient state.
type Store struct {
	Credentials *CredentialStore
	Access      *AccessLog
	Reports     *ReportLedger
	Presence    *PresenceTracker
}

// New creates the process-wide store.
func New(opt Options) *Store {
	return &Store{
		Credentials: NewCredentialStore(opt.FirstUserAdmin),
		Access:      NewAccessLog(opt.AccessLogCap),
		Reports:     NewReportLedger(opt.ReportListCap),
		Presence:    NewPresenceTracker(opt.PresenceTTL),
	}
}
