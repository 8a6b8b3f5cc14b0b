package store

import (
	"sync"

	"github.com/fieldops/opsreport/model"
)

// AccessLog is the append-only audit log of login outcomes together with the
// block set. Both live behind one lock because blocking annotates historical
// rows and updates the set in a single step, which must appear atomic to
// concurrent readers.
type AccessLog struct {
	mu      sync.RWMutex
	events  []model.AccessEvent
	blocked map[string]struct{}
	cap     int
}

// NewAccessLog creates an empty audit log. Admin reads are bounded to the
// most recent cap rows to keep responses bounded.
func NewAccessLog(cap int) *AccessLog {
	if cap <= 0 {
		cap = 1000
	}
	return &AccessLog{
		blocked: make(map[string]struct{}),
		cap:     cap,
	}
}

// Append records one login outcome. It never fails; rows are kept in
// insertion order.
func (l *AccessLog) Append(e model.AccessEvent) {
	e.Email = NormalizeEmail(e.Email)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// List returns audit rows newest-first. Administrators see every row up to
// the configured cap; a standard caller only sees rows for their own email.
func (l *AccessLog) List(isAdmin bool, callerEmail string) []model.AccessEvent {
	caller := NormalizeEmail(callerEmail)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.AccessEvent, 0, len(l.events))
	for i := len(l.events) - 1; i >= 0; i-- {
		if !isAdmin && l.events[i].Email != caller {
			continue
		}
		out = append(out, l.events[i])
		if isAdmin && len(out) >= l.cap {
			break
		}
	}
	return out
}

// Block annotates every historical row for the email as BLOCKED and adds the
// email to the block set so future logins and in-flight sessions are
// rejected. Returns the number of rows annotated.
func (l *AccessLog) Block(email string) int {
	key := NormalizeEmail(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	updated := 0
	for i := range l.events {
		if l.events[i].Email == key {
			l.events[i].Outcome = model.AccessBlocked
			updated++
		}
	}
	l.blocked[key] = struct{}{}
	return updated
}

// Unblock removes the email from the block set. Historical rows keep their
// BLOCKED annotation; the audit trail is not rewritten. Reports whether the
// email was blocked.
func (l *AccessLog) Unblock(email string) bool {
	key := NormalizeEmail(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	_, was := l.blocked[key]
	delete(l.blocked, key)
	return was
}

// Purge removes every audit row for the email and returns the count removed.
// Purging history does not lift a block; that is Unblock's job.
func (l *AccessLog) Purge(email string) int {
	key := NormalizeEmail(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.events[:0]
	removed := 0
	for _, e := range l.events {
		if e.Email == key {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.events = kept
	return removed
}

// IsBlocked reports whether the email is currently in the block set. This is
// consulted on every authorized request, not only at login, so a block takes
// effect mid-session.
func (l *AccessLog) IsBlocked(email string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.blocked[NormalizeEmail(email)]
	return ok
}
