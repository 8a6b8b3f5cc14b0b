package store

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fieldops/opsreport/model"
)

// ReportDraft carries the caller-supplied fields of a report submission.
// The server assigns the timestamp and the submitter.
type ReportDraft struct {
	Level       string
	Operation   string
	Location    string
	Description string
	Extras      map[string]string
	Latitude    *float64
	Longitude   *float64
}

// ReportQuery narrows a ledger read. Zero values mean unbounded.
type ReportQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// ReportLedger stores submitted reports newest-first. Reports are immutable;
// the ledger only ever grows.
type ReportLedger struct {
	mu      sync.RWMutex
	reports []model.Report
	cap     int
	now     func() time.Time
}

// NewReportLedger creates an empty ledger. Admin reads are bounded to cap
// rows.
func NewReportLedger(cap int) *ReportLedger {
	if cap <= 0 {
		cap = 1000
	}
	return &ReportLedger{cap: cap, now: time.Now}
}

// Submit validates the draft and appends a report bound to the submitter.
// Validation fully precedes mutation: a rejected draft leaves no trace.
func (l *ReportLedger) Submit(sub model.Submitter, draft ReportDraft) (model.Report, error) {
	switch {
	case strings.TrimSpace(draft.Level) == "":
		return model.Report{}, fmt.Errorf("%w: level", ErrMissingRequiredField)
	case strings.TrimSpace(draft.Operation) == "":
		return model.Report{}, fmt.Errorf("%w: operation", ErrMissingRequiredField)
	case strings.TrimSpace(draft.Location) == "":
		return model.Report{}, fmt.Errorf("%w: location", ErrMissingRequiredField)
	case strings.TrimSpace(draft.Description) == "":
		return model.Report{}, fmt.Errorf("%w: description", ErrMissingRequiredField)
	}

	if err := validateOptionalCoordinate(draft.Latitude, draft.Longitude); err != nil {
		return model.Report{}, err
	}

	var extras map[string]string
	if len(draft.Extras) > 0 {
		extras = make(map[string]string, len(draft.Extras))
		for k, v := range draft.Extras {
			extras[k] = v
		}
	}

	rep := model.Report{
		Timestamp:   l.now(),
		Level:       draft.Level,
		Operation:   draft.Operation,
		Location:    draft.Location,
		Description: draft.Description,
		Extras:      extras,
		Latitude:    draft.Latitude,
		Longitude:   draft.Longitude,
		Submitter: model.Submitter{
			Email: NormalizeEmail(sub.Email),
			Name:  sub.Name,
		},
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, rep)
	return rep, nil
}

// List returns reports newest-first, scoped by role: administrators see all
// reports up to the cap, standard callers only their own submissions. The
// query's date range and limit narrow the result further.
func (l *ReportLedger) List(isAdmin bool, callerEmail string, q ReportQuery) []model.Report {
	caller := NormalizeEmail(callerEmail)

	limit := q.Limit
	if limit <= 0 || limit > l.cap {
		limit = l.cap
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Report, 0, limit)
	for i := len(l.reports) - 1; i >= 0; i-- {
		r := l.reports[i]
		if !isAdmin && r.Submitter.Email != caller {
			continue
		}
		if !q.From.IsZero() && r.Timestamp.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && r.Timestamp.After(q.To) {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Count returns the total number of reports held.
func (l *ReportLedger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.reports)
}

// validateOptionalCoordinate enforces the both-or-neither rule for report
// coordinates and checks the values are usable map coordinates.
func validateOptionalCoordinate(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return fmt.Errorf("%w: latitude and longitude must both be present", ErrInvalidCoordinate)
	}
	return validateCoordinate(*lat, *lng)
}

func validateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("%w: values must be finite numbers", ErrInvalidCoordinate)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: out of range", ErrInvalidCoordinate)
	}
	return nil
}
