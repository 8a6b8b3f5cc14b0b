package store

import (
	"sort"
	"sync"
	"time"

	"github.com/fieldops/opsreport/model"
)

// PresenceTracker keeps the latest known position per operator. Each position
// report replaces the previous entry for that email; entries older than the
// staleness horizon are evicted lazily when the set is read.
type PresenceTracker struct {
	mu      sync.Mutex
	byEmail map[string]model.AgentPosition
	ttl     time.Duration
	now     func() time.Time
}

// NewPresenceTracker creates an empty tracker with the given staleness
// horizon.
func NewPresenceTracker(ttl time.Duration) *PresenceTracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PresenceTracker{
		byEmail: make(map[string]model.AgentPosition),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Upsert records the caller's position, replacing any existing entry for the
// same email.
func (t *PresenceTracker) Upsert(email, name string, lat, lng float64, colorCode string) (model.AgentPosition, error) {
	if err := validateCoordinate(lat, lng); err != nil {
		return model.AgentPosition{}, err
	}

	pos := model.AgentPosition{
		Email:     NormalizeEmail(email),
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
		ColorCode: colorCode,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	pos.UpdatedAt = t.now()
	t.byEmail[pos.Email] = pos
	return pos, nil
}

// List returns the live positions, evicting entries whose last update is
// older than the staleness horizon. Results are ordered by email for
// deterministic output.
func (t *PresenceTracker) List() []model.AgentPosition {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	out := make([]model.AgentPosition, 0, len(t.byEmail))
	for email, pos := range t.byEmail {
		if pos.UpdatedAt.Before(cutoff) {
			delete(t.byEmail, email)
			continue
		}
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// Remove drops the position for an email, if any. Used when an operator is
// blocked so a stale marker does not linger on the map.
func (t *PresenceTracker) Remove(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := NormalizeEmail(email)
	_, ok := t.byEmail[key]
	delete(t.byEmail, key)
	return ok
}
