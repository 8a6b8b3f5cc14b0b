package store

import (
	"crypto/hmac"
	"fmt"
	"strings"
	"sync"

	"github.com/fieldops/opsreport/model"
)

// CredentialStore holds the registered identities, keyed by lowercased email.
// Records are immutable after creation apart from secret rotation.
type CredentialStore struct {
	mu             sync.RWMutex
	byEmail        map[string]model.Identity
	firstUserAdmin bool
}

// NewCredentialStore creates an empty credential store. When firstUserAdmin
// is set, the first identity ever registered is designated administrator;
// every later registration gets the standard role.
func NewCredentialStore(firstUserAdmin bool) *CredentialStore {
	return &CredentialStore{
		byEmail:        make(map[string]model.Identity),
		firstUserAdmin: firstUserAdmin,
	}
}

// NormalizeEmail lowercases and trims an email so it can serve as a
// case-insensitive key across every store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new identity. Email, secret and name are required;
// validation happens before any state change.
func (s *CredentialStore) Register(email, secret, name, rank, unit string) (model.Identity, error) {
	key := NormalizeEmail(email)
	switch {
	case key == "":
		return model.Identity{}, fmt.Errorf("%w: email", ErrMissingRequiredField)
	case secret == "":
		return model.Identity{}, fmt.Errorf("%w: password", ErrMissingRequiredField)
	case strings.TrimSpace(name) == "":
		return model.Identity{}, fmt.Errorf("%w: name", ErrMissingRequiredField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return model.Identity{}, fmt.Errorf("%w: %s", ErrDuplicateIdentity, key)
	}

	id := model.Identity{
		Email:   key,
		Name:    strings.TrimSpace(name),
		Rank:    rank,
		Unit:    unit,
		Secret:  secret,
		IsAdmin: s.firstUserAdmin && len(s.byEmail) == 0,
	}
	s.byEmail[key] = id
	return id, nil
}

// Lookup resolves an identity by email, case-insensitively.
func (s *CredentialStore) Lookup(email string) (model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return model.Identity{}, fmt.Errorf("%w: %s", ErrNotFound, NormalizeEmail(email))
	}
	return id, nil
}

// VerifySecret reports whether the presented secret matches the stored one.
// The comparison is constant-time; an unknown email simply reports false so
// callers can treat both failures uniformly.
func (s *CredentialStore) VerifySecret(email, secret string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return false
	}
	return hmac.Equal([]byte(id.Secret), []byte(secret))
}

// RotateSecret replaces the stored secret for an existing identity.
func (s *CredentialStore) RotateSecret(email, newSecret string) error {
	if newSecret == "" {
		return fmt.Errorf("%w: password", ErrMissingRequiredField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeEmail(email)
	id, ok := s.byEmail[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	id.Secret = newSecret
	s.byEmail[key] = id
	return nil
}

// Count returns the number of registered identities.
func (s *CredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
