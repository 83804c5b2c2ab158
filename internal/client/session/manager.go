// Package session keeps the client's local notion of "am I logged in"
// consistent with the server's. The record it persists exists only to avoid
// sending requests with a token the client already knows is dead, and to
// decide whether to show the authenticated surface before any request is made.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inventox/inventox/internal/rbac"
)

// State is the manager's lifecycle state.
type State int

const (
	// StateUnknown applies before Restore has run; nothing authenticated
	// should render while in it.
	StateUnknown State = iota
	// StateAnonymous means no live session exists.
	StateAnonymous
	// StateAuthenticated means a non-expired token is loaded.
	StateAuthenticated
)

// Record is the persisted client session: the token, the role the server
// reported, and the expiry decoded from the token itself.
type Record struct {
	Token     string    `json:"token"`
	Role      rbac.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager owns the client-side session lifecycle. All methods are safe for
// concurrent use; Logout and expiry teardown are idempotent.
type Manager struct {
	mu     sync.Mutex
	store  Store
	state  State
	record Record
	now    func() time.Time
}

// NewManager constructs a Manager in StateUnknown.
func NewManager(store Store) *Manager {
	return &Manager{store: store, state: StateUnknown, now: time.Now}
}

// Restore loads the persisted record once at startup. An absent record, or
// one whose expiry has passed, yields StateAnonymous; the stale record is
// discarded.
func (m *Manager) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			m.state = StateAnonymous
			return nil
		}
		m.state = StateAnonymous
		return err
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		m.discardLocked()
		return nil
	}
	if !record.ExpiresAt.After(m.now()) {
		m.discardLocked()
		return nil
	}

	m.record = record
	m.state = StateAuthenticated
	return nil
}

// Login stores a freshly issued token. The expiry is always decoded from the
// token's own exp claim so the client can never drift from the server's
// lifetime, and is never recomputed locally.
func (m *Manager) Login(token string, role rbac.Role) error {
	expiresAt, err := TokenExpiry(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record := Record{Token: token, Role: role, ExpiresAt: expiresAt}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := m.store.Save(data); err != nil {
		return err
	}
	m.record = record
	m.state = StateAuthenticated
	return nil
}

// Logout discards the persisted record unconditionally.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discardLocked()
}

// Invalidate tears the session down after the server rejected a request as
// unauthorized. It shares Logout's discard path and is equally idempotent.
func (m *Manager) Invalidate() {
	m.Logout()
}

// State returns the current lifecycle state, demoting to StateAnonymous when
// the loaded record expired since the last check.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated && !m.record.ExpiresAt.After(m.now()) {
		m.discardLocked()
	}
	return m.state
}

// Token returns the current token when a live session exists.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || !m.record.ExpiresAt.After(m.now()) {
		return "", false
	}
	return m.record.Token, true
}

// Role returns the role of the live session, or empty.
func (m *Manager) Role() rbac.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return ""
	}
	return m.record.Role
}

// CanAccess mirrors a server-side allow-list for navigation decisions only.
// The server's access guard remains the security boundary.
func (m *Manager) CanAccess(roles ...rbac.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if role == m.record.Role {
			return true
		}
	}
	return false
}

func (m *Manager) discardLocked() {
	_ = m.store.Clear()
	m.record = Record{}
	m.state = StateAnonymous
}

// TokenExpiry decodes the exp claim without verifying the signature; the
// client does not hold the signing secret and only needs the lifetime.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("session: parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("session: token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
