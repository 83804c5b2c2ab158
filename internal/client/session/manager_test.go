package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/inventox/inventox/internal/rbac"
)

type memStore struct {
	data   []byte
	has    bool
	clears int
}

func (s *memStore) Load() ([]byte, error) {
	if !s.has {
		return nil, ErrNoRecord
	}
	return s.data, nil
}

func (s *memStore) Save(data []byte) error {
	s.data = data
	s.has = true
	return nil
}

func (s *memStore) Clear() error {
	s.data = nil
	s.has = false
	s.clears++
	return nil
}

func makeToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

func TestRestoreWithoutRecord(t *testing.T) {
	m := NewManager(&memStore{})
	require.Equal(t, StateUnknown, m.State())

	require.NoError(t, m.Restore())
	require.Equal(t, StateAnonymous, m.State())
	_, ok := m.Token()
	require.False(t, ok)
}

func TestRestoreLiveRecord(t *testing.T) {
	store := &memStore{}
	record := Record{Token: "tok", Role: rbac.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, store.Save(data))

	m := NewManager(store)
	require.NoError(t, m.Restore())
	require.Equal(t, StateAuthenticated, m.State())
	require.Equal(t, rbac.RoleAdmin, m.Role())

	token, ok := m.Token()
	require.True(t, ok)
	require.Equal(t, "tok", token)
}

func TestRestoreDiscardsExpiredRecord(t *testing.T) {
	store := &memStore{}
	record := Record{Token: "tok", Role: rbac.RoleAdmin, ExpiresAt: time.Now().Add(-time.Minute)}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, store.Save(data))

	m := NewManager(store)
	require.NoError(t, m.Restore())
	require.Equal(t, StateAnonymous, m.State())
	require.False(t, store.has)
}

func TestRestoreDiscardsCorruptRecord(t *testing.T) {
	store := &memStore{}
	require.NoError(t, store.Save([]byte("{not json")))

	m := NewManager(store)
	require.NoError(t, m.Restore())
	require.Equal(t, StateAnonymous, m.State())
	require.False(t, store.has)
}

func TestLoginDerivesExpiryFromToken(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)

	expiresAt := time.Now().Add(45 * time.Minute)
	require.NoError(t, m.Login(makeToken(t, expiresAt), rbac.RoleSuperAdmin))
	require.Equal(t, StateAuthenticated, m.State())

	var persisted Record
	require.NoError(t, json.Unmarshal(store.data, &persisted))
	// The persisted expiry is the token's own exp claim, nothing recomputed.
	require.WithinDuration(t, expiresAt, persisted.ExpiresAt, time.Second)
	require.Equal(t, rbac.RoleSuperAdmin, persisted.Role)
}

func TestLoginRejectsTokenWithoutExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	m := NewManager(&memStore{})
	require.Error(t, m.Login(token, rbac.RoleStaff))
	_, ok := m.Token()
	require.False(t, ok)
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := &memStore{}
	m := NewManager(store)
	require.NoError(t, m.Login(makeToken(t, time.Now().Add(time.Hour)), rbac.RoleStaff))

	m.Logout()
	m.Logout()
	m.Invalidate()

	require.Equal(t, StateAnonymous, m.State())
	require.False(t, store.has)
	_, ok := m.Token()
	require.False(t, ok)
}

func TestStateDemotesWhenRecordExpires(t *testing.T) {
	store := &memStore{}
	record := Record{Token: "tok", Role: rbac.RoleStaff, ExpiresAt: time.Now().Add(30 * time.Millisecond)}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, store.Save(data))

	m := NewManager(store)
	require.NoError(t, m.Restore())
	require.Equal(t, StateAuthenticated, m.State())

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateAnonymous, m.State())
	require.False(t, store.has)
}

func TestCanAccess(t *testing.T) {
	m := NewManager(&memStore{})
	require.False(t, m.CanAccess(rbac.RoleViewer))

	require.NoError(t, m.Login(makeToken(t, time.Now().Add(time.Hour)), rbac.RoleStaff))
	require.True(t, m.CanAccess())
	require.True(t, m.CanAccess(rbac.RoleStaff))
	require.True(t, m.CanAccess(rbac.RoleAdmin, rbac.RoleStaff))
	require.False(t, m.CanAccess(rbac.RoleSuperAdmin))

	m.Logout()
	require.False(t, m.CanAccess(rbac.RoleStaff))
}
