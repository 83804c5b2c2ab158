package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret")
	expiresAt := time.Now().Add(30 * time.Minute)

	token, jti, err := issuer.Issue(42, rbac.RoleAdmin, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	principal, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), principal.UserID)
	require.Equal(t, rbac.RoleAdmin, principal.Role)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, jti, claims.ID)
	// NumericDate truncates sub-second precision.
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	token, _, err := issuer.Issue(1, rbac.RoleSuperAdmin, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	other := NewIssuer("other-secret")

	token, _, err := other.Issue(1, rbac.RoleStaff, time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		if !errors.Is(err, shared.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}
