package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

// Issuer mints and verifies HS256 signed tokens. Tokens are opaque to every
// other component; they are never mutated, only reissued.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer constructs an Issuer with the given signing secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue mints a token for the account with the given absolute expiry.
// It returns the signed token and its unique jti.
func (i *Issuer) Issue(userID int64, role rbac.Role, expiresAt time.Time) (string, string, error) {
	jti := uuid.NewString()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, jti, nil
}

// Parse verifies signature and expiry and returns the decoded claims. Expired
// and tampered tokens both collapse into shared.ErrUnauthenticated.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, shared.ErrUnauthenticated
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", shared.ErrUnauthenticated)
	}
	return claims, nil
}

// Verify implements rbac.TokenVerifier.
func (i *Issuer) Verify(tokenString string) (rbac.Principal, error) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return rbac.Principal{}, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return rbac.Principal{}, fmt.Errorf("%w: bad subject", shared.ErrUnauthenticated)
	}
	return rbac.Principal{UserID: userID, Role: claims.Role}, nil
}

var _ rbac.TokenVerifier = (*Issuer)(nil)
