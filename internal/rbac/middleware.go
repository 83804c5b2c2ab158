package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inventox/inventox/internal/platform/httpx"
	"github.com/inventox/inventox/internal/shared"
)

// TokenVerifier checks a bearer token's signature and expiry and resolves the
// principal embedded in it.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// Middleware wires bearer-token authentication and role allow-lists for HTTP
// handlers. It is stateless: the account directory is never consulted per
// request, so disabling an account takes effect once its tokens expire.
type Middleware struct {
	Verifier TokenVerifier
	Logger   *slog.Logger
}

// Authenticate rejects requests without a verifiable bearer token and attaches
// the principal to the request context. Missing, malformed, expired and
// tampered tokens are deliberately indistinguishable to the caller.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		principal, err := m.Verifier.Verify(token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token rejected", slog.Any("error", err))
			}
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAny ensures the authenticated principal's role is in the allow-list.
func (m Middleware) RequireAny(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[principal.Role]; !ok {
					httpx.RespondError(w, shared.ErrForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
