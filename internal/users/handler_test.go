package users

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

type stubVerifier map[string]rbac.Principal

func (v stubVerifier) Verify(token string) (rbac.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return rbac.Principal{}, shared.ErrUnauthenticated
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	guard := rbac.Middleware{Verifier: stubVerifier{
		"super": {UserID: 1, Role: rbac.RoleSuperAdmin},
		"admin": {UserID: 2, Role: rbac.RoleAdmin},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(newMemRepo()), guard)
	r := chi.NewRouter()
	r.Route("/users", handler.MountRoutes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUserRoutesRequireSuperAdmin(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/users/", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// ADMIN is not enough; the directory is SUPER_ADMIN only.
	rec = doRequest(t, router, http.MethodGet, "/users/", "admin", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/users/", "super", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/users/", "super",
		`{"username":"jdoe","password":"secret123","role":"STAFF","name":"J. Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "jdoe", resp["username"])
	require.Equal(t, "STAFF", resp["role"])
	require.Equal(t, true, resp["isActive"])
	// The credential never leaves the server in any spelling.
	require.NotContains(t, strings.ToLower(rec.Body.String()), "password")

	rec = doRequest(t, router, http.MethodPost, "/users/", "super",
		`{"username":"jdoe","password":"other","role":"VIEWER"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var msg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	require.Equal(t, "User exists", msg["msg"])
}

func TestCreateUserEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		body string
		want string
	}{
		{`{"username":"","password":"x","role":"STAFF"}`, "All fields required"},
		{`{"username":"x","password":"","role":"STAFF"}`, "All fields required"},
		{`{"username":"x","password":"x","role":"BOSS"}`, "Invalid role"},
		{`not json`, "All fields required"},
	}
	for _, tc := range cases {
		rec := doRequest(t, router, http.MethodPost, "/users/", "super", tc.body)
		require.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		var msg map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg), tc.body)
		require.Equal(t, tc.want, msg["msg"], tc.body)
	}
}

func TestUserLifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/users/", "super",
		`{"username":"jdoe","password":"secret123","role":"STAFF"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := int64(created["id"].(float64))
	idPath := "/users/" + strconv.FormatInt(id, 10)

	rec = doRequest(t, router, http.MethodPatch, idPath, "super", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Jane Doe", updated["name"])

	rec = doRequest(t, router, http.MethodPatch, idPath+"/disable", "super", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"msg":"User disabled"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPatch, idPath+"/enable", "super", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"msg":"User enabled"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, idPath, "super", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"msg":"User deleted"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, idPath, "super", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownUserIDs(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/users/999", "/users/abc"} {
		rec := doRequest(t, router, http.MethodDelete, path, "super", "")
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
