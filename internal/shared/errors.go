package shared

import "errors"

var (
	// ErrNotFound indicates the target record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown username, disabled
	// account and wrong password all surface this same error so callers cannot
	// probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput indicates a malformed or out-of-range request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated indicates a missing, malformed, expired or otherwise
	// unverifiable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid token whose role is not allow-listed.
	ErrForbidden = errors.New("forbidden")
	// ErrWrongPassword indicates the supplied current password does not match.
	ErrWrongPassword = errors.New("current password incorrect")
	// ErrDuplicate indicates a uniqueness violation, e.g. username taken.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrThrottled indicates too many failed login attempts for a username.
	ErrThrottled = errors.New("too many attempts")
)
