// Package settings holds persisted key/value configuration. The single
// tunable today is the session timeout consumed by the credential issuer.
package settings

import (
	"context"

	"github.com/inventox/inventox/internal/shared"
)

const (
	// SessionTimeoutKey names the session timeout setting row.
	SessionTimeoutKey = "sessionTimeout"
	// DefaultSessionTimeoutMinutes applies when no row has been stored yet.
	DefaultSessionTimeoutMinutes = 15
)

// Service exposes session timeout reads and writes. No value is cached in
// process: every read hits storage so a changed timeout is visible to the
// next login immediately.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SessionTimeout returns the configured timeout in minutes, materializing the
// default on first read.
func (s *Service) SessionTimeout(ctx context.Context) (int, error) {
	return s.repo.GetOrCreate(ctx, SessionTimeoutKey, DefaultSessionTimeoutMinutes)
}

// SetSessionTimeout stores a new timeout. Values below one minute are
// rejected. Already-issued tokens keep their original expiry.
func (s *Service) SetSessionTimeout(ctx context.Context, minutes int) (int, error) {
	if minutes < 1 {
		return 0, shared.ErrInvalidInput
	}
	return s.repo.Upsert(ctx, SessionTimeoutKey, minutes)
}
