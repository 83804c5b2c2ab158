package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/inventox/inventox/internal/settings"
	"github.com/inventox/inventox/internal/shared"
)

const bcryptCost = 10

// SettingsReader exposes the current session timeout. The value is read from
// storage on every login; caching it here would serve stale lifetimes after an
// admin changes the setting.
type SettingsReader interface {
	SessionTimeout(ctx context.Context) (int, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	settings SettingsReader
	issuer   *Issuer
	throttle *LoginThrottle
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new Service. throttle may be nil.
func NewService(repo Repository, settingsReader SettingsReader, issuer *Issuer, throttle *LoginThrottle, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		settings: settingsReader,
		issuer:   issuer,
		throttle: throttle,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginInput carries login credentials plus request metadata for auditing.
type LoginInput struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// Login validates credentials and mints a token whose expiry is now plus the
// session timeout read from settings at this very call. Unknown username,
// inactive account and wrong password all return the identical
// shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if !s.throttle.Allow(ctx, in.Username) {
		return nil, shared.ErrThrottled
	}

	account, err := s.repo.FindActiveByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("login lookup", slog.Any("error", err))
		}
		s.throttle.RecordFailure(ctx, in.Username)
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		s.throttle.RecordFailure(ctx, in.Username)
		return nil, shared.ErrInvalidCredentials
	}
	s.throttle.Reset(ctx, in.Username)

	minutes, err := s.settings.SessionTimeout(ctx)
	if err != nil {
		// Fall back to the documented default rather than refusing every login
		// or minting an unbounded token.
		s.logger.Warn("read session timeout", slog.Any("error", err))
		minutes = settings.DefaultSessionTimeoutMinutes
	}
	expiresAt := s.now().Add(time.Duration(minutes) * time.Minute)

	token, jti, err := s.issuer.Issue(account.ID, account.Role, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSession(ctx, jti, account.ID, expiresAt, in.IP, in.UserAgent); err != nil {
		s.logger.Warn("register session", slog.Any("error", err))
	}

	return &LoginResult{Token: token, Role: account.Role, ExpiresAt: expiresAt}, nil
}

// ChangePassword replaces the caller's credential after re-checking the
// current one. The caller must already be authenticated as userID; the access
// guard enforces that at the boundary.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return shared.ErrInvalidInput
	}
	account, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return shared.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, userID, string(hash))
}

// PurgeExpiredSessions deletes session audit rows whose expiry passed.
func (s *Service) PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, before)
}
