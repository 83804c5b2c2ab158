package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindActiveByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindActiveByUsername fetches an active account by username. An inactive or
// missing account is the same shared.ErrNotFound; the distinction never leaves
// the storage layer.
func (r *PGRepository) FindActiveByUsername(ctx context.Context, username string) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active FROM users WHERE username = $1 AND is_active`, username)
	return scanAccount(row)
}

// FindByID fetches an account by primary key regardless of activation.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active FROM users WHERE id = $1`, id)
	return scanAccount(row)
}

// UpdatePasswordHash replaces the stored credential hash.
func (r *PGRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateSession records an issued token for auditing. The access guard never
// reads these rows.
func (r *PGRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at, ip, ua) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID,
		pgtype.Timestamptz{Time: now, Valid: true},
		pgtype.Timestamptz{Time: expiresAt.UTC(), Valid: true},
		pgtype.Text{String: ip, Valid: ip != ""},
		pgtype.Text{String: ua, Valid: ua != ""},
	)
	return err
}

// DeleteExpiredSessions removes audit rows whose tokens can no longer be used.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var account Account
	var role string
	if err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &role, &account.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	account.Role = rbac.Role(role)
	return &account, nil
}

var _ Repository = (*PGRepository)(nil)
