package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence for named integer settings. Both operations
// are single-statement upserts so concurrent writers cannot lose updates;
// last writer wins.
type Repository interface {
	// GetOrCreate returns the stored value, atomically materializing the
	// default when no row exists yet. It never reports "not found".
	GetOrCreate(ctx context.Context, key string, def int) (int, error)
	// Upsert creates or replaces the value and returns what was stored.
	Upsert(ctx context.Context, key string, value int) (int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetOrCreate lazily materializes the row with the default value. The no-op
// DO UPDATE keeps RETURNING usable for the pre-existing row.
func (r *PGRepository) GetOrCreate(ctx context.Context, key string, def int) (int, error) {
	var value int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO settings (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = settings.value
		 RETURNING value`,
		key, def,
	).Scan(&value)
	return value, err
}

// Upsert stores the value under key, replacing any previous one.
func (r *PGRepository) Upsert(ctx context.Context, key string, value int) (int, error) {
	var stored int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO settings (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING value`,
		key, value,
	).Scan(&stored)
	return stored, err
}

var _ Repository = (*PGRepository)(nil)
