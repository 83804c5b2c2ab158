package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

const uniqueViolation = "23505"

const userColumns = `id, username, password_hash, role, is_active, name, employee_id, designation, department, photo, phone, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new account. A taken username maps to shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user User) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role, is_active, name, employee_id, designation, department, photo, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+userColumns,
		user.Username, user.PasswordHash, string(user.Role), user.IsActive,
		user.Name, user.EmployeeID, user.Designation, user.Department, user.Photo, user.Phone,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// List returns all accounts except those holding excludeRole.
func (r *Repository) List(ctx context.Context, excludeRole rbac.Role) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role <> $1 ORDER BY id`, string(excludeRole))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *user)
	}
	return list, rows.Err()
}

// FindByID fetches a single account.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Update replaces the mutable columns of an account.
func (r *Repository) Update(ctx context.Context, user User) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET password_hash = $2, role = $3, is_active = $4, name = $5, employee_id = $6,
		     designation = $7, department = $8, photo = $9, phone = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.PasswordHash, string(user.Role), user.IsActive,
		user.Name, user.EmployeeID, user.Designation, user.Department, user.Photo, user.Phone,
	)
	return scanUser(row)
}

// SetActive flips the activation flag without touching anything else.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an account permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var role string
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &role, &user.IsActive,
		&user.Name, &user.EmployeeID, &user.Designation, &user.Department,
		&user.Photo, &user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role = rbac.Role(role)
	return &user, nil
}

var _ RepositoryPort = (*Repository)(nil)
