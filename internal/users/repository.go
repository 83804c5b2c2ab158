package users

import (
	"context"

	"github.com/inventox/inventox/internal/rbac"
)

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	Create(ctx context.Context, user User) (*User, error)
	List(ctx context.Context, excludeRole rbac.Role) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, user User) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
