package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

const bcryptCost = 10

// Service handles account directory business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted at account creation.
type CreateInput struct {
	Username    string
	Password    string
	Role        rbac.Role
	Name        string
	EmployeeID  string
	Designation string
	Department  string
	Photo       string
	Phone       string
}

// Create hashes the password server-side and stores a new active account.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if in.Username == "" || in.Password == "" || !in.Role.Valid() {
		return nil, shared.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		Name:         in.Name,
		EmployeeID:   in.EmployeeID,
		Designation:  in.Designation,
		Department:   in.Department,
		Photo:        in.Photo,
		Phone:        in.Phone,
	})
}

// List returns every account except SUPER_ADMIN rows.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx, rbac.RoleSuperAdmin)
}

// UpdateInput carries a partial account update; nil fields are left untouched.
// An empty Password means "keep the current credential".
type UpdateInput struct {
	Password    *string
	Role        *rbac.Role
	Name        *string
	EmployeeID  *string
	Designation *string
	Department  *string
	Photo       *string
	Phone       *string
}

// Update applies the provided fields to an existing account, re-hashing the
// password only when a non-empty one is supplied.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, shared.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.EmployeeID != nil {
		user.EmployeeID = *in.EmployeeID
	}
	if in.Designation != nil {
		user.Designation = *in.Designation
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.Photo != nil {
		user.Photo = *in.Photo
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	return s.repo.Update(ctx, *user)
}

// Enable reactivates an account so it may authenticate again.
func (s *Service) Enable(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}

// Disable blocks future logins. Tokens already issued to the account stay
// valid until they expire.
func (s *Service) Disable(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

// Delete removes the account record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
