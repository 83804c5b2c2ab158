package users

import (
	"time"

	"github.com/inventox/inventox/internal/rbac"
)

// User represents a managed account. PasswordHash never leaves the package
// boundary; handler DTOs omit it.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         rbac.Role
	IsActive     bool
	Name         string
	EmployeeID   string
	Designation  string
	Department   string
	Photo        string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
