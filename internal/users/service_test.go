package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inventox/inventox/internal/rbac"
	"github.com/inventox/inventox/internal/shared"
)

type memRepo struct {
	nextID int64
	byID   map[int64]User
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, byID: make(map[int64]User)}
}

func (r *memRepo) Create(ctx context.Context, user User) (*User, error) {
	for _, existing := range r.byID {
		if existing.Username == user.Username {
			return nil, shared.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user
	return &user, nil
}

func (r *memRepo) List(ctx context.Context, excludeRole rbac.Role) ([]User, error) {
	var list []User
	for id := int64(1); id < r.nextID; id++ {
		user, ok := r.byID[id]
		if !ok || user.Role == excludeRole {
			continue
		}
		list = append(list, user)
	}
	return list, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &user, nil
}

func (r *memRepo) Update(ctx context.Context, user User) (*User, error) {
	if _, ok := r.byID[user.ID]; !ok {
		return nil, shared.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.byID[user.ID] = user
	return &user, nil
}

func (r *memRepo) SetActive(ctx context.Context, id int64, active bool) error {
	user, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.IsActive = active
	r.byID[id] = user
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ RepositoryPort = (*memRepo)(nil)

func TestCreateHashesPasswordAndActivates(t *testing.T) {
	service := NewService(newMemRepo())

	user, err := service.Create(context.Background(), CreateInput{
		Username: "jdoe",
		Password: "secret123",
		Role:     rbac.RoleStaff,
		Name:     "J. Doe",
	})
	require.NoError(t, err)
	require.True(t, user.IsActive)
	require.NotEqual(t, "secret123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestCreateValidation(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	cases := []CreateInput{
		{Username: "", Password: "x", Role: rbac.RoleStaff},
		{Username: "x", Password: "", Role: rbac.RoleStaff},
		{Username: "x", Password: "x", Role: rbac.Role("OWNER")},
	}
	for _, in := range cases {
		_, err := service.Create(ctx, in)
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, CreateInput{Username: "jdoe", Password: "x", Role: rbac.RoleStaff})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{Username: "jdoe", Password: "y", Role: rbac.RoleViewer})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestListExcludesSuperAdmins(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateInput{Username: "root", Password: "x", Role: rbac.RoleSuperAdmin})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{Username: "staffer", Password: "x", Role: rbac.RoleStaff})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateInput{Username: "watcher", Password: "x", Role: rbac.RoleViewer})
	require.NoError(t, err)

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		require.NotEqual(t, rbac.RoleSuperAdmin, u.Role)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{
		Username: "jdoe", Password: "secret123", Role: rbac.RoleStaff, Name: "J. Doe",
	})
	require.NoError(t, err)

	newName := "Jane Doe"
	newRole := rbac.RoleAdmin
	updated, err := service.Update(ctx, created.ID, UpdateInput{Name: &newName, Role: &newRole})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", updated.Name)
	require.Equal(t, rbac.RoleAdmin, updated.Role)
	require.Equal(t, "jdoe", updated.Username)
	// Untouched password still matches.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("secret123")))
}

func TestUpdateEmptyPasswordKeepsCredential(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{Username: "jdoe", Password: "secret123", Role: rbac.RoleStaff})
	require.NoError(t, err)

	empty := ""
	updated, err := service.Update(ctx, created.ID, UpdateInput{Password: &empty})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("secret123")))

	replacement := "changed456"
	updated, err = service.Update(ctx, created.ID, UpdateInput{Password: &replacement})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("changed456")))
}

func TestUpdateRejectsInvalidRole(t *testing.T) {
	service := NewService(newMemRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{Username: "jdoe", Password: "x", Role: rbac.RoleStaff})
	require.NoError(t, err)

	bad := rbac.Role("OWNER")
	_, err = service.Update(ctx, created.ID, UpdateInput{Role: &bad})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEnableDisableDelete(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{Username: "jdoe", Password: "x", Role: rbac.RoleStaff})
	require.NoError(t, err)

	require.NoError(t, service.Disable(ctx, created.ID))
	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	require.NoError(t, service.Enable(ctx, created.ID))
	stored, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)

	require.NoError(t, service.Delete(ctx, created.ID))
	require.ErrorIs(t, service.Delete(ctx, created.ID), shared.ErrNotFound)
	require.ErrorIs(t, service.Disable(ctx, created.ID), shared.ErrNotFound)
}
