package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type memoryRepo struct {
	users  map[string]auth.User
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]auth.User)}
}

func (r *memoryRepo) List(ctx context.Context) ([]auth.User, error) {
	var out []auth.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, user auth.User) (auth.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return auth.User{}, httpx.Errorf(httpx.ErrValidation, "Email already registered")
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) Update(ctx context.Context, id, name string, role auth.Role) (auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return auth.User{}, httpx.ErrNotFound
	}
	u.Name = name
	u.Role = role
	r.users[id] = u
	return u, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepo) SetApproved(ctx context.Context, id string, approved bool) (auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return auth.User{}, httpx.ErrNotFound
	}
	u.IsApproved = approved
	r.users[id] = u
	return u, nil
}

func TestCreateIsAutoApproved(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "Dana", "dana@example.com", "secret", auth.RoleStaff)
	require.NoError(t, err)
	require.True(t, created.IsApproved)
	require.NotEmpty(t, created.PasswordHash)

	_, err = svc.Create(ctx, "Dana Two", "dana@example.com", "secret", auth.RoleStaff)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Email already registered", err.Error())
}

func TestSelfTargetingGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	admin, err := svc.Create(ctx, "Admin", "admin@example.com", "secret", auth.RoleAdmin)
	require.NoError(t, err)
	staff, err := svc.Create(ctx, "Staff", "staff@example.com", "secret", auth.RoleStaff)
	require.NoError(t, err)

	err = svc.Delete(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Cannot delete yourself", err.Error())

	_, err = svc.Disapprove(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Cannot disapprove yourself", err.Error())

	locked, err := svc.Disapprove(ctx, admin.ID, staff.ID)
	require.NoError(t, err)
	require.False(t, locked.IsApproved)

	unlocked, err := svc.Approve(ctx, staff.ID)
	require.NoError(t, err)
	require.True(t, unlocked.IsApproved)

	require.NoError(t, svc.Delete(ctx, admin.ID, staff.ID))
}
