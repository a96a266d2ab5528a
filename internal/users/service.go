package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Service handles user administration. All operations are admin-only;
// the role check happens in middleware, self-targeting checks happen here.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all users, newest first.
func (s *Service) List(ctx context.Context) ([]auth.User, error) {
	return s.repo.List(ctx)
}

// Create adds a user on behalf of an admin. Unlike self-service signup
// the account is approved immediately.
func (s *Service) Create(ctx context.Context, name, email, password string, role auth.Role) (auth.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return auth.User{}, httpx.Errorf(httpx.ErrValidation, "name, email and password are required")
	}
	if role != auth.RoleAdmin && role != auth.RoleStaff {
		role = auth.RoleStaff
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, err
	}
	return s.repo.Create(ctx, auth.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsApproved:   true,
	})
}

// Update changes a user's name and role.
func (s *Service) Update(ctx context.Context, id, name string, role auth.Role) (auth.User, error) {
	if role != auth.RoleAdmin && role != auth.RoleStaff {
		return auth.User{}, httpx.Errorf(httpx.ErrValidation, "role must be ADMIN or STAFF")
	}
	return s.repo.Update(ctx, id, name, role)
}

// Delete removes a user. Admins cannot remove their own account.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if id == actorID {
		return httpx.Errorf(httpx.ErrValidation, "Cannot delete yourself")
	}
	return s.repo.Delete(ctx, id)
}

// Approve unlocks a pending account so its owner can log in.
func (s *Service) Approve(ctx context.Context, id string) (auth.User, error) {
	return s.repo.SetApproved(ctx, id, true)
}

// Disapprove revokes an account's approval. Admins cannot lock themselves out.
func (s *Service) Disapprove(ctx context.Context, actorID, id string) (auth.User, error) {
	if id == actorID {
		return auth.User{}, httpx.Errorf(httpx.ErrValidation, "Cannot disapprove yourself")
	}
	return s.repo.SetApproved(ctx, id, false)
}
