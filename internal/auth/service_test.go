package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type memoryRepo struct {
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*User)}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryRepo) CreateUser(ctx context.Context, user User) (*User, error) {
	user.ID = "u-" + user.Email
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (r *memoryRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return httpx.ErrNotFound
}

type memoryOTPStore struct {
	otps map[string]string
}

func (s *memoryOTPStore) Put(ctx context.Context, email, otp string) error {
	s.otps[email] = otp
	return nil
}

func (s *memoryOTPStore) Consume(ctx context.Context, email, otp string) (bool, error) {
	stored, ok := s.otps[email]
	delete(s.otps, email)
	return ok && stored == otp, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, tokens, &memoryOTPStore{otps: map[string]string{}}), repo
}

func seedUser(t *testing.T, repo *memoryRepo, email, password string, role Role, approved bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), User{
		Name:         "Test",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsApproved:   approved,
	})
	require.NoError(t, err)
	return user
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "admin@example.com", "secret-pass", RoleAdmin, true)

	result, err := svc.Authenticate(context.Background(), "admin@example.com", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, "bearer", result.TokenType)
	require.NotEmpty(t, result.AccessToken)
	require.True(t, result.User.IsAdmin())

	_, err = svc.Authenticate(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.Equal(t, "Incorrect email or password", err.Error())

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret-pass")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestAuthenticateUnapproved(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "new@example.com", "secret-pass", RoleStaff, false)

	_, err := svc.Authenticate(context.Background(), "new@example.com", "secret-pass")
	require.ErrorIs(t, err, httpx.ErrForbidden)
	require.Equal(t, "Your account is pending approval. Please contact an administrator.", err.Error())
}

func TestSignup(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Signup(context.Background(), "New User", "new@example.com", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, RoleStaff, user.Role)
	require.False(t, user.IsApproved)

	_, err = svc.Signup(context.Background(), "New User", "new@example.com", "secret-pass")
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, "Email already registered", err.Error())
}

func TestTokenRoundTrip(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, repo, "admin@example.com", "secret-pass", RoleAdmin, true)

	result, err := svc.Authenticate(context.Background(), "admin@example.com", "secret-pass")
	require.NoError(t, err)

	tokens := NewTokenIssuer("test-secret", time.Hour)
	subject, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)

	_, err = NewTokenIssuer("other-secret", time.Hour).Verify(result.AccessToken)
	require.Error(t, err)
}

func TestPasswordReset(t *testing.T) {
	svc, repo := newTestService(t)
	seedUser(t, repo, "staff@example.com", "old-password", RoleStaff, true)

	otp, err := svc.RequestPasswordReset(context.Background(), "staff@example.com")
	require.NoError(t, err)
	require.Len(t, otp, 6)

	err = svc.ResetPassword(context.Background(), "staff@example.com", "000000", "new-password-1")
	require.ErrorIs(t, err, httpx.ErrValidation)

	// The failed attempt consumed the stored OTP, so a fresh one is needed.
	otp, err = svc.RequestPasswordReset(context.Background(), "staff@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(context.Background(), "staff@example.com", otp, "new-password-1"))

	_, err = svc.Authenticate(context.Background(), "staff@example.com", "new-password-1")
	require.NoError(t, err)
}
