package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// OTPStore abstracts the one-time-password storage used by the reset flow.
type OTPStore interface {
	Put(ctx context.Context, email, otp string) error
	Consume(ctx context.Context, email, otp string) (bool, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
	otps   OTPStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, otps OTPStore) *Service {
	return &Service{repo: repo, tokens: tokens, otps: otps}
}

// LoginResult carries the issued token plus the authenticated principal.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// Authenticate validates email/password credentials and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, httpx.Errorf(httpx.ErrUnauthorized, "Incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httpx.Errorf(httpx.ErrUnauthorized, "Incorrect email or password")
	}
	if !user.IsApproved {
		return nil, httpx.Errorf(httpx.ErrForbidden, "Your account is pending approval. Please contact an administrator.")
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Signup registers a new STAFF account pending admin approval.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, httpx.Errorf(httpx.ErrValidation, "Email already registered")
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleStaff,
		IsApproved:   false,
	})
}

// CurrentUser loads the principal behind a verified token subject.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, httpx.Errorf(httpx.ErrUnauthorized, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset generates an OTP for the account. The OTP is returned
// so the caller can hand it to the mail job; unknown emails return ErrNotFound.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return "", err
	}
	otp, err := GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("auth: generate otp: %w", err)
	}
	if err := s.otps.Put(ctx, email, otp); err != nil {
		return "", fmt.Errorf("auth: store otp: %w", err)
	}
	return otp, nil
}

// ResetPassword verifies the OTP and replaces the account password.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	ok, err := s.otps.Consume(ctx, email, otp)
	if err != nil {
		return fmt.Errorf("auth: verify otp: %w", err)
	}
	if !ok {
		return httpx.Errorf(httpx.ErrValidation, "Invalid or expired OTP")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, email, string(hash))
}
