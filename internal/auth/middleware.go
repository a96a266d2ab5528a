package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

type contextKey struct{}

// ContextWithUser stores the authenticated principal in the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the principal set by the Authenticator middleware.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(contextKey{}).(*User)
	return user
}

// Middleware guards routes with bearer-token authentication.
type Middleware struct {
	service *Service
	tokens  *TokenIssuer
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(service *Service, tokens *TokenIssuer) *Middleware {
	return &Middleware{service: service, tokens: tokens}
}

// Authenticator validates the Authorization header and loads the user.
func (m *Middleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			httpx.RespondError(w, httpx.Errorf(httpx.ErrUnauthorized, "Could not validate credentials"))
			return
		}
		userID, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			httpx.RespondError(w, httpx.Errorf(httpx.ErrUnauthorized, "Could not validate credentials"))
			return
		}
		user, err := m.service.CurrentUser(r.Context(), userID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireAdmin rejects requests whose principal lacks the ADMIN role.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if !user.IsAdmin() {
			httpx.RespondError(w, httpx.Errorf(httpx.ErrForbidden,
				"Admin privileges required. Only admins can perform this action."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
