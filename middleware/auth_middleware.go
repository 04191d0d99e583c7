package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/rbac"
	"github.com/campushq/eventdesk/utils"
)

// TokenVerifier verifies a bearer token and returns the provider uid.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// UserLoader resolves a provider uid to the stored user profile.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware resolves the request principal from the bearer token
// and enforces capability checks on protected routes.
type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserLoader
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, users UserLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token. On
// success the resolved principal is attached to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		uid, err := m.verifier.VerifyToken(ctx, token)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		user, err := m.users.GetByID(ctx, uid)
		if err != nil {
			m.logger.Warn("no profile for authenticated user",
				zap.String("request_id", requestID),
				zap.String("uid", uid),
				zap.Error(err))
			_ = utils.WriteForbidden(w, "No user profile for this account")
			return
		}

		principal := &Principal{
			UserID:      user.ID,
			Email:       user.Email,
			Role:        user.Role,
			DisplayName: user.DisplayName,
		}
		ctx = WithPrincipal(ctx, principal)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("uid", uid),
			zap.String("role", string(user.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability is a middleware that requires the principal's role
// to hold at least one of the given capabilities. Unknown roles hold no
// capabilities, so they are always rejected.
func (m *AuthMiddleware) RequireCapability(caps ...rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			principal := GetPrincipalFromContext(ctx)
			if principal == nil {
				m.logger.Error("principal not found in context",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !principal.Role.CanAny(caps...) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("role", string(principal.Role)),
					zap.String("user_id", principal.UserID))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
