package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/rbac"
	"github.com/campushq/eventdesk/services"
)

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// MockUserLoader is a mock implementation of UserLoader
type MockUserLoader struct {
	mock.Mock
}

func (m *MockUserLoader) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestRequireAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid token resolves principal and allows request", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mockUsers := new(MockUserLoader)
		middleware := NewAuthMiddleware(mockVerifier, mockUsers, logger)

		user := &models.User{
			ID:          "uid-123",
			Email:       "organizer@example.com",
			Role:        rbac.RoleEventOrganizer,
			DisplayName: "Pat Organizer",
		}

		mockVerifier.On("VerifyToken", mock.Anything, "valid-token").Return("uid-123", nil)
		mockUsers.On("GetByID", mock.Anything, "uid-123").Return(user, nil)

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipalFromContext(r.Context())
			assert.NotNil(t, principal)
			assert.Equal(t, "uid-123", principal.UserID)
			assert.Equal(t, "organizer@example.com", principal.Email)
			assert.Equal(t, rbac.RoleEventOrganizer, principal.Role)
			assert.Equal(t, "Pat Organizer", principal.DisplayName)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVerifier.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mockUsers := new(MockUserLoader)
		middleware := NewAuthMiddleware(mockVerifier, mockUsers, logger)

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertNotCalled(t, "VerifyToken")
	})

	t.Run("invalid authorization header format returns 401", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mockUsers := new(MockUserLoader)
		middleware := NewAuthMiddleware(mockVerifier, mockUsers, logger)

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "InvalidFormat")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertNotCalled(t, "VerifyToken")
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mockUsers := new(MockUserLoader)
		middleware := NewAuthMiddleware(mockVerifier, mockUsers, logger)

		mockVerifier.On("VerifyToken", mock.Anything, "invalid-token").
			Return("", errors.New("token verification failed"))

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVerifier.AssertExpectations(t)
		mockUsers.AssertNotCalled(t, "GetByID")
	})

	t.Run("authenticated user without profile returns 403", func(t *testing.T) {
		mockVerifier := new(MockTokenVerifier)
		mockUsers := new(MockUserLoader)
		middleware := NewAuthMiddleware(mockVerifier, mockUsers, logger)

		mockVerifier.On("VerifyToken", mock.Anything, "orphan-token").Return("uid-orphan", nil)
		mockUsers.On("GetByID", mock.Anything, "uid-orphan").
			Return(nil, services.ErrUserNotFound)

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer orphan-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockVerifier.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})
}

func TestRequireCapability(t *testing.T) {
	logger := zap.NewNop()

	newMiddleware := func() *AuthMiddleware {
		return NewAuthMiddleware(new(MockTokenVerifier), new(MockUserLoader), logger)
	}

	withPrincipal := func(req *http.Request, role rbac.Role) *http.Request {
		principal := &Principal{
			UserID: "uid-123",
			Email:  "user@example.com",
			Role:   role,
		}
		return req.WithContext(WithPrincipal(req.Context(), principal))
	}

	t.Run("role with capability allows request", func(t *testing.T) {
		middleware := newMiddleware()

		handler := middleware.RequireCapability(rbac.CapManagePeople)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/test", nil), rbac.RoleIT)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("any of several capabilities suffices", func(t *testing.T) {
		middleware := newMiddleware()

		handler := middleware.RequireCapability(rbac.CapManageFinance, rbac.CapViewReports)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/test", nil), rbac.RoleAdmin)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("role without capability returns 403", func(t *testing.T) {
		middleware := newMiddleware()

		handler := middleware.RequireCapability(rbac.CapManageFinance)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/test", nil), rbac.RoleRegistrar)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown role returns 403", func(t *testing.T) {
		middleware := newMiddleware()

		handler := middleware.RequireCapability(rbac.CapMarkAttendance)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

		req := withPrincipal(httptest.NewRequest(http.MethodGet, "/test", nil), rbac.Role("superadmin"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing principal in context returns 401", func(t *testing.T) {
		middleware := newMiddleware()

		handler := middleware.RequireCapability(rbac.CapCreateEvents)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
	}{
		{
			name:          "valid Bearer token",
			authHeader:    "Bearer valid-token-123",
			expectedToken: "valid-token-123",
		},
		{
			name:          "Bearer with lowercase",
			authHeader:    "bearer valid-token-123",
			expectedToken: "valid-token-123",
		},
		{
			name:          "missing header returns empty",
			expectedToken: "",
		},
		{
			name:          "no space returns empty",
			authHeader:    "Bearertoken",
			expectedToken: "",
		},
		{
			name:          "wrong prefix returns empty",
			authHeader:    "Basic token",
			expectedToken: "",
		},
		{
			name:          "empty Bearer token returns empty",
			authHeader:    "Bearer ",
			expectedToken: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			token := extractBearerToken(req)
			assert.Equal(t, tt.expectedToken, token)
		})
	}
}
