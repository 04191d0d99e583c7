package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/middleware"
	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/rbac"
	"github.com/campushq/eventdesk/services/users"
	"github.com/campushq/eventdesk/utils"
)

// RegisterUserRequest represents an account provisioning payload
type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
}

// RegisterUserResponse acknowledges a provisioned account
type RegisterUserResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

// SendEmailRequest represents a password reset mail request
type SendEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Role         rbac.Role         `json:"role"`
	DisplayName  string            `json:"displayName,omitempty"`
	Capabilities []rbac.Capability `json:"capabilities"`
}

// NavResponse carries the role-filtered navigation menu
type NavResponse struct {
	Role  rbac.Role      `json:"role"`
	Items []rbac.NavItem `json:"items"`
}

// UserService defines the interface for account operations
type UserService interface {
	Register(ctx context.Context, input users.RegisterInput) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// UserHandler handles account-related HTTP requests
type UserHandler struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// HandleRegister handles POST /register-user
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), users.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered via api",
		zap.String("uid", user.ID),
		zap.String("registered_by", principalID(r)))
	_ = utils.WriteJSON(w, http.StatusOK, RegisterUserResponse{Success: true, UserID: user.ID})
}

// HandleSendEmail handles POST /send-email
func (h *UserHandler) HandleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.service.SendPasswordReset(r.Context(), req.Email); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"status": "sent"})
}

// HandleMe handles GET /v1/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, MeResponse{
		ID:           principal.UserID,
		Email:        principal.Email,
		Role:         principal.Role,
		DisplayName:  principal.DisplayName,
		Capabilities: principal.Role.Capabilities(),
	})
}

// HandleNav handles GET /v1/nav
func (h *UserHandler) HandleNav(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, NavResponse{
		Role:  principal.Role,
		Items: rbac.VisibleNav(principal.Role),
	})
}
