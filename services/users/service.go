package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/email"
	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/rbac"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

const minPasswordLength = 6

// emailSendTimeout bounds the detached goroutine that delivers reset
// mail after the request has already been answered.
const emailSendTimeout = 30 * time.Second

// CredentialService is the slice of the auth provider the user service
// needs: provisioning credentials and minting reset links.
type CredentialService interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// RegisterInput carries the fields accepted when provisioning an
// account.
type RegisterInput struct {
	Email       string
	Password    string
	Role        string
	DisplayName string
}

// UserService provisions accounts and handles password reset mail.
type UserService struct {
	userRepo    repositories.UserRepository
	credentials CredentialService
	mailer      email.Service
	limiter     *resetLimiter
	logger      *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(
	userRepo repositories.UserRepository,
	credentials CredentialService,
	mailer email.Service,
	resetMax int,
	resetWindow time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		credentials: credentials,
		mailer:      mailer,
		limiter:     newResetLimiter(resetMax, resetWindow),
		logger:      logger,
	}
}

// Register provisions a credential and profile for a new account. The
// role must be one of the known roles; anything else is rejected before
// any credential is created. The new user receives a password reset
// email so they can choose their own password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	address := strings.TrimSpace(input.Email)
	if address == "" {
		return nil, services.ErrMissingEmail
	}
	role, err := rbac.ParseRole(input.Role)
	if err != nil {
		return nil, services.ErrInvalidRole.WithDetail("role", input.Role)
	}
	if len(input.Password) < minPasswordLength {
		return nil, services.ErrWeakPassword.WithDetail("min_length", minPasswordLength)
	}

	uid, err := s.credentials.CreateUser(ctx, address, input.Password, input.DisplayName)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(uid, address, role, input.DisplayName)
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Roll back the credential so the email can be retried.
		if delErr := s.credentials.DeleteUser(ctx, uid); delErr != nil {
			s.logger.Error("failed to roll back credential",
				zap.String("uid", uid),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("uid", uid),
		zap.String("email", address),
		zap.String("role", string(role)))

	s.sendResetAsync(address)
	return user, nil
}

// SendPasswordReset mints a reset link for the address and emails it.
// Requests are throttled per address.
func (s *UserService) SendPasswordReset(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return services.ErrMissingEmail
	}
	if !s.limiter.Allow(address) {
		s.logger.Warn("password reset throttled", zap.String("email", address))
		return services.ErrResetRateLimited.WithDetail("email", address)
	}

	link, err := s.credentials.PasswordResetLink(ctx, address)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, address, link); err != nil {
		return err
	}

	s.logger.Info("password reset email sent", zap.String("email", address))
	return nil
}

// Get retrieves a user profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// sendResetAsync delivers the welcome reset email without blocking the
// registration response. Failures are logged; the account already
// exists and an admin can trigger another reset.
func (s *UserService) sendResetAsync(address string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()

		link, err := s.credentials.PasswordResetLink(ctx, address)
		if err != nil {
			s.logger.Error("failed to mint reset link for new user",
				zap.String("email", address),
				zap.Error(err))
			return
		}
		if err := s.mailer.SendPasswordReset(ctx, address, link); err != nil {
			s.logger.Error("failed to send welcome reset email",
				zap.String("email", address),
				zap.Error(err))
		}
	}()
}
