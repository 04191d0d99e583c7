package authn

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/services"
)

// Authenticator wraps the Firebase Auth admin client behind domain
// errors, so callers never see provider error codes.
type Authenticator struct {
	client *fbauth.Client
	logger *zap.Logger
}

func NewAuthenticator(client *fbauth.Client, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		client: client,
		logger: logger,
	}
}

// VerifyToken verifies an ID token and returns the provider uid.
func (a *Authenticator) VerifyToken(ctx context.Context, token string) (string, error) {
	decoded, err := a.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", services.ErrInvalidToken.Wrap(err)
	}
	return decoded.UID, nil
}

// CreateUser provisions a credential for the given email and password
// and returns the new uid.
func (a *Authenticator) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", services.ErrEmailTaken.WithDetail("email", email)
		}
		return "", fmt.Errorf("failed to create credential: %w", err)
	}

	a.logger.Info("credential created",
		zap.String("uid", record.UID),
		zap.String("email", email))
	return record.UID, nil
}

// DeleteUser removes a credential. Used to roll back a registration
// whose profile write failed.
func (a *Authenticator) DeleteUser(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// PasswordResetLink generates a password reset link for the email.
func (a *Authenticator) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := a.client.PasswordResetLink(ctx, email)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return "", services.ErrUserNotFound.WithDetail("email", email)
		}
		return "", fmt.Errorf("failed to generate reset link: %w", err)
	}
	return link, nil
}
