package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services"
)

// UserRepository persists application user profiles. The document id is
// the authentication provider's uid, so profile lookups never need a
// query.
type UserRepository struct {
	fs     *firestore.Client
	logger *zap.Logger
}

func NewUserRepository(client *Client, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		fs:     client.Firestore(),
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return services.ErrInvalidInput.WithDetail("field", "id")
	}

	_, err := r.fs.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug("user created",
		zap.String("id", user.ID),
		zap.String("role", string(user.Role)))
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.fs.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, services.ErrUserNotFound.WithDetail("id", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}
