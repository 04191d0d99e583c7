// Package firestoredb implements the repository interfaces on top of the
// hosted Firestore document store.
package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/campushq/eventdesk/config"
)

const (
	peopleCollection   = "people"
	eventsCollection   = "events"
	invoicesCollection = "invoices"
	usersCollection    = "users"
)

// Client wraps the Firebase app and its Firestore client.
type Client struct {
	app    *firebase.App
	fs     *firestore.Client
	logger *zap.Logger
}

// NewClient initializes the Firebase app and opens a Firestore client.
// With no credentials file configured, application default credentials are
// used.
func NewClient(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore client: %w", err)
	}

	logger.Info("firestore client initialized", zap.String("project_id", cfg.ProjectID))

	return &Client{
		app:    app,
		fs:     fs,
		logger: logger,
	}, nil
}

// Firestore exposes the underlying Firestore client.
func (c *Client) Firestore() *firestore.Client {
	return c.fs
}

// Auth returns the Firebase Auth client for the same app.
func (c *Client) Auth(ctx context.Context) (*fbauth.Client, error) {
	return c.app.Auth(ctx)
}

// Ping verifies the store is reachable by listing collections.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fs.Collections(ctx).Next()
	if err != nil && err != iterator.Done {
		return fmt.Errorf("firestore unreachable: %w", err)
	}
	return nil
}

// Close releases the Firestore connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

// isNotFound reports whether the store error means the document is missing.
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
