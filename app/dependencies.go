package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/authn"
	"github.com/campushq/eventdesk/config"
	"github.com/campushq/eventdesk/email"
	"github.com/campushq/eventdesk/handlers"
	"github.com/campushq/eventdesk/middleware"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/repositories/firestoredb"
	"github.com/campushq/eventdesk/services/events"
	"github.com/campushq/eventdesk/services/finance"
	"github.com/campushq/eventdesk/services/people"
	"github.com/campushq/eventdesk/services/reports"
	"github.com/campushq/eventdesk/services/users"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Store  *firestoredb.Client
	Logger *zap.Logger

	// Repositories
	People   repositories.PersonRepository
	Events   repositories.EventRepository
	Invoices repositories.InvoiceRepository
	Users    repositories.UserRepository

	// External services
	Authenticator *authn.Authenticator
	Mailer        email.Service

	// Services
	EventService   *events.EventService
	PersonService  *people.PersonService
	InvoiceService *finance.InvoiceService
	UserService    *users.UserService
	ReportService  *reports.ReportService

	// HTTP surface
	AuthMiddleware *middleware.AuthMiddleware
	EventHandler   *handlers.EventHandler
	PersonHandler  *handlers.PersonHandler
	InvoiceHandler *handlers.InvoiceHandler
	UserHandler    *handlers.UserHandler
	ReportHandler  *handlers.ReportHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := deps.initAuth(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}
	deps.initMailer(cfg)
	deps.initServices(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initStore opens the Firestore client and builds the repositories.
func (d *Dependencies) initStore(ctx context.Context, cfg *config.Config) error {
	client, err := firestoredb.NewClient(ctx, cfg.Firebase, d.Logger)
	if err != nil {
		return err
	}
	d.Store = client

	d.People = firestoredb.NewPersonRepository(client, d.Logger)
	d.Events = firestoredb.NewEventRepository(client, d.Logger)
	d.Invoices = firestoredb.NewInvoiceRepository(client, d.Logger)
	d.Users = firestoredb.NewUserRepository(client, d.Logger)

	d.Logger.Info("repositories initialized")
	return nil
}

// initAuth builds the Firebase Auth wrapper and the auth middleware.
func (d *Dependencies) initAuth(ctx context.Context) error {
	authClient, err := d.Store.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to open auth client: %w", err)
	}

	d.Authenticator = authn.NewAuthenticator(authClient, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Authenticator, d.Users, d.Logger)
	return nil
}

// initMailer picks SendGrid in production and the console fallback when
// no key is configured.
func (d *Dependencies) initMailer(cfg *config.Config) {
	if cfg.Email.SendGridKey == "" {
		d.Logger.Warn("no sendgrid key configured, using console mailer")
		d.Mailer = email.NewConsoleService(d.Logger)
		return
	}
	d.Mailer = email.NewSendGridService(cfg.Email, d.Logger)
}

func (d *Dependencies) initServices(cfg *config.Config) {
	d.EventService = events.NewEventService(d.Events, d.People, d.Invoices, d.Logger)
	d.PersonService = people.NewPersonService(d.People, d.Logger)
	d.InvoiceService = finance.NewInvoiceService(d.Invoices, d.Events, d.Logger)
	d.UserService = users.NewUserService(
		d.Users, d.Authenticator, d.Mailer,
		cfg.Email.ResetMaxPerDay, cfg.Email.ResetWindow, d.Logger)
	d.ReportService = reports.NewReportService(d.Events, d.People, d.Invoices, d.Logger)
}

func (d *Dependencies) initHandlers() {
	d.EventHandler = handlers.NewEventHandler(d.EventService, d.Logger)
	d.PersonHandler = handlers.NewPersonHandler(d.PersonService, d.Logger)
	d.InvoiceHandler = handlers.NewInvoiceHandler(d.InvoiceService, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.UserService, d.Logger)
	d.ReportHandler = handlers.NewReportHandler(d.ReportService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Store, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		} else {
			d.Logger.Info("store connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
