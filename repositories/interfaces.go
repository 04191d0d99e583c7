// Package repositories defines the data access interfaces implemented by the
// Firestore-backed store. Services depend on these interfaces so tests can
// substitute in-memory fakes.
package repositories

import (
	"context"
	"time"

	"github.com/campushq/eventdesk/models"
)

// PersonRepository handles roster documents in the people collection.
type PersonRepository interface {
	// Create inserts a new person and returns the generated document id.
	Create(ctx context.Context, person *models.Person) (string, error)

	// GetByID retrieves a person by document id.
	GetByID(ctx context.Context, id string) (*models.Person, error)

	// FindByName returns the first person matching firstName+surname, or a
	// not-found error. Used by the import upsert.
	FindByName(ctx context.Context, firstName, surname string) (*models.Person, error)

	// List retrieves the whole roster.
	List(ctx context.Context) ([]*models.Person, error)

	// Update replaces a person document.
	Update(ctx context.Context, person *models.Person) error

	// Merge updates only the given fields of a person document.
	Merge(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes a person document.
	Delete(ctx context.Context, id string) error
}

// EventRepository handles documents in the events collection.
type EventRepository interface {
	// Create inserts a new event and returns the generated document id.
	Create(ctx context.Context, event *models.Event) (string, error)

	// GetByID retrieves an event by document id.
	GetByID(ctx context.Context, id string) (*models.Event, error)

	// List retrieves all events.
	List(ctx context.Context) ([]*models.Event, error)

	// Update replaces an event document.
	Update(ctx context.Context, event *models.Event) error

	// End stamps endTime and flips isEnded inside a transaction. The guard
	// runs against the current document before the write.
	End(ctx context.Context, id string, endTime time.Time, guard func(*models.Event) error) error

	// ToggleAttendance flips the person's membership in the event's attendee
	// set inside a transaction, after the guard approves the current
	// document state. Returns true when the person was added.
	ToggleAttendance(ctx context.Context, eventID, personID string, guard func(*models.Event) error) (bool, error)

	// Delete removes an event document.
	Delete(ctx context.Context, id string) error

	// Watch streams the event document as it changes. The channel closes
	// when the context is cancelled or the stream fails.
	Watch(ctx context.Context, id string) (<-chan *models.Event, error)
}

// InvoiceRepository handles documents in the invoices collection. Writes
// keep the owning event's amountSpent aggregate in sync transactionally.
type InvoiceRepository interface {
	// GetByID retrieves an invoice by document id.
	GetByID(ctx context.Context, id string) (*models.Invoice, error)

	// List retrieves all invoices.
	List(ctx context.Context) ([]*models.Invoice, error)

	// ListByEventID retrieves the invoices referencing an event.
	ListByEventID(ctx context.Context, eventID string) ([]*models.Invoice, error)

	// Save creates (empty id) or replaces an invoice and recomputes the
	// owning event's amountSpent in the same transaction. Returns the
	// document id.
	Save(ctx context.Context, invoice *models.Invoice) (string, error)

	// Delete removes an invoice and recomputes the owning event's
	// amountSpent in the same transaction.
	Delete(ctx context.Context, id string) error

	// DeleteByEventID removes every invoice referencing the event and
	// returns how many were removed. Used by the event delete cascade.
	DeleteByEventID(ctx context.Context, eventID string) (int, error)
}

// UserRepository handles principal documents in the users collection.
type UserRepository interface {
	// Create inserts a user document under the auth service's user id.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by document id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
