package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

// InvoiceRepository implements repositories.InvoiceRepository on the
// invoices collection. Every write recomputes the owning event's amountSpent
// from all invoices referencing it, inside the same transaction, so the
// aggregate stays consistent under concurrent editors.
type InvoiceRepository struct {
	fs     *firestore.Client
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(client *Client, logger *zap.Logger) repositories.InvoiceRepository {
	return &InvoiceRepository{
		fs:     client.Firestore(),
		logger: logger,
	}
}

// GetByID retrieves an invoice by document id
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	snap, err := r.fs.Collection(invoicesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, services.ErrInvoiceNotFound.WithDetail("id", id)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return decodeInvoice(snap)
}

// List retrieves all invoices
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	return r.collect(r.fs.Collection(invoicesCollection).Documents(ctx))
}

// ListByEventID retrieves the invoices referencing an event
func (r *InvoiceRepository) ListByEventID(ctx context.Context, eventID string) ([]*models.Invoice, error) {
	return r.collect(r.fs.Collection(invoicesCollection).Where("eventId", "==", eventID).Documents(ctx))
}

// Save creates or replaces an invoice and resyncs the owning event's
// amountSpent. When an edit moves the invoice to a different event, both
// events are resynced.
func (r *InvoiceRepository) Save(ctx context.Context, invoice *models.Invoice) (string, error) {
	var ref *firestore.DocumentRef
	if invoice.ID == "" {
		ref = r.fs.Collection(invoicesCollection).NewDoc()
	} else {
		ref = r.fs.Collection(invoicesCollection).Doc(invoice.ID)
	}

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Reads must all happen before writes.
		previousEventID := ""
		if invoice.ID != "" {
			snap, err := tx.Get(ref)
			if err != nil {
				if isNotFound(err) {
					return services.ErrInvoiceNotFound.WithDetail("id", invoice.ID)
				}
				return fmt.Errorf("failed to get invoice: %w", err)
			}
			previous, err := decodeInvoice(snap)
			if err != nil {
				return err
			}
			previousEventID = previous.EventID
		}

		total, err := r.sumForEvent(tx, invoice.EventID, ref.ID)
		if err != nil {
			return err
		}
		total += invoice.TotalAmount
		eventExists, err := r.eventExists(tx, invoice.EventID)
		if err != nil {
			return err
		}

		var previousTotal float64
		previousExists := false
		if previousEventID != "" && previousEventID != invoice.EventID {
			previousTotal, err = r.sumForEvent(tx, previousEventID, ref.ID)
			if err != nil {
				return err
			}
			previousExists, err = r.eventExists(tx, previousEventID)
			if err != nil {
				return err
			}
		}

		if err := tx.Set(ref, invoice); err != nil {
			return fmt.Errorf("failed to write invoice: %w", err)
		}
		if eventExists {
			if err := r.syncEventSpend(tx, invoice.EventID, total); err != nil {
				return err
			}
		}
		if previousExists {
			if err := r.syncEventSpend(tx, previousEventID, previousTotal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Debug("invoice saved",
		zap.String("id", ref.ID),
		zap.String("event_id", invoice.EventID),
		zap.Float64("total", invoice.TotalAmount))
	return ref.ID, nil
}

// Delete removes an invoice and resyncs the owning event's amountSpent
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	ref := r.fs.Collection(invoicesCollection).Doc(id)

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return services.ErrInvoiceNotFound.WithDetail("id", id)
			}
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		invoice, err := decodeInvoice(snap)
		if err != nil {
			return err
		}

		total, err := r.sumForEvent(tx, invoice.EventID, id)
		if err != nil {
			return err
		}
		eventExists, err := r.eventExists(tx, invoice.EventID)
		if err != nil {
			return err
		}

		if err := tx.Delete(ref); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		if !eventExists {
			return nil
		}
		return r.syncEventSpend(tx, invoice.EventID, total)
	})
	if err != nil {
		return err
	}

	r.logger.Debug("invoice deleted", zap.String("id", id))
	return nil
}

// DeleteByEventID removes every invoice referencing the event. Used by the
// event delete cascade, after which no aggregate is left to resync.
func (r *InvoiceRepository) DeleteByEventID(ctx context.Context, eventID string) (int, error) {
	snaps, err := r.fs.Collection(invoicesCollection).
		Where("eventId", "==", eventID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to query invoices for event: %w", err)
	}
	if len(snaps) == 0 {
		return 0, nil
	}

	bw := r.fs.BulkWriter(ctx)
	for _, snap := range snaps {
		if _, err := bw.Delete(snap.Ref); err != nil {
			bw.End()
			return 0, fmt.Errorf("failed to enqueue invoice delete: %w", err)
		}
	}
	bw.End()

	r.logger.Debug("invoices cascaded",
		zap.String("event_id", eventID),
		zap.Int("count", len(snaps)))
	return len(snaps), nil
}

// sumForEvent totals all invoices referencing the event, excluding one
// document id (the invoice being written or removed).
func (r *InvoiceRepository) sumForEvent(tx *firestore.Transaction, eventID, excludeID string) (float64, error) {
	query := r.fs.Collection(invoicesCollection).Where("eventId", "==", eventID)
	snaps, err := tx.Documents(query).GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to query invoices for event: %w", err)
	}

	var total float64
	for _, snap := range snaps {
		if snap.Ref.ID == excludeID {
			continue
		}
		invoice, err := decodeInvoice(snap)
		if err != nil {
			return 0, err
		}
		total += invoice.TotalAmount
	}
	return total, nil
}

// eventExists checks the event document inside the transaction's read
// phase. Invoices may outlive their event, so a dangling eventId is not
// an error; callers skip the aggregate write instead.
func (r *InvoiceRepository) eventExists(tx *firestore.Transaction, eventID string) (bool, error) {
	snap, err := tx.Get(r.fs.Collection(eventsCollection).Doc(eventID))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get event: %w", err)
	}
	return snap.Exists(), nil
}

func (r *InvoiceRepository) syncEventSpend(tx *firestore.Transaction, eventID string, total float64) error {
	ref := r.fs.Collection(eventsCollection).Doc(eventID)
	if err := tx.Update(ref, []firestore.Update{
		{Path: "amountSpent", Value: total},
	}); err != nil {
		return fmt.Errorf("failed to sync event spend: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) collect(iter *firestore.DocumentIterator) ([]*models.Invoice, error) {
	defer iter.Stop()

	var invoices []*models.Invoice
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list invoices: %w", err)
		}

		invoice, err := decodeInvoice(snap)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	return invoices, nil
}

func decodeInvoice(snap *firestore.DocumentSnapshot) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	if err := snap.DataTo(invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}
	invoice.ID = snap.Ref.ID
	return invoice, nil
}
