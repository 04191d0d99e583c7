package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

const dateLayout = "2006-01-02"

// ItemInput is one line item of an invoice write.
type ItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// SaveInput carries the fields accepted when creating or replacing an
// invoice. Totals are always recomputed server-side.
type SaveInput struct {
	EventID       string
	Items         []ItemInput
	Date          string
	InvoiceNumber string
	Vendor        string
	Notes         string
	CreatedBy     string
}

// InvoiceService handles invoice writes and keeps event spend totals in
// sync through the repository's transactional save.
type InvoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	eventRepo   repositories.EventRepository
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService instance
func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	eventRepo repositories.EventRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		eventRepo:   eventRepo,
		logger:      logger,
	}
}

// Get retrieves an invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// List retrieves all invoices, or only those of one event when eventID
// is non-empty.
func (s *InvoiceService) List(ctx context.Context, eventID string) ([]*models.Invoice, error) {
	if eventID != "" {
		return s.invoiceRepo.ListByEventID(ctx, eventID)
	}
	return s.invoiceRepo.List(ctx)
}

// Create records a new invoice against an event.
func (s *InvoiceService) Create(ctx context.Context, input SaveInput) (*models.Invoice, error) {
	invoice, err := s.buildInvoice("", input)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		return nil, err
	}

	id, err := s.invoiceRepo.Save(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	invoice.ID = id

	s.logger.Info("invoice created",
		zap.String("id", id),
		zap.String("event_id", invoice.EventID),
		zap.Float64("total", invoice.TotalAmount))
	return invoice, nil
}

// Update replaces an existing invoice. Moving an invoice to a different
// event resyncs both events' spend totals.
func (s *InvoiceService) Update(ctx context.Context, id string, input SaveInput) (*models.Invoice, error) {
	existing, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice, err := s.buildInvoice(id, input)
	if err != nil {
		return nil, err
	}
	if invoice.CreatedBy == "" {
		invoice.CreatedBy = existing.CreatedBy
	}
	if invoice.EventID != existing.EventID {
		if _, err := s.eventRepo.GetByID(ctx, invoice.EventID); err != nil {
			return nil, err
		}
	}

	if _, err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("invoice updated",
		zap.String("id", id),
		zap.Float64("total", invoice.TotalAmount))
	return invoice, nil
}

// Delete removes an invoice and resyncs the owning event's spend total.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("invoice deleted", zap.String("id", id))
	return nil
}

// buildInvoice validates the input and derives all totals.
func (s *InvoiceService) buildInvoice(id string, input SaveInput) (*models.Invoice, error) {
	if input.EventID == "" {
		return nil, services.ErrInvalidInput.WithDetail("field", "eventId")
	}
	if len(input.Items) == 0 {
		return nil, services.ErrEmptyInvoice
	}
	if input.Date != "" {
		if _, err := time.Parse(dateLayout, input.Date); err != nil {
			return nil, services.ErrInvalidDate.WithDetail("date", input.Date)
		}
	}

	items := make([]models.InvoiceItem, 0, len(input.Items))
	for i, item := range input.Items {
		if item.Description == "" {
			return nil, services.ErrInvalidInput.WithDetail("field", fmt.Sprintf("items[%d].description", i))
		}
		if item.Quantity <= 0 {
			return nil, services.ErrInvalidInput.WithDetail("field", fmt.Sprintf("items[%d].quantity", i))
		}
		if item.UnitPrice < 0 {
			return nil, services.ErrInvalidInput.WithDetail("field", fmt.Sprintf("items[%d].unitPrice", i))
		}
		items = append(items, models.InvoiceItem{
			ID:          uuid.New().String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	invoice := &models.Invoice{
		ID:            id,
		EventID:       input.EventID,
		Items:         items,
		Date:          input.Date,
		InvoiceNumber: input.InvoiceNumber,
		Vendor:        input.Vendor,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
	}
	invoice.RecomputeTotals()
	return invoice, nil
}
