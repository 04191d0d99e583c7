package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/middleware"
	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services/finance"
	"github.com/campushq/eventdesk/utils"
)

// InvoiceItemRequest is one line item of an invoice payload
type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// InvoiceRequest represents an invoice create or update payload. Item
// and invoice totals are recomputed server-side and ignored if sent.
type InvoiceRequest struct {
	EventID       string               `json:"eventId" validate:"required"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Date          string               `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber string               `json:"invoiceNumber,omitempty"`
	Vendor        string               `json:"vendor,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

// InvoiceService defines the interface for invoice operations
type InvoiceService interface {
	Get(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, eventID string) ([]*models.Invoice, error)
	Create(ctx context.Context, input finance.SaveInput) (*models.Invoice, error)
	Update(ctx context.Context, id string, input finance.SaveInput) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	service InvoiceService
	logger  *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /v1/invoices with an optional eventId filter
func (h *InvoiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")

	list, err := h.service.List(r.Context(), eventID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /v1/invoices/{id}
func (h *InvoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, invoice)
}

// HandleCreate handles POST /v1/invoices
func (h *InvoiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	invoice, err := h.service.Create(r.Context(), h.toInput(r, req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, invoice)
}

// HandleUpdate handles PUT /v1/invoices/{id}
func (h *InvoiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	invoice, err := h.service.Update(r.Context(), id, h.toInput(r, req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, invoice)
}

// HandleDelete handles DELETE /v1/invoices/{id}
func (h *InvoiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

func (h *InvoiceHandler) decode(w http.ResponseWriter, r *http.Request) (InvoiceRequest, bool) {
	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return req, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return req, false
	}
	return req, true
}

func (h *InvoiceHandler) toInput(r *http.Request, req InvoiceRequest) finance.SaveInput {
	items := make([]finance.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, finance.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	var createdBy string
	if p := middleware.GetPrincipalFromContext(r.Context()); p != nil {
		createdBy = p.UserID
	}

	return finance.SaveInput{
		EventID:       req.EventID,
		Items:         items,
		Date:          req.Date,
		InvoiceNumber: req.InvoiceNumber,
		Vendor:        req.Vendor,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}
}
