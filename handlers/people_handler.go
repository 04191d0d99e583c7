package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services/people"
	"github.com/campushq/eventdesk/utils"
)

// importMaxBytes caps uploaded spreadsheets at 10 MiB.
const importMaxBytes = 10 << 20

// PersonRequest represents a person create or update payload
type PersonRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName,omitempty"`
	Surname    string `json:"surname" validate:"required"`
	Department string `json:"department,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Class      string `json:"class,omitempty"`
	Living     string `json:"living,omitempty"`
}

// PersonService defines the interface for roster operations
type PersonService interface {
	Create(ctx context.Context, person *models.Person) (*models.Person, error)
	Get(ctx context.Context, id string) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Update(ctx context.Context, person *models.Person) (*models.Person, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, r io.Reader) (*people.ImportReport, error)
}

// PersonHandler handles roster HTTP requests
type PersonHandler struct {
	service PersonService
	logger  *zap.Logger
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(service PersonService, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /v1/people
func (h *PersonHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /v1/people/{id}
func (h *PersonHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	person, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, person)
}

// HandleCreate handles POST /v1/people
func (h *PersonHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	person, err := h.service.Create(r.Context(), req.toModel(""))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, person)
}

// HandleUpdate handles PUT /v1/people/{id}
func (h *PersonHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	person, err := h.service.Update(r.Context(), req.toModel(id))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, person)
}

// HandleDelete handles DELETE /v1/people/{id}
func (h *PersonHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleImport handles POST /v1/people/import with a multipart "file"
// field holding the xlsx/xlsm workbook.
func (h *PersonHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(importMaxBytes); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer file.Close()

	h.logger.Info("roster import started",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.String("user_id", principalID(r)))

	report, err := h.service.Import(r.Context(), file)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, report)
}

func (req PersonRequest) toModel(id string) *models.Person {
	return &models.Person{
		ID:         id,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		Surname:    req.Surname,
		Department: req.Department,
		Gender:     req.Gender,
		Class:      req.Class,
		Living:     models.NormalizeLiving(req.Living),
	}
}
