package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/middleware"
	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services/events"
	"github.com/campushq/eventdesk/utils"
)

// CreateEventRequest represents a request to schedule an event
type CreateEventRequest struct {
	Name      string     `json:"name" validate:"required"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// UpdateEventRequest represents a partial update; nil fields are unchanged
type UpdateEventRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	Date      *string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// ToggleAttendanceRequest identifies the person whose attendance flips
type ToggleAttendanceRequest struct {
	PersonID string `json:"personId" validate:"required"`
}

// AttendanceResponse reports the outcome of an attendance toggle
type AttendanceResponse struct {
	EventID  string `json:"eventId"`
	PersonID string `json:"personId"`
	Present  bool   `json:"present"`
}

// EventService defines the interface for event operations
type EventService interface {
	Create(ctx context.Context, input events.CreateInput) (*models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, id string, input events.UpdateInput) (*models.Event, error)
	End(ctx context.Context, id string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	EligibleEvents(ctx context.Context) ([]*models.Event, error)
	ToggleAttendance(ctx context.Context, eventID, personID string) (bool, error)
	Watch(ctx context.Context, id string) (<-chan *models.Event, error)
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	service EventService
	logger  *zap.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /v1/events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /v1/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, event)
}

// HandleCreate handles POST /v1/events
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	event, err := h.service.Create(r.Context(), events.CreateInput{
		Name:      req.Name,
		Date:      req.Date,
		StartTime: req.StartTime,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, event)
}

// HandleUpdate handles PUT /v1/events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	event, err := h.service.Update(r.Context(), id, events.UpdateInput{
		Name:      req.Name,
		Date:      req.Date,
		StartTime: req.StartTime,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, event)
}

// HandleEnd handles POST /v1/events/{id}/end
func (h *EventHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.service.End(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("event ended via api",
		zap.String("id", id),
		zap.String("user_id", principalID(r)))
	_ = utils.WriteOK(w, event)
}

// HandleDelete handles DELETE /v1/events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleEligible handles GET /v1/events/attendance/eligible
func (h *EventHandler) HandleEligible(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.EligibleEvents(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleToggleAttendance handles POST /v1/events/{id}/attendance
func (h *EventHandler) HandleToggleAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ToggleAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	present, err := h.service.ToggleAttendance(r.Context(), id, req.PersonID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, AttendanceResponse{
		EventID:  id,
		PersonID: req.PersonID,
		Present:  present,
	})
}

// HandleWatch handles GET /v1/events/{id}/watch as a server-sent event
// stream of the event document.
func (h *EventHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		_ = utils.WriteInternalServerError(w, "Streaming not supported")
		return
	}

	updates, err := h.service.Watch(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	// The server write deadline would sever the stream mid flight; clear it
	// for this response. Writers without deadline support just decline.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("write deadline not adjustable", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range updates {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("failed to marshal event update", zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

// principalID returns the authenticated user's id for log fields.
func principalID(r *http.Request) string {
	if p := middleware.GetPrincipalFromContext(r.Context()); p != nil {
		return p.UserID
	}
	return ""
}
