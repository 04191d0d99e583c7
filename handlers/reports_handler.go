package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/services/reports"
	"github.com/campushq/eventdesk/utils"
)

// ReportService defines the interface for report assembly
type ReportService interface {
	Finance(ctx context.Context) (*reports.FinanceReport, error)
	Attendance(ctx context.Context, eventID string) (*reports.AttendanceReport, error)
	EventCSV(ctx context.Context, eventID string) ([]byte, error)
}

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	service ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// HandleFinance handles GET /v1/reports/finance
func (h *ReportHandler) HandleFinance(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Finance(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, report)
}

// HandleAttendance handles GET /v1/reports/{eventId}/attendance
func (h *ReportHandler) HandleAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	report, err := h.service.Attendance(r.Context(), eventID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, report)
}

// HandleEventCSV handles GET /v1/reports/{eventId}/csv
func (h *ReportHandler) HandleEventCSV(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	data, err := h.service.EventCSV(r.Context(), eventID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "event-"+eventID+"-invoices.csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write csv response", zap.Error(err))
	}
}
