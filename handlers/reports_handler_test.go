package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services"
	"github.com/campushq/eventdesk/services/reports"
)

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Finance(ctx context.Context) (*reports.FinanceReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.FinanceReport), args.Error(1)
}

func (m *MockReportService) Attendance(ctx context.Context, eventID string) (*reports.AttendanceReport, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reports.AttendanceReport), args.Error(1)
}

func (m *MockReportService) EventCSV(ctx context.Context, eventID string) ([]byte, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestHandleFinance(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the rollup", func(t *testing.T) {
		mockSvc := new(MockReportService)
		handler := NewReportHandler(mockSvc, logger)

		mockSvc.On("Finance", mock.Anything).Return(&reports.FinanceReport{
			Events: []*reports.EventReport{
				{Event: &models.Event{ID: "ev-1", Name: "Orientation"}, TotalSpent: 150},
			},
			GrandTotal:    150,
			TotalInvoices: 2,
			TotalItems:    3,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/finance", nil)
		w := httptest.NewRecorder()
		handler.HandleFinance(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(150), data["grandTotal"])
		assert.Len(t, data["events"].([]interface{}), 1)
	})
}

func TestHandleAttendance(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns the joined roster", func(t *testing.T) {
		mockSvc := new(MockReportService)
		handler := NewReportHandler(mockSvc, logger)

		mockSvc.On("Attendance", mock.Anything, "ev-1").Return(&reports.AttendanceReport{
			Event: &models.Event{ID: "ev-1", Name: "Orientation"},
			Attendees: []*reports.AttendeeRow{
				{PersonID: "p-1", Name: "Ada Grace Obi", Department: "Physics", Class: "300"},
			},
			TotalAttendees: 2,
			AmountSpent:    150,
		}, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/ev-1/attendance", nil), "eventId", "ev-1")
		w := httptest.NewRecorder()
		handler.HandleAttendance(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(2), data["totalAttendees"])
		assert.Equal(t, float64(150), data["amountSpent"])

		attendees := data["attendees"].([]interface{})
		require.Len(t, attendees, 1)
		row := attendees[0].(map[string]interface{})
		assert.Equal(t, "Ada Grace Obi", row["name"])
		assert.Equal(t, "Physics", row["department"])
		assert.Equal(t, "300", row["class"])
	})

	t.Run("unknown event", func(t *testing.T) {
		mockSvc := new(MockReportService)
		handler := NewReportHandler(mockSvc, logger)

		mockSvc.On("Attendance", mock.Anything, "nope").
			Return(nil, services.ErrEventNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope/attendance", nil), "eventId", "nope")
		w := httptest.NewRecorder()
		handler.HandleAttendance(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleEventCSV(t *testing.T) {
	logger := zap.NewNop()

	t.Run("serves a csv attachment", func(t *testing.T) {
		mockSvc := new(MockReportService)
		handler := NewReportHandler(mockSvc, logger)

		csvData := []byte("Event Name,Event Date\nOrientation,2026-03-14\n")
		mockSvc.On("EventCSV", mock.Anything, "ev-1").Return(csvData, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/ev-1/csv", nil), "eventId", "ev-1")
		w := httptest.NewRecorder()
		handler.HandleEventCSV(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="event-ev-1-invoices.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, csvData, w.Body.Bytes())
	})

	t.Run("unknown event", func(t *testing.T) {
		mockSvc := new(MockReportService)
		handler := NewReportHandler(mockSvc, logger)

		mockSvc.On("EventCSV", mock.Anything, "nope").
			Return(nil, services.ErrEventNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope/csv", nil), "eventId", "nope")
		w := httptest.NewRecorder()
		handler.HandleEventCSV(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
