package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/services"
	"github.com/campushq/eventdesk/services/people"
)

// MockPersonService is a mock implementation of PersonService
type MockPersonService struct {
	mock.Mock
}

func (m *MockPersonService) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	args := m.Called(ctx, person)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonService) Get(ctx context.Context, id string) (*models.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonService) List(ctx context.Context) ([]*models.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Person), args.Error(1)
}

func (m *MockPersonService) Update(ctx context.Context, person *models.Person) (*models.Person, error) {
	args := m.Called(ctx, person)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPersonService) Import(ctx context.Context, r io.Reader) (*people.ImportReport, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.ImportReport), args.Error(1)
}

func TestHandleCreatePerson(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful creation normalizes living", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Person) bool {
			return p.FirstName == "Ada" && p.Surname == "Mensah" && p.Living == models.LivingOnCampus
		})).Return(&models.Person{ID: "p-1", FirstName: "Ada", Surname: "Mensah", Living: models.LivingOnCampus}, nil)

		body, _ := json.Marshal(PersonRequest{
			FirstName: "Ada",
			Surname:   "Mensah",
			Living:    "On Campus",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/people", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing surname", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		body, _ := json.Marshal(PersonRequest{FirstName: "Ada"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/people", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHandleUpdatePerson(t *testing.T) {
	logger := zap.NewNop()

	t.Run("id comes from the path", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Person) bool {
			return p.ID == "p-1" && p.Department == "Engineering"
		})).Return(&models.Person{ID: "p-1", FirstName: "Ada", Surname: "Mensah"}, nil)

		body, _ := json.Marshal(PersonRequest{
			FirstName:  "Ada",
			Surname:    "Mensah",
			Department: "Engineering",
		})

		req := httptest.NewRequest(http.MethodPut, "/api/v1/people/p-1", bytes.NewReader(body))
		req = withURLParam(req, "id", "p-1")

		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown person", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		mockSvc.On("Update", mock.Anything, mock.Anything).
			Return(nil, services.ErrPersonNotFound)

		body, _ := json.Marshal(PersonRequest{FirstName: "Ada", Surname: "Mensah"})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/people/nope", bytes.NewReader(body))
		req = withURLParam(req, "id", "nope")

		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleDeletePerson(t *testing.T) {
	logger := zap.NewNop()

	mockSvc := new(MockPersonService)
	handler := NewPersonHandler(mockSvc, logger)

	mockSvc.On("Delete", mock.Anything, "p-1").Return(nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/people/p-1", nil), "id", "p-1")
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandleImport(t *testing.T) {
	logger := zap.NewNop()

	multipartBody := func(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	t.Run("returns the import report", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		report := &people.ImportReport{
			Total:     3,
			Created:   2,
			Updated:   1,
			RowErrors: []people.RowError{},
		}
		mockSvc.On("Import", mock.Anything, mock.Anything).Return(report, nil)

		buf, contentType := multipartBody(t, "file", "roster.xlsx", []byte("workbook bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/people/import", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.HandleImport(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["total"])
		assert.Equal(t, float64(2), data["created"])
	})

	t.Run("missing file field", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		buf, contentType := multipartBody(t, "upload", "roster.xlsx", []byte("workbook bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/people/import", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.HandleImport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
	})

	t.Run("unreadable workbook", func(t *testing.T) {
		mockSvc := new(MockPersonService)
		handler := NewPersonHandler(mockSvc, logger)

		mockSvc.On("Import", mock.Anything, mock.Anything).
			Return(nil, services.ErrInvalidInput.WithDetail("reason", "not a spreadsheet"))

		buf, contentType := multipartBody(t, "file", "roster.txt", []byte("plain text"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/people/import", buf)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		handler.HandleImport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
