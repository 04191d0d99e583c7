package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/eventdesk/services"
	"github.com/campushq/eventdesk/utils"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "event not found",
			err:        services.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "person not found",
			err:        services.ErrPersonNotFound.WithDetail("id", "p-1"),
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "invalid input",
			err:        services.ErrInvalidInput.WithDetail("field", "name"),
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:       "weak password",
			err:        services.ErrWeakPassword,
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:       "invalid token",
			err:        services.ErrInvalidToken,
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "forbidden",
			err:        services.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "reset throttled",
			err:        services.ErrResetRateLimited,
			wantStatus: http.StatusTooManyRequests,
			wantError:  "rate_limit_exceeded",
		},
		{
			name:       "event ended",
			err:        services.ErrEventEnded,
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "attendance closed",
			err:        services.ErrAttendanceClosed,
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "email taken",
			err:        services.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "mail provider failure",
			err:        services.ErrEmailService.Wrap(errors.New("sendgrid 503")),
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
		},
		{
			name:       "auth provider failure",
			err:        services.ErrAuthService.Wrap(errors.New("deadline exceeded")),
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
		},
		{
			name:       "store failure",
			err:        services.ErrStore.Wrap(errors.New("rpc error")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
		{
			name:       "plain error",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response utils.ErrorResponse
			err := json.NewDecoder(w.Body).Decode(&response)
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, response.Error)
		})
	}

	t.Run("internal message is not leaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleServiceError(w, services.ErrStore.Wrap(errors.New("firestore: permission denied on projects/secret")), logger)

		var response utils.ErrorResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.NotContains(t, response.Message, "projects/secret")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleServiceError(w, nil, logger)
		assert.Empty(t, w.Body.String())
	})
}
