package updatestatus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdateServiceRequestStatus(ctx context.Context, id, status string) (*models.ServiceRequest, error) {
	args := m.Called(ctx, id, status)
	req, _ := args.Get(0).(*models.ServiceRequest)
	return req, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateStatusHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Patch("/requests/{id}/status", handler.ServeHTTP)

	completedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	completed := &models.ServiceRequest{
		ID:          "req-1",
		Status:      models.RequestCompleted,
		CompletedAt: &completedAt,
	}

	tests := []struct {
		name           string
		id             string
		requestBody    any
		mockResp       *models.ServiceRequest
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "перевод заявки в completed",
			id:             "req-1",
			requestBody:    models.DummyStatusUpdate{Status: models.RequestCompleted},
			mockResp:       completed,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "недопустимый статус",
			id:             "req-1",
			requestBody:    models.DummyStatusUpdate{Status: "done"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "заявка не найдена",
			id:             "missing",
			requestBody:    models.DummyStatusUpdate{Status: models.RequestCancelled},
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "service request not found",
		},
		{
			name:           "ошибка сервиса",
			id:             "req-1",
			requestBody:    models.DummyStatusUpdate{Status: models.RequestInProgress},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not update service request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("UpdateServiceRequestStatus", mock.Anything, tt.id, tt.requestBody.(models.DummyStatusUpdate).Status).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPatch, "/requests/"+tt.id+"/status", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatus == "OK" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, models.RequestCompleted, data["status"])
				assert.NotEmpty(t, data["completed_at"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
