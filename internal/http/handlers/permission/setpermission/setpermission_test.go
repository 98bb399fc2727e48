package setpermission

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) SetPermission(userID, capability string, granted bool) error {
	args := m.Called(userID, capability, granted)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func boolPtr(b bool) *bool { return &b }

func TestSetPermissionHandler_ServeHTTP(t *testing.T) {
	storeMock := new(StoreMock)
	logger := newNoopLogger()

	handler := New(logger, storeMock)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Patch("/permissions/{id}", handler.ServeHTTP)

	tests := []struct {
		name           string
		id             string
		requestBody    any
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "выдача права",
			id:             "2",
			requestBody:    models.DummyPermissionToggle{Capability: models.CapManagePayments, Granted: boolPtr(true)},
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "отзыв права",
			id:             "2",
			requestBody:    models.DummyPermissionToggle{Capability: models.CapManageSubscribers, Granted: boolPtr(false)},
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "отсутствует поле granted",
			id:             "2",
			requestBody:    models.DummyPermissionToggle{Capability: models.CapManagePayments},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "права супер-администратора неизменяемы",
			id:             permissions.SuperAdminID,
			requestBody:    models.DummyPermissionToggle{Capability: models.CapManagePayments, Granted: boolPtr(false)},
			mockErr:        permissions.ErrSuperAdmin,
			expectCall:     true,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "super admin permissions are immutable",
		},
		{
			name:           "неизвестное право",
			id:             "2",
			requestBody:    models.DummyPermissionToggle{Capability: "fly", Granted: boolPtr(true)},
			mockErr:        permissions.ErrUnknownCapability,
			expectCall:     true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "unknown capability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storeMock.ExpectedCalls = nil
			storeMock.Calls = nil

			if tt.expectCall {
				req := tt.requestBody.(models.DummyPermissionToggle)
				storeMock.On("SetPermission", tt.id, req.Capability, *req.Granted).
					Return(tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPatch, "/permissions/"+tt.id, bytes.NewReader(bodyBytes))
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

			storeMock.AssertExpectations(t)
		})
	}
}
