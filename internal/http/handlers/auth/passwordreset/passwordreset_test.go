package passwordreset

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendPasswordReset(email, token string) error {
	args := m.Called(email, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPasswordResetHandler_ServeHTTP(t *testing.T) {
	mailerMock := new(MailerMock)
	logger := newNoopLogger()

	handler := New(logger, mailerMock)

	tests := []struct {
		name           string
		requestBody    any
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "письмо отправлено",
			requestBody:    models.DummyPasswordReset{Email: "noor@example.com"},
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "некорректный email",
			requestBody:    models.DummyPasswordReset{Email: "not-an-email"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Email must be a valid email address",
		},
		{
			name:           "ошибка отправки",
			requestBody:    models.DummyPasswordReset{Email: "noor@example.com"},
			mockErr:        errors.New("sendgrid unavailable"),
			expectCall:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not send reset mail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailerMock.ExpectedCalls = nil
			mailerMock.Calls = nil

			if tt.expectCall {
				req := tt.requestBody.(models.DummyPasswordReset)
				mailerMock.On("SendPasswordReset", req.Email, mock.AnythingOfType("string")).
					Return(tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/password-reset", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			mailerMock.AssertExpectations(t)
		})
	}
}
