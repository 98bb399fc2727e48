package create

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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) AddSubscriber(ctx context.Context, req models.DummySubscriber) (*models.Subscriber, error) {
	args := m.Called(ctx, req)
	sub, _ := args.Get(0).(*models.Subscriber)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() models.DummySubscriber {
	return models.DummySubscriber{
		FullName:     "نور محمد",
		Phone:        "0599123456",
		Location:     "رام الله",
		PackageName:  "باقة المتميز",
		PackageSpeed: "60 ميجا",
		Status:       models.SubscriberActive,
		StartDate:    "2024-01-15",
		EndDate:      "2024-08-15",
		MonthlyFee:   "150",
	}
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	created := &models.Subscriber{
		ID:         "sub-1",
		FullName:   "نور محمد",
		Status:     models.SubscriberActive,
		MonthlyFee: decimal.NewFromInt(150),
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResp       *models.Subscriber
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "успешное добавление",
			requestBody:    validRequest(),
			mockResp:       created,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "некорректный json",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "недопустимый статус",
			requestBody: func() models.DummySubscriber {
				r := validRequest()
				r.Status = "frozen"
				return r
			}(),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "ошибка сервиса",
			requestBody:    validRequest(),
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not add subscriber",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("AddSubscriber", mock.Anything, tt.requestBody.(models.DummySubscriber)).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/subscribers", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatus == "OK" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "sub-1", data["id"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
