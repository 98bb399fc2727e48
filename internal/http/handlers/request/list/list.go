// Package list реализует HTTP-обработчик выдачи снимка коллекции заявок.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// Handler управляет HTTP-запросами на чтение списка заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения локального снимка заявок.
type Service interface {
	ServiceRequests() []models.ServiceRequest
	Loading() bool
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requests := h.service.ServiceRequests()

	log.Info("service requests listed", slog.Int("count", len(requests)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"service_requests": requests,
		"loading":          h.service.Loading(),
	}))
}
