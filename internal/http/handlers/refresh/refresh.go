// Package refresh реализует HTTP-обработчик полной перезагрузки данных.
//
// Все три коллекции читаются заново одной операцией. Любая неудачная выборка
// отменяет обновление целиком, локальное состояние остаётся прежним.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
)

// Handler управляет HTTP-запросами на перезагрузку данных.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс полной перезагрузки коллекций.
type Service interface {
	FetchAll(ctx context.Context) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refresh"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.FetchAll(r.Context()); err != nil {
		log.Error("failed to refresh data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not refresh data"))
		return
	}

	log.Info("data refreshed")
	render.JSON(w, r, response.StatusOKWithData(nil))
}
