// Package update реализует HTTP-обработчик частичного обновления абонента.
//
// Handler принимает JSON с изменяемыми полями, передаёт их сервису синхронизации
// и возвращает строку из ответа сервера. Пустой набор полей и неизвестный id
// приводят к ошибкам 400 и 404 соответственно.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление абонентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления абонента.
type Service interface {
	UpdateSubscriber(ctx context.Context, id string, patch models.SubscriberPatch) (*models.Subscriber, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing subscriber id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing subscriber id"))
		return
	}

	var patch models.SubscriberPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	updated, err := h.service.UpdateSubscriber(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyPatch):
			log.Error("empty patch", slog.String("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no fields to update"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("subscriber not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscriber not found"))
		default:
			log.Error("failed to update subscriber", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update subscriber"))
		}
		return
	}

	log.Info("subscriber updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(updated))
}
