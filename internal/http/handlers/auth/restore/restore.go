// Package restore реализует HTTP-обработчик восстановления сохранённой сессии.
//
// Сессия читается из хранилища без повторной проверки учётных данных.
// Отсутствие сохранённой сессии возвращает 404, вызывающая сторона
// продолжает работу в анонимном состоянии.
package restore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/middlewarectx"
	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/sessions"
)

// Handler управляет HTTP-запросами на восстановление сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс восстановления сессии.
type Service interface {
	Restore(ctx context.Context, username string) (*models.Session, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.restore"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	session, err := h.service.Restore(r.Context(), username)
	if err != nil {
		if errors.Is(err, sessions.ErrNoSession) {
			log.Info("no stored session", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no stored session"))
			return
		}
		log.Error("failed to restore session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not restore session"))
		return
	}

	log.Info("session restored", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(session))
}
