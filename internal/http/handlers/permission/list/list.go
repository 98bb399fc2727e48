// Package list реализует HTTP-обработчик выдачи таблицы прав администраторов.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// Handler управляет HTTP-запросами на чтение таблицы прав.
type Handler struct {
	log   *slog.Logger
	store Store
}

// Store описывает интерфейс чтения таблицы прав.
type Store interface {
	List() []models.UserPermission
}

// New создает новый Handler с переданными логгером и хранилищем прав.
func New(log *slog.Logger, store Store) *Handler {
	return &Handler{log: log, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.permission.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users := h.store.List()

	log.Info("permissions listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users":        users,
		"capabilities": models.Capabilities(),
	}))
}
