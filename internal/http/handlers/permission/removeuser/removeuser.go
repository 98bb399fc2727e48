// Package removeuser реализует HTTP-обработчик удаления администратора.
//
// Супер-администратор защищён от удаления, удаление отсутствующего
// пользователя не считается ошибкой.
package removeuser

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
)

// Handler управляет HTTP-запросами на удаление администраторов.
type Handler struct {
	log   *slog.Logger
	store Store
}

// Store описывает интерфейс удаления администратора.
type Store interface {
	RemoveUser(userID string) error
}

// New создает новый Handler с переданными логгером и хранилищем прав.
func New(log *slog.Logger, store Store) *Handler {
	return &Handler{log: log, store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.permission.removeuser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "id")
	if userID == "" {
		log.Error("missing user id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	if err := h.store.RemoveUser(userID); err != nil {
		if errors.Is(err, permissions.ErrSuperAdmin) {
			log.Error("attempt to remove super admin", slog.String("user_id", userID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("super admin cannot be removed"))
			return
		}
		log.Error("failed to remove user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove user"))
		return
	}

	log.Info("admin user removed", slog.String("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
