// Package setpermission реализует HTTP-обработчик выдачи и отзыва прав.
//
// Права супер-администратора неизменяемы, переключение для неизвестного
// пользователя молча игнорируется.
package setpermission

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
)

// Handler управляет HTTP-запросами на переключение прав.
type Handler struct {
	log      *slog.Logger
	store    Store
	validate *validator.Validate
}

// Store описывает интерфейс переключения права пользователя.
type Store interface {
	SetPermission(userID, capability string, granted bool) error
}

// New создает новый Handler с переданными логгером и хранилищем прав.
func New(log *slog.Logger, store Store) *Handler {
	return &Handler{
		log:      log,
		store:    store,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.permission.setpermission"
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

	var req models.DummyPermissionToggle
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.store.SetPermission(userID, req.Capability, *req.Granted); err != nil {
		switch {
		case errors.Is(err, permissions.ErrSuperAdmin):
			log.Error("attempt to change super admin permissions", slog.String("user_id", userID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("super admin permissions are immutable"))
		case errors.Is(err, permissions.ErrUnknownCapability):
			log.Error("unknown capability", slog.String("capability", req.Capability))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown capability"))
		default:
			log.Error("failed to set permission", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not set permission"))
		}
		return
	}

	log.Info("permission toggled",
		slog.String("user_id", userID),
		slog.String("capability", req.Capability),
		slog.Bool("granted", *req.Granted))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
