// Package adduser реализует HTTP-обработчик добавления нового администратора.
//
// Имя не может быть пустым или состоять из пробелов, набор прав проверяется
// по каталогу возможностей.
package adduser

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
)

// Handler управляет HTTP-запросами на добавление администраторов.
type Handler struct {
	log      *slog.Logger
	store    Store
	validate *validator.Validate
}

// Store описывает интерфейс добавления администратора.
type Store interface {
	AddUser(name string, capabilities []string) (*models.UserPermission, error)
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
	const op = "handlers.permission.adduser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPermissionUser
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

	user, err := h.store.AddUser(req.UserName, req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, permissions.ErrEmptyName):
			log.Error("empty user name")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("user name must not be empty"))
		case errors.Is(err, permissions.ErrUnknownCapability):
			log.Error("unknown capability", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown capability"))
		default:
			log.Error("failed to add user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add user"))
		}
		return
	}

	log.Info("admin user added", slog.String("user_id", user.UserID))
	render.JSON(w, r, response.StatusOKWithData(user))
}
