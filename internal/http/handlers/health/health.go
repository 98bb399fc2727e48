package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
)

type Handler struct {
	log   *slog.Logger
	check func() error // проверка готовности хранилища
}

func New(log *slog.Logger, check func() error) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.check(); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
