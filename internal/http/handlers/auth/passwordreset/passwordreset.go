// Package passwordreset реализует HTTP-обработчик запроса на сброс пароля.
//
// Обработчик принимает email, формирует одноразовый токен и отправляет письмо
// со ссылкой для сброса. Ответ не раскрывает, зарегистрирован ли адрес.
package passwordreset

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// Handler обрабатывает HTTP-запросы на сброс пароля.
type Handler struct {
	log      *slog.Logger
	mailer   Mailer
	validate *validator.Validate
}

// Mailer описывает интерфейс отправки письма для сброса пароля.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// New создает новый Handler с переданными логгером и отправителем писем.
func New(log *slog.Logger, mailer Mailer) *Handler {
	return &Handler{
		log:      log,
		mailer:   mailer,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.passwordreset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPasswordReset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	token := uuid.NewString()
	if err := h.mailer.SendPasswordReset(req.Email, token); err != nil {
		log.Error("failed to send reset mail", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send reset mail"))
		return
	}

	log.Info("password reset mail queued", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "reset instructions sent",
	}))
}
