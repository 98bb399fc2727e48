// Package generate реализует HTTP-обработчик формирования HTML-фактур.
//
// Без параметра id формируется сводная фактура по активным абонентам,
// с параметром id — фактура для одного абонента.
package generate

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/speedx-ps/subscriber-hub/internal/http/response"
	"github.com/speedx-ps/subscriber-hub/internal/invoice"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// Handler управляет HTTP-запросами на формирование фактур.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения локального снимка абонентов.
type Service interface {
	Subscribers() []models.Subscriber
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subscribers := h.service.Subscribers()
	issuedAt := time.Now().UTC()

	var (
		html []byte
		err  error
	)
	if id := r.URL.Query().Get("id"); id != "" {
		html, err = invoice.RenderSubscriberInvoice(subscribers, id, issuedAt)
	} else {
		html, err = invoice.RenderBulkInvoice(subscribers, issuedAt)
	}
	if err != nil {
		if errors.Is(err, invoice.ErrSubscriberNotFound) {
			log.Error("subscriber not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscriber not found"))
			return
		}
		log.Error("failed to render invoice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not render invoice"))
		return
	}

	log.Info("invoice rendered", slog.Int("size", len(html)))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html) //nolint:errcheck
}
