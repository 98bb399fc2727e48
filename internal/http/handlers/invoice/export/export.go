// Package export реализует HTTP-обработчик выгрузки реестра абонентов в xlsx.
package export

import (
	"fmt"
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

// Handler управляет HTTP-запросами на выгрузку реестра.
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
	const op = "handlers.invoice.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, err := invoice.ExportSubscribersXLSX(h.service.Subscribers())
	if err != nil {
		log.Error("failed to export subscribers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export subscribers"))
		return
	}

	fileName := fmt.Sprintf("subscribers_%s.xlsx", time.Now().Format("20060102"))

	log.Info("subscribers exported", slog.Int("size", len(data)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
