// Package subscriberhub предоставляет маршруты для основного приложения.
package subscriberhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/auth/login"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/auth/logout"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/auth/passwordreset"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/auth/restore"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/health"
	invoiceexport "github.com/speedx-ps/subscriber-hub/internal/http/handlers/invoice/export"
	invoicegenerate "github.com/speedx-ps/subscriber-hub/internal/http/handlers/invoice/generate"
	paymentcreate "github.com/speedx-ps/subscriber-hub/internal/http/handlers/payment/create"
	paymentlist "github.com/speedx-ps/subscriber-hub/internal/http/handlers/payment/list"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/permission/adduser"
	permissionlist "github.com/speedx-ps/subscriber-hub/internal/http/handlers/permission/list"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/permission/removeuser"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/permission/setpermission"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/refresh"
	requestcreate "github.com/speedx-ps/subscriber-hub/internal/http/handlers/request/create"
	requestlist "github.com/speedx-ps/subscriber-hub/internal/http/handlers/request/list"
	"github.com/speedx-ps/subscriber-hub/internal/http/handlers/request/updatestatus"
	subscribercreate "github.com/speedx-ps/subscriber-hub/internal/http/handlers/subscriber/create"
	subscriberlist "github.com/speedx-ps/subscriber-hub/internal/http/handlers/subscriber/list"
	subscriberupdate "github.com/speedx-ps/subscriber-hub/internal/http/handlers/subscriber/update"
	"github.com/speedx-ps/subscriber-hub/internal/http/middlewarectx"
	"github.com/speedx-ps/subscriber-hub/internal/lib/jwt"
	"github.com/speedx-ps/subscriber-hub/internal/mailer"
	authservice "github.com/speedx-ps/subscriber-hub/internal/services/auth"
	"github.com/speedx-ps/subscriber-hub/internal/services/datasync"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
	"github.com/speedx-ps/subscriber-hub/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, syncService *datasync.Service,
	permissionStore *permissions.Store, authService *authservice.Service,
	resetMailer mailer.Mailer, jwtMaker jwt.Maker, db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/password-reset", passwordreset.New(logger, resetMailer).ServeHTTP)
		r.Get("/health", health.New(logger, func() error {
			return repository.CheckDatabaseReady(db)
		}).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Get("/session", restore.New(logger, authService).ServeHTTP)

			r.Get("/subscribers", subscriberlist.New(logger, syncService).ServeHTTP)
			r.Get("/requests", requestlist.New(logger, syncService).ServeHTTP)
			r.Post("/requests", requestcreate.New(logger, syncService).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, syncService).ServeHTTP)
			r.Post("/refresh", refresh.New(logger, syncService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Post("/subscribers", subscribercreate.New(logger, syncService).ServeHTTP)
				r.Patch("/subscribers/{id}", subscriberupdate.New(logger, syncService).ServeHTTP)
				r.Patch("/requests/{id}/status", updatestatus.New(logger, syncService).ServeHTTP)
				r.Post("/payments", paymentcreate.New(logger, syncService).ServeHTTP)

				r.Get("/permissions", permissionlist.New(logger, permissionStore).ServeHTTP)
				r.Post("/permissions/users", adduser.New(logger, permissionStore).ServeHTTP)
				r.Delete("/permissions/users/{id}", removeuser.New(logger, permissionStore).ServeHTTP)
				r.Patch("/permissions/users/{id}", setpermission.New(logger, permissionStore).ServeHTTP)

				r.Get("/invoices", invoicegenerate.New(logger, syncService).ServeHTTP)
				r.Get("/invoices/export", invoiceexport.New(logger, syncService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
