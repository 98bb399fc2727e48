// Package subscriberhub собирает все зависимости приложения и управляет
// жизненным циклом HTTP-сервера.
package subscriberhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/speedx-ps/subscriber-hub/internal/config"
	"github.com/speedx-ps/subscriber-hub/internal/lib/jwt"
	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/mailer"
	"github.com/speedx-ps/subscriber-hub/internal/migrations"
	"github.com/speedx-ps/subscriber-hub/internal/notify"
	"github.com/speedx-ps/subscriber-hub/internal/services/auth"
	"github.com/speedx-ps/subscriber-hub/internal/services/datasync"
	"github.com/speedx-ps/subscriber-hub/internal/services/permissions"
	"github.com/speedx-ps/subscriber-hub/internal/sessions"
	"github.com/speedx-ps/subscriber-hub/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessionStore, err := sessions.NewRedisStore(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	notifier := notify.Notifier(notify.NewLogNotifier(logger))
	conn, err := notify.Connect(cfg.RabbitConnection.URL, 5, 2*time.Second)
	if err != nil {
		logger.Warn("rabbitmq unavailable, falling back to log notifications", sl.Err(err))
	} else {
		amqpNotifier, err := notify.NewAMQPNotifier(conn, cfg.RabbitConnection.Exchange, logger)
		if err != nil {
			return nil, err
		}
		notifier = notify.NewMultiNotifier(notify.NewLogNotifier(logger), amqpNotifier)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	syncService := datasync.New(db, notifier, logger, cfg.OperationTimeout)
	if err := syncService.FetchAll(ctx); err != nil {
		logger.Error("initial data fetch failed", sl.Err(err))
	}

	permissionStore := permissions.New(notifier, logger)

	credentials, err := auth.NewStaticCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to build credential table: %w", err)
	}
	authService := auth.New(credentials, sessionStore, jwtMaker, logger)
	resetMailer := mailer.NewSendGridMailer(cfg.SendGrid, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, syncService, permissionStore, authService, resetMailer, jwtMaker, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
