// Package server initializes and runs the message wall backend. It opens the
// database, applies migrations, wires the services and the HTTP endpoint,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"messagewall/internal/logging"
	"messagewall/internal/server/config"
	"messagewall/internal/server/httpapi"
	"messagewall/internal/server/messages"
	"messagewall/internal/server/records"
	"messagewall/internal/server/repomanager"
	"messagewall/internal/server/sessions"
	"messagewall/internal/server/storage"
	"messagewall/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sess := sessions.NewContext()

	usersSvc := users.NewService(db, rm, sess, cfg)
	messagesSvc := messages.NewService(db, rm, storage.NewS3Uploader(cfg), logger)

	handler := httpapi.NewHandler(usersSvc, messagesSvc, cfg, logger)

	// A profile update changes the name or avatar shown on the wall cards,
	// so any session broadcast drops the cached feed.
	sess.OnUpdate(func(_ *records.Record) {
		handler.InvalidateWall()
	})

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: httpapi.NewRouter(app.handler),
	}

	go func() {
		app.logger.Info(ctx, "starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}

	app.handler.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}
}
