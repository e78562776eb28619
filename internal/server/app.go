// Package server initializes and runs the application: configuration,
// storage, the encryption gateway and the HTTP boundary, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/orgvault/orgvault/internal/logging"
	"github.com/orgvault/orgvault/internal/server/config"
	"github.com/orgvault/orgvault/internal/server/httpapi"
	"github.com/orgvault/orgvault/internal/server/kms"
	"github.com/orgvault/orgvault/internal/server/secrets"
	"github.com/orgvault/orgvault/internal/server/shared/db"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	manager       db.RepositoryManager
	secretService *secrets.Service
}

func NewApp(c *config.Config) (*App, error) {

	handler := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(handler)

	manager, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	kmsService := kms.NewGCMService(manager.DataKeys(), []byte(c.RootKeySecret), []byte(c.RootKeySalt), logger)
	secretService := secrets.NewService(manager.Secrets(), kmsService, logger)

	return &App{
		config:        c,
		logger:        logger,
		manager:       manager,
		secretService: secretService,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.secretService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err.Error())
	}
}
