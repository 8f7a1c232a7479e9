// Package server wires the identity server together: logging, tracing,
// storage, services and the gRPC endpoint, plus graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/logging"
	"github.com/dmitrijs2005/idkeeper/internal/server/auth"
	"github.com/dmitrijs2005/idkeeper/internal/server/config"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/idkeeper/internal/server/services"
	"github.com/dmitrijs2005/idkeeper/internal/telemetry"

	gs "github.com/dmitrijs2005/idkeeper/internal/server/grpc"
)

const serviceName = "idkeeper"

// shutdownTimeout bounds flushing traces and closing storage on exit.
const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	authService *services.AuthenticationService
	telemetry   telemetry.Shutdown
}

// NewApp connects storage, applies migrations and builds the services.
// Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.NewJSON(w, c.LogLevel)
	if err != nil {
		return nil, err
	}

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	m, err := repomanager.Open(ctx, c)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close(ctx)
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAuthenticationService(m, c.TokenConfig(), []byte(c.SecretKey), auth.BcryptVerifier{}, logger)

	logger.Info(ctx, "Storage ready", "driver", c.StorageDriver)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: m,
		authService: as,
		telemetry:   shutdownTracing,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage and flushes traces.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.shutdown()
}

func (app *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.repomanager.Close(ctx); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	if err := app.telemetry(ctx); err != nil {
		app.logger.Error(ctx, "flushing traces", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
