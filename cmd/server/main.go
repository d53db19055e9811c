package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/focusflow/api/handler"
	"github.com/fastygo/focusflow/internal/config"
	"github.com/fastygo/focusflow/internal/metrics"
	"github.com/fastygo/focusflow/internal/middleware"
	"github.com/fastygo/focusflow/internal/router"
	"github.com/fastygo/focusflow/internal/services"
	"github.com/fastygo/focusflow/internal/services/lifecycle"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	effects := services.NewLogEffects(zapLogger)
	tr, store, err := services.OpenTracker(appCtx, cfg, effects, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to load tracker", zap.Error(err))
	}
	manager.Register("store", func(ctx context.Context) error {
		return store.Close()
	})

	var (
		metricsHandler fasthttp.RequestHandler
		requestObs     middleware.RequestObserver
	)
	if cfg.HTTP.EnableMetrics {
		m := metrics.New("focusflow", tr)
		tr.Subscribe(m)
		metricsHandler = m.Handler()
		requestObs = m
	}

	// catch up on whatever happened while the process was not running
	if _, err := tr.Resume(appCtx); err != nil {
		zapLogger.Error("startup reconcile failed", zap.Error(err))
	}

	heartbeat, err := services.NewHeartbeat(tr, zapLogger, services.HeartbeatConfig{
		TickInterval:      cfg.Tracker.HeartbeatInterval,
		DateCheckInterval: cfg.Tracker.DateCheckInterval,
	})
	if err != nil {
		zapLogger.Fatal("failed to schedule heartbeat", zap.Error(err))
	}
	heartbeat.Start()
	manager.Register("heartbeat", heartbeat.Stop)

	ctxAdapter := httpcontext.NewAdapter(appCtx, cfg.Context.RequestTimeout)

	r := router.New(router.Handlers{
		Task:     apiHandler.NewTaskHandler(tr, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(tr, ctxAdapter, zapLogger),
		Progress: apiHandler.NewProgressHandler(tr, ctxAdapter, zapLogger),
		Backup:   apiHandler.NewBackupHandler(tr, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(store, tr, ctxAdapter, zapLogger),
		Metrics:  metricsHandler,
		Debug:    cfg.Environment == "development",
	})

	server := &fasthttp.Server{
		Handler: middleware.Chain(r.Handler,
			middleware.Recover(zapLogger),
			middleware.AccessLog(zapLogger, requestObs),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go(appCtx, "http_server", func(ctx context.Context) error {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	select {
	case <-appCtx.Done():
	case err := <-manager.Failed():
		zapLogger.Error("stopping after component failure", zap.Error(err))
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
