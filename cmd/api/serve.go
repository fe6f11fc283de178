package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadapter "taskcraftify/internal/adapter/http"
	"taskcraftify/internal/adapter/http/handlers"
	httpmiddleware "taskcraftify/internal/adapter/http/middleware"
	"taskcraftify/internal/app/service"
	"taskcraftify/internal/config"
)

const (
	initialLoadTimeout = 10 * time.Second
	shutdownTimeout    = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP host with live MySQL sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.LoadConfig(), zap.L())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	a.openCache(ctx)

	loadCtx, cancel := context.WithTimeout(ctx, initialLoadTimeout)
	if err := a.load(loadCtx); err != nil {
		// The first change signal triggers another full refetch.
		logger.Error("initial load failed, serving cached state", zap.Error(err))
	}
	cancel()

	if err := a.startSync(); err != nil {
		return err
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return err
	}
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))

	healthHandler := handlers.NewHealthHandler(a.db, map[string]handlers.Sizer{
		"tasks":    a.tasks,
		"projects": a.projects,
	})
	taskHandler := handlers.NewTaskHandler(service.NewTaskService(a.tasks, a.controller), a.clock, cfg.Location)
	projectHandler := handlers.NewProjectHandler(service.NewProjectService(a.projects))
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler, projectHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
