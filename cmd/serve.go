package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"todolist/internal/cache"
	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/database"
	"todolist/internal/queue"
	"todolist/internal/repository"
	"todolist/internal/routes"
	"todolist/internal/service"
	"todolist/internal/translate"
	"todolist/internal/worker"
	"todolist/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), config.Load())
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database not available: %w", err)
	}
	defer db.Close()
	if err := db.MigrateOrCreateSchema(ctx); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	// Redis and Kafka are optional; both are nil-safe when disabled.
	rc := cache.New(ctx, cfg)
	defer rc.Close()

	queue.EnsureTopic(ctx, cfg)
	producer := queue.NewProducer(ctx, cfg)
	defer producer.Close()

	todos := service.NewTodos(repository.NewTodos(db), rc, producer)
	translator := translate.FromConfig(ctx, cfg)
	if !translator.Available() {
		logger.Warn(ctx, "Translation disabled; GOOGLE_API_KEY missing or client creation failed")
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(controller.New(todos, translator)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if reader := queue.NewReader(cfg); reader != nil {
		if rc == nil {
			// nothing to invalidate on this replica
			_ = reader.Close()
		} else {
			g.Go(func() error { return worker.Run(gctx, reader, rc) })
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(ctx, "Server stopped")
	return nil
}
