// Command flowforged serves the workflow engine's HTTP API. Adapted
// from the teacher's api/main.go: slog JSON logging set as process
// default, a pgxpool connected from DATABASE_URL, gorilla/mux routing
// with gorilla/handlers CORS, and graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowforge/engine/internal/emitter"
	"github.com/flowforge/engine/internal/httpapi"
	"github.com/flowforge/engine/internal/nodes"
	"github.com/flowforge/engine/internal/registry"
	"github.com/flowforge/engine/internal/scheduler"
	"github.com/flowforge/engine/internal/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("flowforged exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbURL, ok := os.LookupEnv("DATABASE_URL")
	if !ok {
		dbURL = "postgres://localhost:5432/flowforge?sslmode=disable"
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	reg := registry.New()
	nodes.RegisterBuiltins(reg)

	promBackend, err := emitter.NewPrometheusBackend(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	emit := emitter.New()
	emit.Register("log", emitter.LogBackend{})
	emit.Register("prometheus", promBackend)

	srv := &httpapi.Server{
		Store:    storage.New(pool),
		Registry: reg,
		Emitter:  emit,
		Config:   scheduler.DefaultConfig(),
	}

	router := mux.NewRouter()
	srv.Routes(router)
	router.Handle("/metrics", promhttp.Handler())

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	addr, ok := os.LookupEnv("LISTEN_ADDR")
	if !ok {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      requestIDMiddleware(cors(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("flowforged listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
