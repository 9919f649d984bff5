package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contactgraph/internal/contact/handler"
	"contactgraph/internal/contact/service"
	"contactgraph/internal/contact/store"
	"contactgraph/internal/platform/config"
	"contactgraph/internal/platform/httpserver"
	"contactgraph/internal/platform/logger"
	"contactgraph/internal/platform/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/contact packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(startCtx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	if err := store.RunMigration(startCtx, db); err != nil {
		log.Error("run migration", "error", err)
		os.Exit(1)
	}
	log.Info("database ready")

	m := metrics.New()
	contacts := service.New(newContactPostgresTx(db), log, m)
	h := handler.New(contacts, log, m, cfg.IsDevelopment())

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting contactgraph", "addr", cfg.Addr, "environment", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
