package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"payslips/internal/platform/config"
	"payslips/internal/platform/jobs"
	"payslips/internal/platform/metrics"
	"payslips/internal/platform/scratch"
	batchhandler "payslips/internal/transport/http/handlers/batch"
	"payslips/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	scratch.Sweep(cfg.ScratchBaseDir, cfg.ScratchMaxAge)

	ctx := context.Background()
	jobsSvc := jobs.New()
	jobsSvc.Start(ctx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})

	router.Route("/api/v1", func(r chi.Router) {
		handler := batchhandler.NewHandler(cfg, jobsSvc, collector)
		handler.RegisterRoutes(r)
	})

	log.Printf("payslip server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
