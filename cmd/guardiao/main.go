package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MatheusCastilhos/guardiao-backend/internal/auth"
	"github.com/MatheusCastilhos/guardiao-backend/internal/config"
	"github.com/MatheusCastilhos/guardiao-backend/internal/httpapi"
	"github.com/MatheusCastilhos/guardiao-backend/internal/observability"
	"github.com/MatheusCastilhos/guardiao-backend/internal/records"
	"github.com/MatheusCastilhos/guardiao-backend/internal/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	authStore, err := auth.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("auth store init failed: %v", err)
	}
	defer authStore.Close()

	recordStores, err := records.NewStores(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("record stores init failed: %v", err)
	}
	defer recordStores.Close()

	transcripts, err := transcript.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("transcript store init failed: %v", err)
	}
	defer transcripts.Close()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("DATABASE_URL not set, using in-memory stores")
	}
	if strings.TrimSpace(cfg.HFToken) == "" {
		log.Printf("HF_TOKEN not set, chat turns will fail until it is configured")
	}

	api := httpapi.New(cfg, authStore, recordStores, transcripts, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
