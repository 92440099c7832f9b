package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/ust_basket/internal/config"
	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/infrastructure/logger"
	"github.com/vitos/ust_basket/internal/infrastructure/storage"
	"github.com/vitos/ust_basket/internal/infrastructure/treasury"
	"github.com/vitos/ust_basket/internal/metrics"
	"github.com/vitos/ust_basket/internal/usecase"
	"github.com/vitos/ust_basket/internal/web"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	templatesDir := flag.String("templates", "internal/web/templates", "directory with HTML templates")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Metrics
	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	// 4. Init Storage (request log only)
	var requests domain.RequestLogRepository
	if cfg.Storage.DBPath != "" {
		store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
		if err != nil {
			log.Fatal("Failed to init sqlite", zap.Error(err))
		}
		defer store.Close()
		requests = store
	}

	// 5. Init TreasuryDirect client and service
	client := treasury.NewClient(cfg.Treasury.BaseURL, cfg.TreasuryTimeout(), cfg.Treasury.MaxRetries, m, log)
	svc := usecase.NewBasketService(client, requests, m, log)

	// 6. Init Web Server
	if err := web.InitTemplates(*templatesDir); err != nil {
		log.Fatal("Failed to initialize templates", zap.Error(err))
	}
	server := web.NewServer(cfg.Server.Port, svc, m, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}
