package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/application/service"
	"github.com/billedhq/expense-client/internal/config"
	"github.com/billedhq/expense-client/internal/infrastructure/export"
	"github.com/billedhq/expense-client/internal/infrastructure/gateway"
	"github.com/billedhq/expense-client/internal/infrastructure/session"
	httpadapter "github.com/billedhq/expense-client/internal/interfaces/http"
	"github.com/billedhq/expense-client/pkg/format"
	"github.com/billedhq/expense-client/pkg/utils"
)

func main() {
	// Load .env overrides before reading configuration
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense client service",
		zap.String("store_base_url", cfg.Store.BaseURL),
		zap.Int("port", cfg.Server.Port))

	if dir := filepath.Dir(cfg.Session.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create session directory", zap.Error(err))
		}
	}

	sessionStore, err := session.NewStore(cfg.Session.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer sessionStore.Close()

	billStore := gateway.NewStore(cfg.Store.BaseURL, cfg.Store.Timeout, logger)

	kvLogger := utils.NewKVLogger(logger)

	navigator := port.NavigatorFunc(func(route string) {
		logger.Info("Navigating", zap.String("route", route))
	})

	billsService := service.NewBillsService(billStore, format.Display{}, kvLogger)
	submissionService := service.NewSubmissionService(billStore, sessionStore, navigator, kvLogger)
	exporter := export.NewBillsExporter(logger)

	handlers := httpadapter.NewHandlers(billsService, submissionService, sessionStore, exporter, kvLogger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, kvLogger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
