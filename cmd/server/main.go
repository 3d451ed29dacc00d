package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leetstats/internal/api"
	grpcProtocol "leetstats/internal/protocols/grpc"
	httpProtocol "leetstats/internal/protocols/http"
	"leetstats/internal/telemetry"
	"leetstats/pkg/config"
	"leetstats/pkg/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Infof("Starting leetstats server %s...", version)

	tel, err := telemetry.New(telemetry.Config{
		Tracing:     cfg.Telemetry.Tracing,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     version,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize telemetry: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.APIShape(), cfg.APITimeout())
	logger.WithFields(map[string]interface{}{
		"base_url": cfg.API.BaseURL,
		"shape":    string(client.Shape()),
	}).Info("Upstream statistics client ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. HTTP widget server (REST, HTML widget, WebSocket, metrics)
	httpServer := httpProtocol.NewServer(cfg, client)
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- httpServer.Start()
	}()

	// 2. gRPC stats service
	var grpcServer *grpcProtocol.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpcProtocol.NewServer(cfg.GRPCAddr(), client, cfg.APITimeout())
		if err := grpcServer.Start(); err != nil {
			logger.Errorf("gRPC server error (non-fatal): %v", err)
			grpcServer = nil
		}
	} else {
		logger.Info("gRPC server disabled (grpc.enabled=false)")
	}

	logger.Info("All protocol servers started, press Ctrl+C to shutdown")

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-httpErr:
		if err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Stop()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Telemetry shutdown error: %v", err)
	}

	logger.Info("Shutdown complete")
}
