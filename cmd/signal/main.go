package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"meetlive/internal/core/ports"
	"meetlive/internal/core/services"
	"meetlive/internal/infrastructure/monitoring"
	"meetlive/internal/infrastructure/repositories/memory"
	signalserver "meetlive/internal/infrastructure/signal"
	"meetlive/pkg/config"
	"meetlive/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/meetlive/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	registry := memory.NewSessionRegistry()
	directory := signalserver.NewDirectory()

	var metrics ports.MetricsCollector
	if cfg.Monitoring.PrometheusEnabled {
		metrics = monitoring.NewPrometheusCollector()
	}

	roomService := services.NewRoomService(registry, directory, metrics, log, cfg.Session.IdleTTL)

	wsServer := signalserver.NewWebSocketServer(roomService, directory, log)
	wsServer.SetPingInterval(cfg.Signal.PingInterval)
	wsServer.SetPongTimeout(cfg.Signal.PongTimeout)
	wsServer.SetWriteTimeout(cfg.Signal.WriteTimeout)
	wsServer.SetMaxMessageBytes(cfg.Signal.MaxMessageBytes)
	if cfg.RateLimiting.Enabled {
		wsServer.SetRateLimit(cfg.RateLimiting.WebSocket.MessagesPerSecond, cfg.RateLimiting.WebSocket.Burst)
	}

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	roomService.StartSweeper(sweeperCtx, cfg.Session.SweepInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsServer.HandleWebSocket)
	mux.HandleFunc("/health", wsServer.HealthCheck)

	srv := &http.Server{
		Addr:    cfg.Signal.Address,
		Handler: mux,
	}

	var metricsSrv *http.Server
	if cfg.Monitoring.PrometheusEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
			Handler: metricsMux,
		}
		go func() {
			log.Infof("Starting metrics server on %s", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting MeetLive signaling server on %s", cfg.Signal.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down MeetLive signaling server...")

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Signal.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Error during metrics server shutdown", "error", err)
		}
	}

	log.Info("MeetLive signaling server stopped")
}
