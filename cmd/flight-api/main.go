package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flybeeper/flight-history/internal/config"
	"github.com/flybeeper/flight-history/internal/handler"
	"github.com/flybeeper/flight-history/internal/metrics"
	"github.com/flybeeper/flight-history/pkg/utils"
)

var (
	// Version будет установлен при сборке через ldflags
	Version = "dev"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем логирование
	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	utils.SetDefaultLogger(logger)
	logger.WithFields(map[string]interface{}{
		"version":     Version,
		"environment": cfg.Environment,
	}).Info("Starting flight history API")

	handler.Version = Version
	metrics.SetAppInfo(Version)

	logger.WithFields(map[string]interface{}{
		"airborne_min_kmh": cfg.Detection.Thresholds.AirborneMinKmh,
		"airborne_max_kmh": cfg.Detection.Thresholds.AirborneMaxKmh,
		"ground_max_kmh":   cfg.Detection.Thresholds.GroundMaxKmh,
		"merge_time_gap":   cfg.Detection.Merge.TimeGap.String(),
		"min_distance_km":  cfg.Detection.Filter.MinDistanceKm,
	}).Debug("Detection thresholds")

	server, err := handler.NewServer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create HTTP server")
	}

	// Запускаем HTTP сервер в горутине
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Ждем сигнала остановки
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}

	logger.Info("Server stopped gracefully")
}
