package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	server "todoapp/internal/adapter/http"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
	"todoapp/pkg/tracing"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := config.NewAppLogger("todoapp")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	tel, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    "todoapp",
		ServiceVersion: "1.0.0",
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer tel.Shutdown(ctx)

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go server.StartServerWithConfig(metrics, logger, cfg)

	<-c
	logger.Logger.Info("Shutting down gracefully...")
}
