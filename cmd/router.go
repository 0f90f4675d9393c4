package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/microservice/config"
	"github.com/angeloszaimis/microservice/internal/handler"
	"github.com/angeloszaimis/microservice/internal/metrics"
)

// setupRouter builds the service port handler. The service handler owns the
// whole routing table, so it is mounted at the root and nothing else is.
func setupRouter(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) http.Handler {
	serviceHandler := handler.NewServiceHandler(handler.ServiceInfo{Name: cfg.Service.Name})

	return handler.Instrument(serviceHandler, log, collector)
}
