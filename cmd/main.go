package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/angeloszaimis/microservice/config"
	"github.com/angeloszaimis/microservice/internal/healthcheck"
	"github.com/angeloszaimis/microservice/internal/httpserver"
	"github.com/angeloszaimis/microservice/internal/metrics"
	"github.com/angeloszaimis/microservice/pkg/logger"
)

const (
	metricsBufferSize = 1000
	probeTimeout      = 3 * time.Second
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(runHealthcheck(context.Background()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Level == config.LogLevelDebug, cfg.Service.Environment, cfg.Service.Name)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	if err := a.listen(); err != nil {
		log.Error("Failed to bind listener", slog.String("addr", cfg.Server.Address()), slog.Any("err", err))
		os.Exit(1)
	}

	if err := a.run(ctx); err != nil {
		log.Error("Server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

type app struct {
	cfg       *config.Config
	log       *slog.Logger
	srv       *httpserver.Server
	admin     *httpserver.Server
	collector *metrics.Collector
}

func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if cfg.Metrics.Enabled() {
		a.collector = metrics.NewCollector(metricsBufferSize, log)

		admin, err := httpserver.New(cfg.Metrics.Address, a.collector.AdminMux(cfg.Service.Name), log)
		if err != nil {
			return nil, err
		}
		a.admin = admin
	}

	srv, err := httpserver.New(cfg.Server.Address(), setupRouter(cfg, log, a.collector), log)
	if err != nil {
		return nil, err
	}
	a.srv = srv

	return a, nil
}

// listen binds every socket the app serves on. Nothing is served until run.
func (a *app) listen() error {
	if err := a.srv.Listen(); err != nil {
		return err
	}

	if a.admin != nil {
		if err := a.admin.Listen(); err != nil {
			_ = a.srv.Close()
			return err
		}
	}

	return nil
}

// run serves until ctx is cancelled, then shuts down gracefully.
func (a *app) run(ctx context.Context) error {
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()

	if a.collector != nil {
		a.collector.Start(collectorCtx)
	}

	srvErrCh := make(chan error, 2)

	go func() {
		srvErrCh <- a.srv.Serve()
	}()

	if a.admin != nil {
		go func() {
			srvErrCh <- a.admin.Serve()
		}()
		a.log.Info("Serving metrics", slog.String("addr", a.admin.Addr()))
	}

	host, port := splitAddr(a.srv.Addr())
	a.log.Info("Serving service",
		slog.String("service", a.cfg.Service.Name),
		slog.String("host", host),
		slog.Int("port", port),
		slog.String("url", "http://"+a.srv.Addr()))

	var serveErr error

	select {
	case <-ctx.Done():
		a.log.Info("Shutting down gracefully...")
	case serveErr = <-srvErrCh:
		if serveErr != nil {
			a.log.Error("Error serving requests", slog.Any("err", serveErr))
		}
	}

	grace := a.cfg.Server.GracePeriod()
	if err := a.srv.Shutdown(context.Background(), grace); err != nil {
		a.log.Error("Error during shutdown", slog.Any("err", err))
	}
	if a.admin != nil {
		if err := a.admin.Shutdown(context.Background(), grace); err != nil {
			a.log.Error("Error during metrics shutdown", slog.Any("err", err))
		}
	}

	if a.collector != nil {
		stopCollector()
		<-a.collector.Done()
	}

	a.log.Info("Server stopped", slog.String("service", a.cfg.Service.Name))

	return serveErr
}

func runHealthcheck(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		return 1
	}

	if err := healthcheck.Probe(ctx, healthcheck.LocalURL(cfg.Server.Port), probeTimeout); err != nil {
		slog.Error("health check failed", slog.Any("err", err))
		return 1
	}

	return 0
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 0
	}

	port, _ := strconv.Atoi(portStr)
	return host, port
}
