// Package app assembles the shared runtime pieces for the meetctx binaries.
package app

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"

	"meetctx/internal/config"
	"meetctx/internal/crawler"
	"meetctx/internal/extract"
	"meetctx/internal/metrics"
	"meetctx/internal/parser"
	"meetctx/internal/service"
	"meetctx/internal/transport/natsbus"
	"meetctx/pkg/logger"
)

type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Service *service.Service
}

// Load reads .env (if present) and the config file, then builds the logger,
// metrics and extraction service.
func Load(configPath string) (*App, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewWithConfig(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	m := metrics.New(prometheus.DefaultRegisterer)
	ex := extract.New(
		extract.WithBounds(cfg.Bounds()),
		extract.WithLogger(log.Named("extract")),
		extract.WithMetrics(m),
	)
	svc := &service.Service{
		Client:    crawler.NewHTTPClient(cfg.Fetch.Timeout, cfg.Fetch.DialTimeout, cfg.Fetch.SizeCap),
		Parser:    parser.New(),
		Extractor: ex,
		Log:       log.Named("responder"),
		Metrics:   m,
		Workers:   cfg.Server.BatchWorkers,
	}
	return &App{Config: cfg, Log: log, Metrics: m, Service: svc}, nil
}

// ConnectNATS dials the configured server and wraps it in a bus. The caller
// closes the returned connection.
func (a *App) ConnectNATS() (*nats.Conn, *natsbus.Bus, error) {
	nc, err := nats.Connect(a.Config.NATS.URL,
		nats.Name("meetctx"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS at %s: %w", a.Config.NATS.URL, err)
	}
	bus := natsbus.New(nc,
		natsbus.WithSubjects(a.Config.NATS.QuerySubject, a.Config.NATS.EventSubject),
		natsbus.WithLogger(a.Log.Named("nats")),
	)
	return nc, bus, nil
}
