// Command host runs the session host service.
//
// The host owns the live sessions: it orders every submit, join and
// evaluate action, applies them to the state machine and checkpoints
// the result. Sessions are created over the HTTP API and survive
// restarts when Postgres is configured.
//
// # Configuration
//
// Environment variables (flags override):
//
//	LISTEN_ADDR        HTTP listen address (default :8080)
//	METRICS_ADDR       Prometheus metrics address (empty disables)
//	ENABLE_PPROF       expose /debug pprof handlers
//	LOG_JSON           log JSON instead of text
//	ENABLE_CORS        allow cross-origin requests
//	EVALUATOR_TOKEN    bearer token for /pending and /evaluate
//	ADMIN_TOKEN        bearer token for session creation
//	POSTGRES_HOST      enable Postgres persistence when set
//	POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DATABASE
//
// # Usage
//
//	go run ./cmd/host --listen-addr=:8080 --metrics-addr=:9090
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhouhanhanhan/sciencegame/api/httpserver"
	"github.com/zhouhanhanhan/sciencegame/cmd/common"
	"github.com/zhouhanhanhan/sciencegame/services"
)

func main() {
	var (
		listenAddr  = flag.String("listen-addr", "", "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", "", "Metrics listen address")
		pprof       = flag.Bool("pprof", false, "Enable pprof debug API")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
	)
	flag.Parse()

	cfg, err := common.LoadServiceConfig()
	if err != nil {
		panic(err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *pprof {
		cfg.EnablePprof = true
	}
	if *logJSON {
		cfg.LogJSON = true
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *services.ServiceConfig) error {
	log := common.SetupLogger(cfg.LogJSON, "host")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store services.Store = services.NewMemoryStore()
	if cfg.Postgres.Enabled() {
		pgStore, err := services.NewPostgresStore(&cfg.Postgres)
		if err != nil {
			return err
		}
		defer pgStore.Close()
		store = pgStore
		log.Info("using Postgres persistence", "host", cfg.Postgres.Host)
	} else {
		log.Info("using in-memory persistence")
	}

	registry := services.NewSessionRegistry(ctx, store, log)
	if err := registry.Restore(ctx); err != nil {
		return err
	}
	log.Info("sessions restored", "count", len(registry.Sessions()))

	svc := services.NewHostService(cfg, registry, log)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cfg.ListenAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              cfg.EnablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, svc)
	if err != nil {
		return err
	}

	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down host")
	srv.Shutdown()
	return nil
}
