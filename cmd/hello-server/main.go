package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sherifabdlnaby/threadpool"
	"github.com/sherifabdlnaby/threadpool/internal/config"
	"github.com/sherifabdlnaby/threadpool/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hello-server:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	workers := flag.Int("workers", 0, "number of pool workers (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "addr":
			cfg.Addr = *addr
		}
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	delay, _ := cfg.Delay()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := threadpool.NewMetrics(reg, "hello")

	pool, err := threadpool.New(cfg.Workers, threadpool.WithLogger(logger), threadpool.WithMetrics(metrics))
	if err != nil {
		return err
	}
	// Every connection already accepted is answered before the workers exit.
	defer pool.Close()

	l, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	srv := server.New(l, pool,
		server.WithLogger(logger),
		server.WithSleepDelay(delay),
		server.WithMaxRequests(cfg.MaxRequests),
	)

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
		defer metricsServer.Close()

		logger.Info("serving metrics", slog.String("addr", cfg.MetricsAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info("hello-server listening",
		slog.String("addr", srv.Addr().String()),
		slog.Int("workers", cfg.Workers),
	)

	if err := srv.Serve(); err != nil {
		return err
	}

	logger.Info("shutting down")

	return nil
}
