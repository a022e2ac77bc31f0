package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/courtside/internal/auth"
	"github.com/pribylovaa/courtside/internal/config"
	"github.com/pribylovaa/courtside/internal/http/middleware"
	"github.com/pribylovaa/courtside/internal/stub/service"
	"github.com/pribylovaa/courtside/internal/stub/storage"
	"github.com/pribylovaa/courtside/internal/stub/storage/memory"
	"github.com/pribylovaa/courtside/internal/stub/storage/postgres"
	"github.com/pribylovaa/courtside/internal/stub/transport/rest"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting courtside-stub", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	var repo storage.Repository
	switch cfg.Stub.Storage {
	case config.StubStoragePostgres:
		pg, err := postgres.New(rootCtx, cfg.Stub.DatabaseURL)
		if err != nil {
			log.Error("postgres_connect_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer pg.Close()

		if err := pg.Migrate(rootCtx); err != nil {
			log.Error("postgres_migrate_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}

		if cfg.Stub.SeedPath != "" {
			log.Warn("seed_ignored", slog.String("path", cfg.Stub.SeedPath), slog.String("storage", cfg.Stub.Storage))
		}

		log.Info("storage_ready", slog.String("storage", config.StubStoragePostgres))
		repo = pg
	default:
		store := memory.New()
		if cfg.Stub.SeedPath != "" {
			n, err := store.LoadFile(cfg.Stub.SeedPath)
			if err != nil {
				log.Error("seed_load_failed", slog.String("path", cfg.Stub.SeedPath), slog.String("err", err.Error()))
				os.Exit(1)
			}

			log.Info("seed_loaded", slog.String("path", cfg.Stub.SeedPath), slog.Int("documents", n))
		}

		log.Info("storage_ready", slog.String("storage", config.StubStorageMemory))
		repo = store
	}

	tokens, err := auth.New(auth.Options{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenTTL,
		Leeway: cfg.Auth.Leeway,
	})
	if err != nil {
		log.Error("auth_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	svc := service.New(repo, cfg.Limits)

	apiHandler := rest.NewRouter(svc, tokens, rest.Options{
		Logger:    log,
		Timeout:   cfg.Timeouts.Service,
		AdminRole: cfg.Auth.AdminRole,
		Routes:    cfg.Routes,
		Metrics:   middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("stub_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
