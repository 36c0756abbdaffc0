package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	sthttp "github.com/Strob0t/SecTrack/internal/adapter/http"
	"github.com/Strob0t/SecTrack/internal/adapter/markdowndoc"
	"github.com/Strob0t/SecTrack/internal/adapter/memory"
	stnats "github.com/Strob0t/SecTrack/internal/adapter/nats"
	stotel "github.com/Strob0t/SecTrack/internal/adapter/otel"
	"github.com/Strob0t/SecTrack/internal/adapter/postgres"
	"github.com/Strob0t/SecTrack/internal/adapter/natskv"
	"github.com/Strob0t/SecTrack/internal/adapter/ristretto"
	"github.com/Strob0t/SecTrack/internal/adapter/tiered"
	"github.com/Strob0t/SecTrack/internal/adapter/ws"
	"github.com/Strob0t/SecTrack/internal/config"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/logger"
	"github.com/Strob0t/SecTrack/internal/port/cache"
	"github.com/Strob0t/SecTrack/internal/port/database"
	"github.com/Strob0t/SecTrack/internal/service"
)

// reportKVBucket is the JetStream KV bucket backing the distributed
// report cache level.
const reportKVBucket = "SECTRACK_REPORTS"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Telemetry ---
	otelShutdown, err := stotel.Setup(ctx, cfg.Telemetry, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	metrics, err := stotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// --- Persistence ---
	var store database.Store
	switch cfg.Store.Driver {
	case "memory":
		store = memory.NewStore()
		slog.Info("using in-memory store")
	default:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		slog.Info("postgres connected")

		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		slog.Info("migrations applied")

		store = postgres.NewStore(pool)
	}

	// --- Events ---
	queue, err := stnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	// --- Cache ---
	local, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer local.Close()

	var reportCache cache.Cache = local
	if cfg.Cache.Distributed {
		kv, err := queue.KeyValue(ctx, reportKVBucket, cfg.Cache.ReportTTL)
		if err != nil {
			return fmt.Errorf("cache kv: %w", err)
		}
		reportCache = tiered.New(local, natskv.New(kv), cfg.Cache.ReportTTL)
		slog.Info("distributed report cache enabled", "bucket", reportKVBucket)
	}

	// --- Services ---
	hub := ws.NewHub()
	engine := project.Engine{EmptyPhaseCompletes: cfg.Checklist.EmptyPhaseCompletes}
	writer := markdowndoc.New()

	handlers := &sthttp.Handlers{
		Projects: service.NewProjectService(store, reportCache),
		Tasks:    service.NewTaskService(store, queue, hub, reportCache, engine, metrics),
		Reports:  service.NewReportService(store, reportCache, writer, queue, cfg.Cache.ReportTTL, metrics),
	}

	// --- Event audit ---
	audit := service.NewAuditService(queue, log)
	stopAudit, err := audit.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("audit subscribe: %w", err)
	}

	// --- HTTP ---
	r := chi.NewRouter()

	r.Use(sthttp.CORS(cfg.Server.CORSOrigin))
	r.Use(sthttp.SecurityHeaders)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(sthttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(stotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.Timeout(30 * time.Second))

	if cfg.Server.RateLimitRPS > 0 {
		rl := sthttp.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		defer rl.StartCleanup(time.Minute, 10*time.Minute)()
		r.Use(rl.Handler)
	}
	r.Use(sthttp.Idempotency(reportCache, 24*time.Hour))

	r.Get("/health", healthHandler(cfg, queue))
	r.Get("/ws", hub.HandleWS)

	sthttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// Stop the event consumer and flush pending messages after the
		// server has quiesced; handlers publish until then.
		stopAudit()
		if drainErr := queue.Drain(); drainErr != nil {
			slog.Warn("nats drain failed", "error", drainErr)
		}
		return err
	})

	return g.Wait()
}

// healthHandler returns an http.HandlerFunc that reports service health.
func healthHandler(cfg *config.Config, queue *stnats.Queue) http.HandlerFunc {
	type healthStatus struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		NATS   string `json:"nats"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		natsState := "disconnected"
		if queue.IsConnected() {
			natsState = "connected"
		}
		status := healthStatus{
			Status: "ok",
			Store:  cfg.Store.Driver,
			NATS:   natsState,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
