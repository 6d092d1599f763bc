package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/tallymap/internal/adapters/http/api"
	"github.com/okian/tallymap/internal/adapters/http/site"
	"github.com/okian/tallymap/internal/adapters/http/swagger"
	"github.com/okian/tallymap/internal/adapters/sink"
	"github.com/okian/tallymap/internal/adapters/source"
	"github.com/okian/tallymap/internal/adapters/ws"
	app "github.com/okian/tallymap/internal/app"
	"github.com/okian/tallymap/internal/config"
	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/pkg/logger"
	"github.com/okian/tallymap/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Default Go collectors duplicate the system metrics we export ourselves.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured until the config is loaded.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error(ctx, "tallymap stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// application is the wired process: refresh service, websocket hub and routes.
type application struct {
	svc  *app.Service
	hub  *ws.Hub
	gate *sink.Gate
	mux  *http.ServeMux
}

// newApplication wires every component from cfg without starting anything.
// The console summary goes to stdout when enabled.
func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger, stdout io.Writer) *application {
	labels := model.Labels{Dem: cfg.DemLabel, Rep: cfg.RepLabel}

	hub := ws.NewHub(
		ws.WithLogger(log.Named("ws")),
		ws.WithLabels(labels),
		ws.WithMaxClients(cfg.MaxWSClients),
	)
	gate := sink.NewGate(hub, sink.WithGateLogger(log.Named("gate")))
	hub.OnMapRendered(func(ctx context.Context) { gate.MarkReady(ctx) })

	display := sink.Fanout{gate, sink.NewMetricsDisplay()}
	if cfg.ConsoleSummary {
		display = append(display, sink.NewConsoleDisplay(stdout, labels))
	}

	svc := app.New(
		app.WithLogger(log.Named("refresh")),
		app.WithFetcher(source.NewHTTPFetcher(source.WithTimeout(cfg.FetchTimeout()))),
		app.WithDisplay(display),
		app.WithSourceURL(cfg.SourceURL),
		app.WithRefreshInterval(cfg.RefreshInterval()),
		app.WithLabels(labels),
		app.WithRegionCodes(cfg.RegionCodes),
	)

	n := cfg.RefreshRatePerMin
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithRefreshLimiter(limiter),
		api.WithWebsocket(hub),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)
	site.Register(ctx, mux)

	return &application{svc: svc, hub: hub, gate: gate, mux: mux}
}

// run serves until ctx ends, then shuts down the server, the hub and the
// refresh loop in that order.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, stdout io.Writer) error {
	a := newApplication(ctx, cfg, log, stdout)

	if err := a.svc.Start(ctx); err != nil {
		return fmt.Errorf("start refresh service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		a.hub.Close()
		a.svc.Stop()
		if err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// startSystemMetricsUpdater updates system metrics until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
