package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/core/event"
	"github.com/yndnr/corelink-go/internal/core/service"
	"github.com/yndnr/corelink-go/internal/infra/buildinfo"
	"github.com/yndnr/corelink-go/internal/infra/confloader"
	"github.com/yndnr/corelink-go/internal/infra/shutdown"
	"github.com/yndnr/corelink-go/internal/server/config"
	"github.com/yndnr/corelink-go/internal/server/eventstream"
	"github.com/yndnr/corelink-go/internal/server/httpserver"
	"github.com/yndnr/corelink-go/internal/server/localserver"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		endpoint    = flag.String("endpoint", "", "Override the socket or pipe path")
		logLevel    = flag.String("log-level", "", "Override log.level")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("corelink-service %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *endpoint != "" {
		overrides["server.local.path"] = *endpoint
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting corelink-service",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	ep, err := localserver.NewEndpoint(cfg.Server.Local)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}

	metrics := metric.NewRegistry()
	bus := newBus(cfg.Events, metrics)

	binaries, err := coreBinaries(cfg.Core.Binaries)
	if err != nil {
		return fmt.Errorf("core binaries: %w", err)
	}
	core := service.NewCoreManager(service.CoreManagerConfig{
		BinaryDir:   cfg.Core.BinaryDir,
		Binaries:    binaries,
		WorkDir:     cfg.Core.WorkDir,
		StopTimeout: cfg.Core.StopTimeout,
		LogLines:    cfg.Core.LogLines,
		Bus:         bus,
		Logger:      log,
	})

	stream := eventstream.NewHandler(eventstream.Config{
		Bus:          bus,
		PingInterval: cfg.Events.PingInterval,
		Metrics:      metrics,
		Logger:       log,
	})

	// The router needs the server's connection count and the server needs
	// the router, so the count is read through srv once it exists.
	var srv *localserver.Server

	routerCfg := httpserver.DefaultRouterConfig()
	routerCfg.Core = core
	routerCfg.Logger = log
	routerCfg.Metrics = metrics
	routerCfg.MetricsEnabled = cfg.Metrics.Enabled
	routerCfg.RateLimit = 0
	if cfg.Server.RateLimit.Enabled {
		routerCfg.RateLimit = cfg.Server.RateLimit.RPS
		routerCfg.RateBurst = cfg.Server.RateLimit.Burst
	}
	routerCfg.Connections = func() int64 { return srv.ActiveConnections() }
	routerCfg.Sessions = stream.Active
	routerCfg.StartedAt = time.Now()

	srv = localserver.New(localserver.Config{
		Endpoint:          ep,
		API:               httpserver.NewRouter(routerCfg),
		Stream:            stream,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Metrics:           metrics,
		Logger:            log,
	})

	metrics.MustRegister(metric.NewCollector(func() metric.Stats {
		st := core.Status()
		return metric.Stats{
			CoreRunning:      st.Running(),
			CoreRestarts:     st.Restarts,
			EventSubscribers: bus.Subscribers(),
		}
	}))

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout + cfg.Core.StopTimeout)

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, overrides, log)
		if err != nil {
			log.Warn("configuration hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping core")
		return core.Close(ctx)
	})

	serveDone := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(shutdownHandler.Context())
		if err != nil && shutdownHandler.Context().Err() == nil {
			// Transport or accept failure: stop everything else too.
			shutdownHandler.Trigger(err)
			err = nil
		}
		serveDone <- err
	}()

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down local server")
		select {
		case err := <-serveDone:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	go func() {
		select {
		case <-srv.Ready():
			log.Info("service started", "endpoint", ep.Path)
		case <-shutdownHandler.Context().Done():
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	if cause := shutdownHandler.Cause(); cause != nil {
		return cause
	}

	log.Info("service stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides.
func loadConfig(configFile string, overrides map[string]any) (*config.ServiceConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig reloads the file on change and applies the settings that can
// change at runtime. Everything else needs a restart.
func watchConfig(configFile string, overrides map[string]any, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(log),
		confloader.WithDebounce(200*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg, err := loadConfig(configFile, overrides)
		if err != nil {
			log.Warn("configuration reload rejected", "error", err)
			return
		}
		if cfg.Log.Level == logger.GetLevel() {
			return
		}
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("log level not applied", "level", cfg.Log.Level, "error", err)
			return
		}
		log.Info("log level changed", "level", cfg.Log.Level)
	})
	watcher.StartAsync()
	return watcher, nil
}

// newBus creates the event bus and counts drops per event type.
func newBus(cfg config.EventsSection, metrics *metric.Registry) *event.Bus {
	return event.NewBus(
		event.WithBufferSize(cfg.BufferSize),
		event.WithDropHook(func(ev event.Event) {
			metrics.EventDropped(ev.Type)
		}),
	)
}

// coreBinaries converts configured executable paths keyed by core type name.
func coreBinaries(in map[string]string) (map[domain.CoreType]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[domain.CoreType]string, len(in))
	var errs []error
	for name, path := range in {
		t, err := domain.ParseCoreType(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[t] = path
	}
	return out, errors.Join(errs...)
}
