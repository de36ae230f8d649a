package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/josimar-silva/thermocord/internal/app"
	"github.com/josimar-silva/thermocord/internal/client/discord"
	"github.com/josimar-silva/thermocord/internal/client/sensor"
	"github.com/josimar-silva/thermocord/internal/config"
	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
	"github.com/josimar-silva/thermocord/internal/management"
	mgmhealth "github.com/josimar-silva/thermocord/internal/management/health"
	mgmmetrics "github.com/josimar-silva/thermocord/internal/management/metrics"
	"github.com/josimar-silva/thermocord/internal/store"
)

const defaultConfigPath = "config.json"

func configPath() string {
	if path := os.Getenv("THERMOCORD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func initLogger(cfg *config.Config, oldLog *logger.Logger) *logger.Logger {
	log := logger.New(
		logger.LevelFrom(cfg.Settings.Logging.Level),
		logger.FormatFrom(cfg.Settings.Logging.Format),
		nil,
	)
	if err := oldLog.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop original logger: %v\n", err)
	}
	return log
}

func initClients(cfg *config.Config, registry *metrics.Registry, log *logger.Logger) (*discord.Client, *sensor.Client, error) {
	chat, err := discord.NewClient(discord.ClientConfig{ClientID: cfg.ClientID}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	chat.SetMetrics(registry)

	readings, err := sensor.NewClient(sensor.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Settings.Fetch.Timeout,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sensor client: %w", err)
	}
	readings.SetMetrics(registry)

	return chat, readings, nil
}

func startHealthServer(cfg *config.Config, provider mgmhealth.StatusProvider, log *logger.Logger) (*management.Server, error) {
	versionInfo := mgmhealth.VersionInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}

	server := mgmhealth.NewServer(cfg.Settings.Observability.HealthCheck.Port, provider, versionInfo, log)
	if err := server.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start health server: %w", err)
	}
	return server, nil
}

func startMetricsServer(cfg *config.Config, registry *metrics.Registry, log *logger.Logger) (*management.Server, error) {
	server := mgmmetrics.NewServer(cfg.Settings.Observability.Metrics.Port, registry, log)
	if err := server.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}
	return server, nil
}

func stopServer(server *management.Server, log *logger.Logger) {
	if err := server.Stop(); err != nil {
		log.Error("failed to stop management server", "error", err)
	}
}

func run(ctx context.Context) error {
	path := configPath()

	log := logger.NewFromEnvs()
	defer func() {
		if err := log.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to stop logger: %v\n", err)
		}
	}()

	cfg, err := config.Load(path)
	if err != nil {
		log.Error("failed to load configuration", "config_path", path, "error", err)
		return err
	}
	log = initLogger(cfg, log)

	log.Debug("starting thermocord", "config_path", path, "version", Version)

	registry, err := metrics.New()
	if err != nil {
		return fmt.Errorf("failed to create metrics registry: %w", err)
	}
	statusStore := store.NewInMemoryStatusStore()

	chat, readings, err := initClients(cfg, registry, log)
	if err != nil {
		return err
	}

	if cfg.Settings.Observability.HealthCheck.Enabled {
		server, err := startHealthServer(cfg, statusStore, log)
		if err != nil {
			return err
		}
		defer stopServer(server, log)
	}

	if cfg.Settings.Observability.Metrics.Enabled {
		server, err := startMetricsServer(cfg, registry, log)
		if err != nil {
			return err
		}
		defer stopServer(server, log)
	}

	application := app.New(cfg, chat, readings, clockwork.NewRealClock(), statusStore, log)
	application.SetMetrics(registry)

	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := application.Stop(); err != nil {
			log.Error("failed to stop thermocord", "error", err)
		}
	}()

	<-ctx.Done()

	log.Info("shutting down thermocord")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
