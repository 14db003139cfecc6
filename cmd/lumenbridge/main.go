// lumen-bridge - VR driver adapter bridge
//
// This is the main entry point for the lumen-bridge binary. It hosts a
// simulated device backend behind the runtime adapter layer, drives it with
// the runtime simulator, and exposes lifecycle telemetry over MQTT, SQLite,
// InfluxDB, and a debug HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lumenvr/bridge-core/migrations"

	"github.com/lumenvr/bridge-core/internal/api"
	"github.com/lumenvr/bridge-core/internal/backend/sim"
	"github.com/lumenvr/bridge-core/internal/bridge"
	"github.com/lumenvr/bridge-core/internal/handle"
	"github.com/lumenvr/bridge-core/internal/host"
	"github.com/lumenvr/bridge-core/internal/hostsim"
	"github.com/lumenvr/bridge-core/internal/infrastructure/config"
	"github.com/lumenvr/bridge-core/internal/infrastructure/database"
	"github.com/lumenvr/bridge-core/internal/infrastructure/influxdb"
	"github.com/lumenvr/bridge-core/internal/infrastructure/logging"
	"github.com/lumenvr/bridge-core/internal/infrastructure/mqtt"
	"github.com/lumenvr/bridge-core/internal/journal"
	"github.com/lumenvr/bridge-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// metricsInterval is how often frame metrics are flushed to InfluxDB.
const metricsInterval = 10 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting lumen-bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database for the lifecycle journal
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	lifecycleJournal := journal.New(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the adapter stack: handle registry, simulated backend, provider
	// adapter
	registry := handle.NewRegistry()
	simProvider := sim.NewProvider(registry, sim.Config{
		Serial:       cfg.Bridge.Serial,
		Class:        deviceClassFromConfig(cfg.Bridge.DeviceClass),
		BlockStandby: cfg.Bridge.BlockStandby,
	})
	simProvider.SetLogger(log)

	providerAdapter := bridge.NewProviderAdapter(registry, func() bridge.ProviderBackend {
		return simProvider
	})
	providerAdapter.SetLogger(log)

	// Start debug API server (optional)
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Security: cfg.Security,
			Logger:   log,
			Provider: providerAdapter,
			Devices:  simProvider,
			Journal:  lifecycleJournal,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			log.Info("stopping API server")
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	// Compose the lifecycle recorder: journal always, plus MQTT, InfluxDB,
	// and WebSocket sinks when configured
	recorder := buildRecorder(cfg, lifecycleJournal, mqttClient, influxClient, apiServer)
	providerAdapter.SetRecorder(recorder)
	simProvider.SetRecorder(recorder)

	// Start health reporting (requires MQTT)
	var healthReporter *telemetry.HealthReporter
	if mqttClient != nil {
		healthReporter = telemetry.NewHealthReporter(telemetry.HealthReporterConfig{
			BridgeID:  cfg.Bridge.ID,
			Version:   version,
			Interval:  cfg.GetHealthInterval(),
			Publisher: mqttClient,
			Provider:  providerAdapter,
		})
		healthReporter.SetLogger(log)
		if pubErr := healthReporter.PublishStarting(); pubErr != nil {
			log.Warn("failed to publish starting status", "error", pubErr)
		}
		healthReporter.Start(ctx)
		defer healthReporter.Stop()
		log.Info("health reporter started", "interval", cfg.GetHealthInterval())
	}

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Periodic frame metrics and device count refresh
	go metricsLoop(ctx, cfg, providerAdapter, simProvider, influxClient, healthReporter)

	// Drive the provider with the runtime simulator. This blocks until the
	// context is cancelled, then performs the runtime's teardown ordering.
	runtime := hostsim.NewRuntime(cfg.Bridge.SessionID, sim.HostInterfaceVersion)
	runtime.SetLogger(log)

	log.Info("runtime drive loop starting",
		"bridge_id", cfg.Bridge.ID,
		"tick_rate_hz", cfg.Bridge.TickRateHz,
	)
	if driveErr := runtime.Drive(ctx, providerAdapter, cfg.TickInterval()); driveErr != nil {
		return fmt.Errorf("driving provider: %w", driveErr)
	}

	log.Info("shutdown signal received, releasing handles")

	// Runtime teardown has run; release the adapter-owned handles.
	for _, adapter := range simProvider.Adapters() {
		adapter.Destroy()
	}
	providerAdapter.Destroy()

	log.Info("lumen-bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LUMENBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMENBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// deviceClassFromConfig maps the YAML class name to the runtime enumerator.
// Unknown spellings are caught by config validation before this runs.
func deviceClassFromConfig(name string) host.DeviceClass {
	switch name {
	case "controller":
		return host.ClassController
	case "generic_tracker":
		return host.ClassGenericTracker
	case "tracking_reference":
		return host.ClassTrackingReference
	default:
		return host.ClassHMD
	}
}

// buildRecorder composes the configured lifecycle transition sinks.
func buildRecorder(cfg *config.Config, j *journal.Journal, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) bridge.Recorder {
	recorders := []bridge.Recorder{j}

	if mqttClient != nil {
		recorders = append(recorders,
			telemetry.NewLifecyclePublisher(cfg.Bridge.ID, mqttClient))
	}
	if influxClient != nil {
		recorders = append(recorders, influxRecorder{client: influxClient})
	}
	if apiServer != nil {
		recorders = append(recorders, hubRecorder{server: apiServer})
	}

	return multiRecorder(recorders)
}

// multiRecorder fans one transition out to every configured sink. The first
// sink error is returned; later sinks still run.
type multiRecorder []bridge.Recorder

func (m multiRecorder) RecordTransition(ctx context.Context, entity, id, from, to string) error {
	var firstErr error
	for _, r := range m {
		if err := r.RecordTransition(ctx, entity, id, from, to); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// influxRecorder adapts the InfluxDB client to the lifecycle recorder.
type influxRecorder struct {
	client *influxdb.Client
}

func (r influxRecorder) RecordTransition(_ context.Context, entity, id, from, to string) error {
	r.client.WriteLifecycleTransition(entity, id, from, to)
	return nil
}

// hubRecorder broadcasts transitions to WebSocket clients on the lifecycle
// channel.
type hubRecorder struct {
	server *api.Server
}

func (r hubRecorder) RecordTransition(_ context.Context, entity, id, from, to string) error {
	hub := r.server.Hub()
	if hub == nil {
		return nil
	}
	hub.Broadcast(api.ChannelLifecycle, map[string]string{
		"entity":     entity,
		"entity_id":  id,
		"from_state": from,
		"to_state":   to,
	})
	return nil
}

// metricsLoop periodically writes frame metrics and pose samples to
// InfluxDB and refreshes the health reporter's device count.
func metricsLoop(ctx context.Context, cfg *config.Config, provider *bridge.ProviderAdapter, devices *sim.Provider, influxClient *influxdb.Client, health *telemetry.HealthReporter) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	var lastFrames uint64
	lastSample := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frames := provider.FrameCount()
			now := time.Now()

			if influxClient != nil && frames > lastFrames {
				elapsed := now.Sub(lastSample)
				perFrameMs := elapsed.Seconds() * 1000 / float64(frames-lastFrames)
				influxClient.WriteFrameMetric(cfg.Bridge.ID, perFrameMs, frames)
			}
			lastFrames = frames
			lastSample = now

			adapters := devices.Adapters()
			if influxClient != nil {
				for _, adapter := range adapters {
					if adapter.State() != bridge.DeviceActivated {
						continue
					}
					pose := adapter.GetPose()
					influxClient.WritePoseSample(adapter.Serial(), pose.Position.X, pose.Position.Y, pose.Position.Z)
				}
			}

			if health != nil {
				health.SetDeviceCount(len(adapters))
			}
		}
	}
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
