// Package telemetry publishes bridge observability data over MQTT:
// periodic health snapshots and lifecycle transition events.
package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lumenvr/bridge-core/internal/bridge"
	"github.com/lumenvr/bridge-core/internal/infrastructure/mqtt"
)

// HealthStatus is the overall bridge condition reported to subscribers.
type HealthStatus string

const (
	HealthStarting HealthStatus = "starting"
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthStopping HealthStatus = "stopping"
)

const defaultHealthInterval = 30 * time.Second

// Publisher is the interface for publishing health messages.
// This is typically implemented by an MQTT client.
type Publisher interface {
	// Publish sends a message to a topic with the specified QoS and retention.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// IsConnected returns true if the publisher is connected.
	IsConnected() bool
}

// ProviderStatus exposes the adapter readings the health snapshot includes.
// Satisfied by *bridge.ProviderAdapter.
type ProviderStatus interface {
	State() bridge.ProviderState
	FrameCount() uint64
	HasHandle() bool
}

// HealthMessage is the JSON payload published to the health topic.
type HealthMessage struct {
	BridgeID      string       `json:"bridge_id"`
	Version       string       `json:"version"`
	Status        HealthStatus `json:"status"`
	Reason        string       `json:"reason,omitempty"`
	ProviderState string       `json:"provider_state"`
	FrameCount    uint64       `json:"frame_count"`
	DeviceCount   int          `json:"device_count"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Timestamp     string       `json:"timestamp"`
}

// HealthReporter manages periodic health status reporting.
// It publishes health messages to MQTT at regular intervals.
type HealthReporter struct {
	bridgeID  string
	version   string
	startTime time.Time
	interval  time.Duration
	publisher Publisher
	provider  ProviderStatus

	// Device count (updated externally)
	deviceCount   int
	deviceCountMu sync.RWMutex

	// Shutdown coordination (stopOnce prevents double-close panics)
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	// Logger (optional)
	logger   bridge.Logger
	loggerMu sync.RWMutex
}

// HealthReporterConfig holds configuration for the health reporter.
type HealthReporterConfig struct {
	// BridgeID is the bridge identifier for health messages.
	BridgeID string

	// Version is the bridge software version.
	Version string

	// Interval is how often to publish health status.
	// Default: 30 seconds.
	Interval time.Duration

	// Publisher is the MQTT client for publishing messages.
	Publisher Publisher

	// Provider supplies adapter state for the snapshot.
	Provider ProviderStatus
}

// NewHealthReporter creates a new health reporter.
//
// Returns:
//   - *HealthReporter: Ready to start (call Start to begin reporting)
func NewHealthReporter(cfg HealthReporterConfig) *HealthReporter {
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultHealthInterval
	}

	return &HealthReporter{
		bridgeID:  cfg.BridgeID,
		version:   cfg.Version,
		startTime: time.Now(),
		interval:  interval,
		publisher: cfg.Publisher,
		provider:  cfg.Provider,
		done:      make(chan struct{}),
	}
}

// Start begins periodic health reporting.
// Must be called after creation. Call Stop to shut down.
//
// Parameters:
//   - ctx: Context for cancellation (will stop reporting when cancelled)
func (h *HealthReporter) Start(ctx context.Context) {
	h.wg.Add(1)
	go h.reportLoop(ctx)
}

// Stop gracefully stops health reporting.
// Publishes a final "stopping" status before returning.
// Safe to call multiple times (uses sync.Once).
func (h *HealthReporter) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		//nolint:errcheck // Best-effort during shutdown, nothing we can do if it fails
		h.publishStatus(HealthStopping, "")
	})
}

// SetDeviceCount updates the registered device count.
func (h *HealthReporter) SetDeviceCount(count int) {
	h.deviceCountMu.Lock()
	h.deviceCount = count
	h.deviceCountMu.Unlock()
}

// SetLogger sets the logger for this reporter.
func (h *HealthReporter) SetLogger(logger bridge.Logger) {
	h.loggerMu.Lock()
	h.logger = logger
	h.loggerMu.Unlock()
}

// PublishStarting publishes a "starting" status.
// Called during bridge initialization.
func (h *HealthReporter) PublishStarting() error {
	return h.publishStatus(HealthStarting, "bridge starting")
}

// PublishNow publishes the current health status immediately.
// Useful for forcing an update after a significant event.
func (h *HealthReporter) PublishNow() error {
	status, reason := h.determineStatus()
	return h.publishStatus(status, reason)
}

// Topic returns the health topic this reporter publishes to.
func (h *HealthReporter) Topic() string {
	return mqtt.Topics{}.BridgeHealth(h.bridgeID)
}

// reportLoop runs the periodic health reporting.
func (h *HealthReporter) reportLoop(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Publish initial status
	if err := h.PublishNow(); err != nil {
		h.logError("failed to publish initial health", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			if err := h.PublishNow(); err != nil {
				h.logError("failed to publish health", err)
			}
		}
	}
}

// determineStatus evaluates the current bridge condition.
func (h *HealthReporter) determineStatus() (HealthStatus, string) {
	if h.publisher == nil || !h.publisher.IsConnected() {
		return HealthDegraded, "MQTT disconnected"
	}

	if h.provider == nil || !h.provider.HasHandle() {
		return HealthDegraded, "provider handle absent"
	}

	if h.provider.State() == bridge.ProviderCleanedUp {
		return HealthDegraded, "provider cleaned up"
	}

	return HealthHealthy, ""
}

// publishStatus publishes a health status message.
func (h *HealthReporter) publishStatus(status HealthStatus, reason string) error {
	if h.publisher == nil {
		return nil // No publisher configured
	}

	h.deviceCountMu.RLock()
	deviceCount := h.deviceCount
	h.deviceCountMu.RUnlock()

	msg := HealthMessage{
		BridgeID:      h.bridgeID,
		Version:       h.version,
		Status:        status,
		Reason:        reason,
		DeviceCount:   deviceCount,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if h.provider != nil {
		msg.ProviderState = string(h.provider.State())
		msg.FrameCount = h.provider.FrameCount()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// QoS 1, retained: new subscribers see the last known health
	return h.publisher.Publish(h.Topic(), payload, 1, true)
}

// logError logs an error if logger is set.
func (h *HealthReporter) logError(msg string, err error) {
	h.loggerMu.RLock()
	logger := h.logger
	h.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}
