package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lumenvr/bridge-core/internal/bridge"
)

// mockPublisher records publishes for assertions.
type mockPublisher struct {
	mu        sync.Mutex
	published []publishedMessage
	connected bool
	publishEr error
}

type publishedMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{connected: true}
}

func (m *mockPublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishEr != nil {
		return m.publishEr
	}
	m.published = append(m.published, publishedMessage{topic, payload, qos, retained})
	return nil
}

func (m *mockPublisher) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockPublisher) setConnected(connected bool) {
	m.mu.Lock()
	m.connected = connected
	m.mu.Unlock()
}

func (m *mockPublisher) messages() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

// mockProvider implements ProviderStatus with fixed readings.
type mockProvider struct {
	state     bridge.ProviderState
	frames    uint64
	hasHandle bool
}

func (m *mockProvider) State() bridge.ProviderState { return m.state }
func (m *mockProvider) FrameCount() uint64          { return m.frames }
func (m *mockProvider) HasHandle() bool             { return m.hasHandle }

func TestHealthReporter_PublishNow(t *testing.T) {
	pub := newMockPublisher()
	prov := &mockProvider{state: bridge.ProviderRunning, frames: 42, hasHandle: true}

	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Version:   "1.0.0",
		Publisher: pub,
		Provider:  prov,
	})
	reporter.SetDeviceCount(3)

	if err := reporter.PublishNow(); err != nil {
		t.Fatalf("PublishNow failed: %v", err)
	}

	msgs := pub.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	msg := msgs[0]
	if msg.topic != "lumenvr/health/lumen-bridge-01" {
		t.Errorf("unexpected topic %q", msg.topic)
	}
	if msg.qos != 1 || !msg.retained {
		t.Errorf("expected QoS 1 retained, got qos=%d retained=%v", msg.qos, msg.retained)
	}

	var health HealthMessage
	if err := json.Unmarshal(msg.payload, &health); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if health.Status != HealthHealthy {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if health.BridgeID != "lumen-bridge-01" {
		t.Errorf("unexpected bridge ID %q", health.BridgeID)
	}
	if health.ProviderState != string(bridge.ProviderRunning) {
		t.Errorf("unexpected provider state %q", health.ProviderState)
	}
	if health.FrameCount != 42 {
		t.Errorf("expected frame count 42, got %d", health.FrameCount)
	}
	if health.DeviceCount != 3 {
		t.Errorf("expected device count 3, got %d", health.DeviceCount)
	}
}

func TestHealthReporter_DegradedWhenDisconnected(t *testing.T) {
	pub := newMockPublisher()
	pub.setConnected(false)
	prov := &mockProvider{state: bridge.ProviderRunning, hasHandle: true}

	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Publisher: pub,
		Provider:  prov,
	})

	status, reason := reporter.determineStatus()
	if status != HealthDegraded {
		t.Errorf("expected degraded, got %s", status)
	}
	if reason != "MQTT disconnected" {
		t.Errorf("unexpected reason %q", reason)
	}
}

func TestHealthReporter_DegradedWithoutHandle(t *testing.T) {
	pub := newMockPublisher()
	prov := &mockProvider{state: bridge.ProviderConstructed, hasHandle: false}

	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Publisher: pub,
		Provider:  prov,
	})

	status, reason := reporter.determineStatus()
	if status != HealthDegraded {
		t.Errorf("expected degraded, got %s", status)
	}
	if reason != "provider handle absent" {
		t.Errorf("unexpected reason %q", reason)
	}
}

func TestHealthReporter_DegradedAfterCleanup(t *testing.T) {
	pub := newMockPublisher()
	prov := &mockProvider{state: bridge.ProviderCleanedUp, hasHandle: true}

	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Publisher: pub,
		Provider:  prov,
	})

	status, _ := reporter.determineStatus()
	if status != HealthDegraded {
		t.Errorf("expected degraded, got %s", status)
	}
}

func TestHealthReporter_StartStop(t *testing.T) {
	pub := newMockPublisher()
	prov := &mockProvider{state: bridge.ProviderRunning, hasHandle: true}

	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Interval:  10 * time.Millisecond,
		Publisher: pub,
		Provider:  prov,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter.Start(ctx)
	time.Sleep(35 * time.Millisecond)
	reporter.Stop()

	msgs := pub.messages()
	// Initial publish, at least one tick, final stopping message.
	if len(msgs) < 3 {
		t.Fatalf("expected at least 3 messages, got %d", len(msgs))
	}

	var last HealthMessage
	if err := json.Unmarshal(msgs[len(msgs)-1].payload, &last); err != nil {
		t.Fatalf("failed to parse final payload: %v", err)
	}
	if last.Status != HealthStopping {
		t.Errorf("expected final status stopping, got %s", last.Status)
	}
}

func TestHealthReporter_StopIdempotent(t *testing.T) {
	pub := newMockPublisher()
	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID:  "lumen-bridge-01",
		Publisher: pub,
		Provider:  &mockProvider{state: bridge.ProviderRunning, hasHandle: true},
	})

	ctx := context.Background()
	reporter.Start(ctx)

	reporter.Stop()
	reporter.Stop() // Must not panic
}

func TestHealthReporter_NilPublisher(t *testing.T) {
	reporter := NewHealthReporter(HealthReporterConfig{
		BridgeID: "lumen-bridge-01",
		Provider: &mockProvider{state: bridge.ProviderRunning, hasHandle: true},
	})

	if err := reporter.PublishNow(); err != nil {
		t.Errorf("expected nil error with no publisher, got %v", err)
	}
}

func TestHealthReporter_DefaultInterval(t *testing.T) {
	reporter := NewHealthReporter(HealthReporterConfig{BridgeID: "b"})
	if reporter.interval != defaultHealthInterval {
		t.Errorf("expected default interval %v, got %v", defaultHealthInterval, reporter.interval)
	}
}
