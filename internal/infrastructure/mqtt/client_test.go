package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lumenvr/bridge-core/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "lumen-bridge-01",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func TestEncodeStatus(t *testing.T) {
	payload := encodeStatus("offline", "lumen-bridge-01", "graceful_shutdown")

	var status statusPayload
	if err := json.Unmarshal(payload, &status); err != nil {
		t.Fatalf("unmarshal status payload: %v", err)
	}
	if status.Status != "offline" {
		t.Errorf("status = %q, want offline", status.Status)
	}
	if status.ClientID != "lumen-bridge-01" {
		t.Errorf("client_id = %q, want lumen-bridge-01", status.ClientID)
	}
	if status.Reason != "graceful_shutdown" {
		t.Errorf("reason = %q, want graceful_shutdown", status.Reason)
	}
	if _, err := time.Parse(time.RFC3339, status.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", status.Timestamp, err)
	}
}

func TestEncodeStatus_OmitsEmptyReason(t *testing.T) {
	payload := encodeStatus("online", "lumen-bridge-01", "")
	if strings.Contains(string(payload), "reason") {
		t.Errorf("online status should omit reason field, got %s", payload)
	}
}

func TestBuildOptions(t *testing.T) {
	c := &Client{cfg: testConfig()}
	opts := c.buildOptions()

	if len(opts.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "lumen-bridge-01" {
		t.Errorf("client ID = %q, want lumen-bridge-01", opts.ClientID)
	}
	if !opts.AutoReconnect {
		t.Error("expected auto-reconnect enabled")
	}
}

func TestBuildOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	c := &Client{cfg: cfg}
	opts := c.buildOptions()

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("expected a TLS config")
	}
}

func TestBuildOptions_Auth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "bridge"
	cfg.Auth.Password = "secret"
	c := &Client{cfg: cfg}
	opts := c.buildOptions()

	if opts.Username != "bridge" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q, want bridge/secret", opts.Username, opts.Password)
	}
}

func TestBuildOptions_LastWill(t *testing.T) {
	c := &Client{cfg: testConfig()}
	opts := c.buildOptions()

	if !opts.WillEnabled {
		t.Fatal("expected the Last Will to be set")
	}
	if opts.WillTopic != "lumenvr/system/status" {
		t.Errorf("will topic = %q, want lumenvr/system/status", opts.WillTopic)
	}
	if !opts.WillRetained {
		t.Error("expected a retained Last Will")
	}

	var status statusPayload
	if err := json.Unmarshal(opts.WillPayload, &status); err != nil {
		t.Fatalf("unmarshal will payload: %v", err)
	}
	if status.Reason != "unexpected_disconnect" {
		t.Errorf("will reason = %q, want unexpected_disconnect", status.Reason)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{cfg: testConfig()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 0, ErrEmptyTopic},
		{"qos too high", "lumenvr/health/b", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "lumenvr/health/b", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"not connected", "lumenvr/health/b", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{cfg: testConfig()}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck_CanceledContext(t *testing.T) {
	c := &Client{cfg: testConfig()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestIsConnected_ZeroClient(t *testing.T) {
	c := &Client{cfg: testConfig()}
	if c.IsConnected() {
		t.Error("zero client reports connected")
	}
}

func TestClose_NeverConnected(t *testing.T) {
	c := &Client{cfg: testConfig()}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client = %v, want nil", err)
	}
}

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"bridge health", topics.BridgeHealth("lumen-bridge-01"), "lumenvr/health/lumen-bridge-01"},
		{"provider lifecycle", topics.ProviderLifecycle("lumen-bridge-01"), "lumenvr/lifecycle/provider/lumen-bridge-01"},
		{"device lifecycle", topics.DeviceLifecycle("LMN-SIM-A1B2C3D4"), "lumenvr/lifecycle/device/LMN-SIM-A1B2C3D4"},
		{"device pose", topics.DevicePose("LMN-SIM-A1B2C3D4"), "lumenvr/pose/LMN-SIM-A1B2C3D4"},
		{"system status", topics.SystemStatus(), "lumenvr/system/status"},
		{"all health", topics.AllHealth(), "lumenvr/health/+"},
		{"all lifecycle", topics.AllLifecycle(), "lumenvr/lifecycle/+/+"},
		{"all poses", topics.AllPoses(), "lumenvr/pose/+"},
		{"everything", topics.AllTopics(), "lumenvr/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
