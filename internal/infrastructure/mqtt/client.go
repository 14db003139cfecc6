package mqtt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lumenvr/bridge-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	keepAlive      = 60 * time.Second

	// disconnectQuiesce gives in-flight publishes time to drain, in ms.
	disconnectQuiesce = 1000

	// maxPayloadSize caps outgoing payloads at 1MB, matching common
	// broker defaults.
	maxPayloadSize = 1 << 20

	maxQoS = 2
)

// Logger is the optional logging surface the client uses for connection
// events. Satisfied by logging.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Client is a publish-only MQTT connection for bridge telemetry.
//
// The bridge never subscribes; health snapshots, lifecycle transitions,
// and pose samples flow out, and the broker's retained messages plus the
// Last Will announcement let consumers track liveness.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	mu        sync.Mutex
	connected bool

	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// statusPayload is the body published to the system status topic, both as
// the Last Will and on connect/close.
type statusPayload struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func encodeStatus(status, clientID, reason string) []byte {
	payload, _ := json.Marshal(statusPayload{ //nolint:errcheck // fixed struct cannot fail to marshal
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return payload
}

// Connect dials the broker and returns a client ready to publish.
//
// The connection carries a Last Will on lumenvr/system/status so consumers
// see "offline" if the bridge dies without a clean shutdown, and the paho
// auto-reconnect keeps retrying with backoff after transient drops.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{cfg: cfg}

	opts := c.buildOptions()
	c.client = pahomqtt.NewClient(opts)

	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: no broker response within %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect handler also sets this, but it runs asynchronously;
	// mark connected here so IsConnected is true when Connect returns.
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	return c, nil
}

func (c *Client) buildOptions() *pahomqtt.ClientOptions {
	cfg := c.cfg
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)).
		SetClientID(cfg.Broker.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}
	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	will := encodeStatus("offline", cfg.Broker.ClientID, "unexpected_disconnect")
	opts.SetBinaryWill(Topics{}.SystemStatus(), will, 1, true)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) { c.handleConnect() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.handleDisconnect(err) })

	return opts
}

// handleConnect runs on the initial connection and every reconnect.
func (c *Client) handleConnect() {
	c.mu.Lock()
	c.connected = true
	callback := c.onConnect
	c.mu.Unlock()

	online := encodeStatus("online", c.cfg.Broker.ClientID, "")
	c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, online)

	if callback != nil {
		callback()
	}
}

func (c *Client) handleDisconnect(err error) {
	c.mu.Lock()
	c.connected = false
	callback := c.onDisconnect
	logger := c.logger
	c.mu.Unlock()

	if logger != nil {
		logger.Warn("mqtt connection lost", "error", err)
	}
	if callback != nil {
		callback(err)
	}
}

// Publish sends one message and waits for broker acknowledgment.
//
// Telemetry callers treat a returned error as "this sample was dropped";
// nothing in the bridge retries a failed publish.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrEmptyTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte cap", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: no acknowledgment within %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close announces a graceful shutdown on the status topic, then
// disconnects. The explicit "graceful_shutdown" reason distinguishes a
// clean exit from the Last Will the broker fires on a crash.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		offline := encodeStatus("offline", c.cfg.Broker.ClientID, "graceful_shutdown")
		token := c.client.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, offline)
		token.WaitTimeout(publishTimeout)
	}

	c.client.Disconnect(disconnectQuiesce)

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return nil
}

// HealthCheck reports whether the broker connection is currently up.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected returns the last known connection state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnect registers a callback for connect and reconnect events.
func (c *Client) SetOnConnect(callback func()) {
	c.mu.Lock()
	c.onConnect = callback
	c.mu.Unlock()
}

// SetOnDisconnect registers a callback for lost connections.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.mu.Lock()
	c.onDisconnect = callback
	c.mu.Unlock()
}

// SetLogger sets the logger for connection events.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}
