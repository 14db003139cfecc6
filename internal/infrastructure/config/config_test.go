package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
bridge:
  id: "test-bridge"
  device_class: "hmd"
  tick_rate_hz: 90
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  enabled: true
  host: "0.0.0.0"
  port: 8090
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Bridge.ID != "test-bridge" {
		t.Errorf("Bridge.ID = %q, want %q", cfg.Bridge.ID, "test-bridge")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
bridge:
  id: ""
database:
  path: "/tmp/test.db"
api:
  port: 8090
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty bridge.id, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	// validJWTSecret is a secret that meets the 32-character minimum requirement
	validJWTSecret := "test-secret-key-at-least-32-chars!"

	validBridge := BridgeConfig{ID: "bridge-001", DeviceClass: "hmd", TickRateHz: 90}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: false,
		},
		{
			name: "missing bridge ID",
			config: &Config{
				Bridge:   BridgeConfig{ID: "", TickRateHz: 90},
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "tick rate out of range",
			config: &Config{
				Bridge:   BridgeConfig{ID: "bridge-001", TickRateHz: 0},
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "unknown device class",
			config: &Config{
				Bridge:   BridgeConfig{ID: "bridge-001", DeviceClass: "toaster", TickRateHz: 90},
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "missing database path",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: ""},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "invalid QoS",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 3},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "invalid port low",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 0},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "invalid port high",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 70000},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret}},
			},
			wantErr: true,
		},
		{
			name: "missing JWT secret",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: ""}},
			},
			wantErr: true,
		},
		{
			name: "JWT secret too short",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: true, Port: 8090},
				Security: SecurityConfig{JWT: JWTConfig{Secret: "short"}},
			},
			wantErr: true,
		},
		{
			name: "API disabled skips JWT check",
			config: &Config{
				Bridge:   validBridge,
				Database: DatabaseConfig{Path: "/data/lumenbridge.db"},
				MQTT:     MQTTConfig{QoS: 1},
				API:      APIConfig{Enabled: false},
				Security: SecurityConfig{JWT: JWTConfig{Secret: ""}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestConfig_TickInterval(t *testing.T) {
	cfg := &Config{Bridge: BridgeConfig{TickRateHz: 100}}

	if got := cfg.TickInterval().Milliseconds(); got != 10 {
		t.Errorf("TickInterval() = %vms, want 10ms", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("LUMENBRIDGE_SERIAL", "LMN-ENV-0001")
	t.Setenv("LUMENBRIDGE_DATABASE_PATH", "/custom/path.db")
	t.Setenv("LUMENBRIDGE_MQTT_HOST", "mqtt.example.com")
	t.Setenv("LUMENBRIDGE_MQTT_USERNAME", "testuser")
	t.Setenv("LUMENBRIDGE_MQTT_PASSWORD", "testpass")
	t.Setenv("LUMENBRIDGE_API_HOST", "192.168.1.1")
	t.Setenv("LUMENBRIDGE_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("LUMENBRIDGE_JWT_SECRET", "jwt-secret")

	applyEnvOverrides(cfg)

	if cfg.Bridge.Serial != "LMN-ENV-0001" {
		t.Errorf("Bridge.Serial = %q, want %q", cfg.Bridge.Serial, "LMN-ENV-0001")
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}

	if cfg.Security.JWT.Secret != "jwt-secret" {
		t.Errorf("Security.JWT.Secret = %q, want %q", cfg.Security.JWT.Secret, "jwt-secret")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Bridge.ID == "" {
		t.Error("defaultConfig should have non-empty Bridge.ID")
	}

	if cfg.Bridge.TickRateHz != 90 {
		t.Errorf("defaultConfig Bridge.TickRateHz = %d, want 90", cfg.Bridge.TickRateHz)
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.API.Port != 8090 {
		t.Errorf("defaultConfig API.Port = %d, want 8090", cfg.API.Port)
	}
}
