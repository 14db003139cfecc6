package mqtt

import "fmt"

// Topic prefixes for lumen-bridge telemetry.
//
// All topics use the flat scheme: lumenvr/{category}/{id}
const (
	// TopicPrefix is the base for all lumen-bridge topics.
	TopicPrefix = "lumenvr"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "lumenvr/system"
)

// Topics provides builders for lumen-bridge MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	healthTopic := topics.BridgeHealth("lumen-bridge-01")
//	// Returns: "lumenvr/health/lumen-bridge-01"
type Topics struct{}

// BridgeHealth returns the topic for bridge health status.
//
// Example: lumenvr/health/lumen-bridge-01
func (Topics) BridgeHealth(bridgeID string) string {
	return fmt.Sprintf("%s/health/%s", TopicPrefix, bridgeID)
}

// ProviderLifecycle returns the topic for provider state transitions.
//
// Example: lumenvr/lifecycle/provider/lumen-bridge-01
func (Topics) ProviderLifecycle(bridgeID string) string {
	return fmt.Sprintf("%s/lifecycle/provider/%s", TopicPrefix, bridgeID)
}

// DeviceLifecycle returns the topic for device state transitions.
//
// Example: lumenvr/lifecycle/device/LMN-SIM-A1B2C3D4
func (Topics) DeviceLifecycle(serial string) string {
	return fmt.Sprintf("%s/lifecycle/device/%s", TopicPrefix, serial)
}

// DevicePose returns the topic for device pose snapshots.
//
// Example: lumenvr/pose/LMN-SIM-A1B2C3D4
func (Topics) DevicePose(serial string) string {
	return fmt.Sprintf("%s/pose/%s", TopicPrefix, serial)
}

// SystemStatus returns the system status topic, used for online/offline
// announcements and the Last Will message.
//
// Example: lumenvr/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllHealth returns a pattern matching all bridge health updates.
//
// Pattern: lumenvr/health/+
func (Topics) AllHealth() string {
	return fmt.Sprintf("%s/health/+", TopicPrefix)
}

// AllLifecycle returns a pattern matching all lifecycle transitions.
//
// Pattern: lumenvr/lifecycle/+/+
func (Topics) AllLifecycle() string {
	return fmt.Sprintf("%s/lifecycle/+/+", TopicPrefix)
}

// AllPoses returns a pattern matching all device pose topics.
//
// Pattern: lumenvr/pose/+
func (Topics) AllPoses() string {
	return fmt.Sprintf("%s/pose/+", TopicPrefix)
}

// AllTopics returns a pattern matching all lumen-bridge topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: lumenvr/#
func (Topics) AllTopics() string {
	return "lumenvr/#"
}
