package mqtt

import "errors"

// Sentinel errors for broker operations, matchable with errors.Is.
var (
	// ErrConnectionFailed wraps a failed or timed-out initial connect.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrNotConnected is returned when publishing without a live connection.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrPublishFailed wraps a publish that the broker did not acknowledge.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrEmptyTopic rejects a publish to an empty topic.
	ErrEmptyTopic = errors.New("mqtt: topic cannot be empty")

	// ErrInvalidQoS rejects QoS levels outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level")
)
