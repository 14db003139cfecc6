package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lumenvr/bridge-core/internal/bridge"
	"github.com/lumenvr/bridge-core/internal/infrastructure/mqtt"
)

// LifecycleEvent is the JSON payload published for each state transition.
type LifecycleEvent struct {
	BridgeID  string `json:"bridge_id"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id"`
	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	Timestamp string `json:"timestamp"`
}

// LifecyclePublisher emits state transitions to MQTT. It satisfies
// bridge.Recorder so adapters can report through it directly.
//
// Thread Safety: safe for concurrent use.
type LifecyclePublisher struct {
	bridgeID  string
	publisher Publisher

	logger   bridge.Logger
	loggerMu sync.RWMutex
}

// NewLifecyclePublisher creates a lifecycle publisher for the given bridge.
func NewLifecyclePublisher(bridgeID string, publisher Publisher) *LifecyclePublisher {
	return &LifecyclePublisher{
		bridgeID:  bridgeID,
		publisher: publisher,
	}
}

// SetLogger sets the logger for this publisher.
func (l *LifecyclePublisher) SetLogger(logger bridge.Logger) {
	l.loggerMu.Lock()
	l.logger = logger
	l.loggerMu.Unlock()
}

// RecordTransition publishes a lifecycle event for an entity transition.
// Provider events go to the bridge-scoped topic, device events to the
// per-serial topic. Publish failures are logged, not returned, so a
// flaky broker never blocks adapter state changes.
func (l *LifecyclePublisher) RecordTransition(_ context.Context, entity, id, from, to string) error {
	if l.publisher == nil || !l.publisher.IsConnected() {
		return nil
	}

	event := LifecycleEvent{
		BridgeID:  l.bridgeID,
		Entity:    entity,
		EntityID:  id,
		FromState: from,
		ToState:   to,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		l.logError("failed to marshal lifecycle event", err)
		return nil
	}

	topic := l.topicFor(entity, id)
	if err := l.publisher.Publish(topic, payload, 0, false); err != nil {
		l.logError("failed to publish lifecycle event", err)
	}
	return nil
}

// topicFor maps an entity to its lifecycle topic.
func (l *LifecyclePublisher) topicFor(entity, id string) string {
	if entity == "device" {
		return mqtt.Topics{}.DeviceLifecycle(id)
	}
	return mqtt.Topics{}.ProviderLifecycle(l.bridgeID)
}

func (l *LifecyclePublisher) logError(msg string, err error) {
	l.loggerMu.RLock()
	logger := l.logger
	l.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}
