package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestLifecyclePublisher_ProviderEvent(t *testing.T) {
	pub := newMockPublisher()
	lp := NewLifecyclePublisher("lumen-bridge-01", pub)

	err := lp.RecordTransition(context.Background(), "provider", "provider", "constructed", "initialized")
	if err != nil {
		t.Fatalf("RecordTransition failed: %v", err)
	}

	msgs := pub.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].topic != "lumenvr/lifecycle/provider/lumen-bridge-01" {
		t.Errorf("unexpected topic %q", msgs[0].topic)
	}

	var event LifecycleEvent
	if err := json.Unmarshal(msgs[0].payload, &event); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if event.Entity != "provider" || event.FromState != "constructed" || event.ToState != "initialized" {
		t.Errorf("unexpected event %+v", event)
	}
	if event.BridgeID != "lumen-bridge-01" {
		t.Errorf("unexpected bridge ID %q", event.BridgeID)
	}
}

func TestLifecyclePublisher_DeviceEvent(t *testing.T) {
	pub := newMockPublisher()
	lp := NewLifecyclePublisher("lumen-bridge-01", pub)

	err := lp.RecordTransition(context.Background(), "device", "LMN-SIM-A1B2C3D4", "constructed", "activated")
	if err != nil {
		t.Fatalf("RecordTransition failed: %v", err)
	}

	msgs := pub.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].topic != "lumenvr/lifecycle/device/LMN-SIM-A1B2C3D4" {
		t.Errorf("unexpected topic %q", msgs[0].topic)
	}
}

func TestLifecyclePublisher_SkipsWhenDisconnected(t *testing.T) {
	pub := newMockPublisher()
	pub.setConnected(false)
	lp := NewLifecyclePublisher("lumen-bridge-01", pub)

	if err := lp.RecordTransition(context.Background(), "provider", "provider", "running", "standby"); err != nil {
		t.Fatalf("RecordTransition failed: %v", err)
	}
	if len(pub.messages()) != 0 {
		t.Error("expected no messages when disconnected")
	}
}

func TestLifecyclePublisher_PublishErrorSwallowed(t *testing.T) {
	pub := newMockPublisher()
	pub.publishEr = errors.New("broker rejected")
	lp := NewLifecyclePublisher("lumen-bridge-01", pub)

	if err := lp.RecordTransition(context.Background(), "device", "serial", "activated", "standby"); err != nil {
		t.Errorf("expected nil error on publish failure, got %v", err)
	}
}

func TestLifecyclePublisher_NilPublisher(t *testing.T) {
	lp := NewLifecyclePublisher("lumen-bridge-01", nil)
	if err := lp.RecordTransition(context.Background(), "provider", "provider", "a", "b"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
