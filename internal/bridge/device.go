package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumenvr/bridge-core/internal/handle"
	"github.com/lumenvr/bridge-core/internal/host"
)

// DeviceState is the implicit lifecycle state of a device adapter.
type DeviceState string

const (
	DeviceConstructed DeviceState = "constructed"
	DeviceActivated   DeviceState = "activated"
	DeviceStandby     DeviceState = "standby"
	DeviceDeactivated DeviceState = "deactivated"
)

// DeviceAdapter implements the runtime's per-device contract over a backend
// device reached through the handle registry.
//
// The adapter wraps a device the backend has already constructed; it never
// builds backend devices itself. It owns the resulting handle for its whole
// lifetime and destroys it exactly once.
//
// Thread Safety:
//   - The runtime drives the lifecycle entry points from a single thread,
//     but State, DeviceID, Serial, and HasHandle are read concurrently by
//     the debug API's device listing and pose stream. mu guards the
//     identity fields and token.
type DeviceAdapter struct {
	reg *handle.Registry

	mu    sync.Mutex
	token handle.Token
	state DeviceState

	// deviceID is assigned by the runtime at activation. Zero until then.
	// Retained even when the backend rejects activation, so a runtime
	// retry with the same index is idempotent.
	deviceID uint32

	serial string

	logger   Logger
	recorder Recorder
}

// WrapDevice wraps an already-created backend device. A nil backend yields
// nil; there is no partially constructed adapter.
func WrapDevice(reg *handle.Registry, backend DeviceBackend) *DeviceAdapter {
	if reg == nil || backend == nil {
		return nil
	}
	return &DeviceAdapter{
		reg:    reg,
		token:  reg.Create(backend),
		state:  DeviceConstructed,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the adapter.
func (d *DeviceAdapter) SetLogger(logger Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// SetRecorder sets the optional lifecycle recorder.
func (d *DeviceAdapter) SetRecorder(rec Recorder) {
	d.recorder = rec
}

// SetSerial labels the adapter with the serial it was registered under.
// Used only for diagnostics; the runtime identifies devices by index.
func (d *DeviceAdapter) SetSerial(serial string) {
	d.mu.Lock()
	d.serial = serial
	d.mu.Unlock()
}

func (d *DeviceAdapter) backend() (DeviceBackend, bool) {
	d.mu.Lock()
	token := d.token
	d.mu.Unlock()

	entity, ok := d.reg.Resolve(token)
	if !ok {
		return nil, false
	}
	b, ok := entity.(DeviceBackend)
	return b, ok
}

// Activate stores the runtime-assigned device index, then forwards
// activation to the backend. The index is stored unconditionally, before
// the forward and regardless of its outcome, so a retry with the same
// index finds the same stored identity.
func (d *DeviceAdapter) Activate(deviceID uint32) host.InitError {
	d.mu.Lock()
	d.deviceID = deviceID
	d.mu.Unlock()

	b, ok := d.backend()
	if !ok {
		d.logger.Debug("activate on absent device handle", "device_id", deviceID)
		return host.InitErrorInitCanceled
	}

	if rc := b.Activate(deviceID); rc != backendOK {
		d.logger.Warn("backend rejected activation", "device_id", deviceID, "code", rc)
		return host.InitErrorInitCanceled
	}

	d.transition(DeviceActivated)
	d.logger.Info("device activated", "device_id", deviceID, "serial", d.Serial())
	return host.InitErrorNone
}

// Deactivate forwards when a handle is present and moves to Deactivated
// unconditionally; forwarding failure is not observable here, matching the
// provider's fire-and-forget frame policy.
func (d *DeviceAdapter) Deactivate() {
	if b, ok := d.backend(); ok {
		b.Deactivate()
	}
	d.transition(DeviceDeactivated)
}

// EnterStandby forwards when a handle is present. There is no device-level
// LeaveStandby; the runtime re-activates instead.
func (d *DeviceAdapter) EnterStandby() {
	b, ok := d.backend()
	if !ok {
		return
	}
	b.EnterStandby()
	d.transition(DeviceStandby)
}

// GetComponent reports every named capability as unsupported. This is the
// contract today, not an oversight: component resolution keyed by name is
// the backend's to provide once it exposes any. Callers asking for display
// or camera components are told "not present".
func (d *DeviceAdapter) GetComponent(name string) host.Capability {
	_ = name
	return nil
}

// DebugRequest writes an empty response when the buffer has room for one.
// No backend interaction.
func (d *DeviceAdapter) DebugRequest(request string, response []byte) {
	_ = request
	if len(response) >= 1 {
		response[0] = 0
	}
}

// GetPose returns the identity pose: zero rotation with unit real part,
// zero translation, valid, connected, tracking running. Placeholder until
// the backend sources real pose data.
func (d *DeviceAdapter) GetPose() host.Pose {
	return host.IdentityPose()
}

// Destroy releases the device handle exactly once and zeroes the token.
func (d *DeviceAdapter) Destroy() {
	d.mu.Lock()
	token := d.token
	d.token = handle.None
	d.mu.Unlock()

	if token == handle.None {
		return
	}
	d.reg.Destroy(token)
	d.logger.Info("device handle destroyed", "serial", d.Serial())
}

// State returns the adapter's current lifecycle state.
func (d *DeviceAdapter) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// DeviceID returns the runtime-assigned device index, 0 before activation.
func (d *DeviceAdapter) DeviceID() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deviceID
}

// Serial returns the diagnostic serial label, if set.
func (d *DeviceAdapter) Serial() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serial
}

// HasHandle reports whether the adapter still owns a live handle.
func (d *DeviceAdapter) HasHandle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token != handle.None
}

func (d *DeviceAdapter) transition(to DeviceState) {
	d.mu.Lock()
	from := d.state
	if from == to {
		d.mu.Unlock()
		return
	}
	d.state = to
	id := d.serial
	if id == "" {
		id = fmt.Sprintf("device-%d", d.deviceID)
	}
	d.mu.Unlock()

	// The recorder may block on IO; never hold mu across it.
	if d.recorder != nil {
		if err := d.recorder.RecordTransition(context.Background(), "device", id, string(from), string(to)); err != nil {
			d.logger.Debug("lifecycle record skipped", "reason", err.Error())
		}
	}
}
