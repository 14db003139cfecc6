// Package hostsim simulates the VR runtime's driver-management side: the
// context object handed to providers, the device registry, and the
// single-threaded call discipline (one lifecycle call at a time, activation
// issued after registration is accepted, never during it).
//
// Production deployments replace this with the real runtime; the simulator
// is what cmd/lumenbridge runs against and what the adapter tests use as
// their host double.
package hostsim

import (
	"context"
	"sync"
	"time"

	"github.com/lumenvr/bridge-core/internal/host"
)

// Logger is the logging interface used by the runtime simulator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// RegisteredDevice is one accepted device registration.
type RegisteredDevice struct {
	Serial string
	Class  host.DeviceClass
	Index  uint32
	Device host.TrackedDevice

	// Activated is set once the runtime has issued Activate.
	Activated bool
	// ActivateResult is the device's answer to the Activate call.
	ActivateResult host.InitError
}

// Runtime implements host.DriverContext and host.DeviceHost.
//
// Registrations are accepted immediately; activation is deferred until the
// next DispatchActivations call, mirroring the real runtime's
// register-now-activate-later ordering.
type Runtime struct {
	mu           sync.Mutex
	capabilities map[string]host.Capability
	sessionID    uint64
	devices      []*RegisteredDevice
	nextIndex    uint32
	rejectAdds   bool

	logger Logger
}

// NewRuntime creates a runtime simulator with the given session handle.
// Its own device-host capability is pre-registered under version.
func NewRuntime(sessionID uint64, version string) *Runtime {
	r := &Runtime{
		capabilities: make(map[string]host.Capability),
		sessionID:    sessionID,
		logger:       noopLogger{},
	}
	r.capabilities[version] = host.DeviceHost(r)
	return r
}

// SetLogger sets the logger for the runtime simulator.
func (r *Runtime) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// RegisterCapability exposes an extra capability under a version string.
func (r *Runtime) RegisterCapability(version string, c host.Capability) {
	r.mu.Lock()
	r.capabilities[version] = c
	r.mu.Unlock()
}

// SetRejectRegistrations makes TrackedDeviceAdded answer false. Used to
// exercise the refused-registration path.
func (r *Runtime) SetRejectRegistrations(reject bool) {
	r.mu.Lock()
	r.rejectAdds = reject
	r.mu.Unlock()
}

// GetGenericInterface implements host.DriverContext.
func (r *Runtime) GetGenericInterface(interfaceVersion string) (host.Capability, host.InitError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.capabilities[interfaceVersion]
	if !ok {
		return nil, host.InitErrorInterfaceNotFound
	}
	return c, host.InitErrorNone
}

// DriverHandle implements host.DriverContext.
func (r *Runtime) DriverHandle() uint64 {
	return r.sessionID
}

// TrackedDeviceAdded implements host.DeviceHost. The device index is
// assigned here; Activate follows later, from the drive loop.
func (r *Runtime) TrackedDeviceAdded(serial string, class host.DeviceClass, device host.TrackedDevice) bool {
	if serial == "" || device == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rejectAdds {
		return false
	}

	reg := &RegisteredDevice{
		Serial: serial,
		Class:  class,
		Index:  r.nextIndex,
		Device: device,
	}
	r.nextIndex++
	r.devices = append(r.devices, reg)

	r.logger.Info("device registered",
		"serial", serial,
		"class", class.String(),
		"index", reg.Index)
	return true
}

// DispatchActivations issues Activate to every registered device that has
// not been activated yet. Returns the number of activations issued.
func (r *Runtime) DispatchActivations() int {
	r.mu.Lock()
	pending := make([]*RegisteredDevice, 0, len(r.devices))
	for _, d := range r.devices {
		if !d.Activated {
			pending = append(pending, d)
		}
	}
	r.mu.Unlock()

	for _, d := range pending {
		result := d.Device.Activate(d.Index)

		r.mu.Lock()
		d.Activated = true
		d.ActivateResult = result
		r.mu.Unlock()

		if result != host.InitErrorNone {
			r.logger.Warn("device activation failed",
				"serial", d.Serial,
				"code", result.String())
			continue
		}
		r.logger.Info("device activated", "serial", d.Serial, "index", d.Index)
	}
	return len(pending)
}

// Devices returns a snapshot of accepted registrations.
func (r *Runtime) Devices() []RegisteredDevice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RegisteredDevice, len(r.devices))
	for i, d := range r.devices {
		out[i] = *d
	}
	return out
}

// Drive runs the runtime's call sequence against a provider: Init, then one
// RunFrame per tick (with pending activations dispatched between frames),
// then Cleanup and per-device Deactivate when the context ends.
//
// Returns the provider's init result if initialization fails; nil on a
// clean shutdown.
func (r *Runtime) Drive(ctx context.Context, provider host.DeviceProvider, tick time.Duration) error {
	if errc := provider.Init(r); errc != host.InitErrorNone {
		return &InitFailedError{Code: errc}
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.shutdown(provider)
			return nil
		case <-ticker.C:
			r.DispatchActivations()
			provider.RunFrame()
		}
	}
}

// shutdown performs the runtime's teardown ordering: devices are
// deactivated before the provider is cleaned up.
func (r *Runtime) shutdown(provider host.DeviceProvider) {
	for _, d := range r.Devices() {
		if d.Activated {
			d.Device.Deactivate()
		}
	}
	provider.Cleanup()
	r.logger.Info("runtime shut down")
}

// InitFailedError reports a provider init rejection to the drive loop's
// caller.
type InitFailedError struct {
	Code host.InitError
}

func (e *InitFailedError) Error() string {
	return "provider init failed: " + e.Code.String()
}
