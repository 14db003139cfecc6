// Package sim provides a simulated head-mounted display backend. It stands
// in for real device firmware: a provider that announces one HMD when the
// runtime initializes it, and a device that counts frames and reports the
// identity pose.
//
// The simulator exists to exercise the full adapter path (handle
// acquisition, context capability resolution, device registration,
// activation, standby, teardown) without any hardware attached.
package sim

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lumenvr/bridge-core/internal/bridge"
	"github.com/lumenvr/bridge-core/internal/handle"
	"github.com/lumenvr/bridge-core/internal/host"
)

// HostInterfaceVersion is the capability version string the provider asks
// the runtime context for at initialization.
const HostInterfaceVersion = "IVRServerDriverHost_006"

// backendRejected is the generic failure result for backend entry points.
const backendRejected = -1

// serialPrefixLen is how many uuid characters go into a generated serial.
const serialPrefixLen = 8

// Config holds the simulated backend's settings.
type Config struct {
	// Serial is the device serial number. Generated if empty.
	Serial string

	// Class is the device class to register under. Defaults to ClassHMD.
	Class host.DeviceClass

	// BlockStandby makes the provider report that standby should be held
	// off. Off by default.
	BlockStandby bool
}

// Provider is the simulated backend provider. It implements
// bridge.ProviderBackend.
type Provider struct {
	cfg Config
	reg *handle.Registry

	mu      sync.Mutex
	session uint64
	device  *Device
	adapter *bridge.DeviceAdapter
	standby bool

	logger   bridge.Logger
	recorder bridge.Recorder
}

// NewProvider creates a simulated provider. The registry is where the
// provider wraps the devices it announces.
func NewProvider(reg *handle.Registry, cfg Config) *Provider {
	if cfg.Class == host.ClassInvalid {
		cfg.Class = host.ClassHMD
	}
	if cfg.Serial == "" {
		cfg.Serial = fmt.Sprintf("LMN-SIM-%s", uuid.NewString()[:serialPrefixLen])
	}
	return &Provider{cfg: cfg, reg: reg}
}

// SetLogger sets the logger, propagated to devices announced later.
// Call before the provider is handed to an adapter.
func (p *Provider) SetLogger(logger bridge.Logger) {
	p.logger = logger
}

// SetRecorder sets the optional lifecycle recorder, propagated to devices
// announced later. Call before the provider is handed to an adapter.
func (p *Provider) SetRecorder(rec bridge.Recorder) {
	p.recorder = rec
}

// Init resolves the runtime's device host capability, constructs the HMD
// device, and registers it. Any missing capability or refused registration
// fails the whole init; a provider with no devices is useless.
func (p *Provider) Init(ctx host.DriverContext) int {
	capability, errc := host.ResolveCapability(ctx, HostInterfaceVersion)
	if errc != host.InitErrorNone {
		p.logError("device host capability not available", "code", errc.String())
		return backendRejected
	}
	deviceHost, ok := capability.(host.DeviceHost)
	if !ok {
		p.logError("capability does not implement the device host contract")
		return backendRejected
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.session = host.SessionIdentity(ctx)

	// Re-init after cleanup reuses the existing device.
	if p.device == nil {
		p.device = NewDevice(p.cfg.Serial)
		adapter := bridge.WrapDevice(p.reg, p.device)
		if adapter == nil {
			return backendRejected
		}
		adapter.SetSerial(p.cfg.Serial)
		if p.logger != nil {
			adapter.SetLogger(p.logger)
		}
		if p.recorder != nil {
			adapter.SetRecorder(p.recorder)
		}
		p.adapter = adapter

		if !bridge.RegisterDevice(deviceHost, p.cfg.Serial, p.cfg.Class, adapter) {
			p.logError("runtime refused device registration", "serial", p.cfg.Serial)
			p.device = nil
			p.adapter.Destroy()
			p.adapter = nil
			return backendRejected
		}
	}

	return 0
}

// Cleanup quiesces the simulated hardware. The device and its handle stay
// alive; the runtime may Init again on this same provider instance.
func (p *Provider) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.session = 0
	if p.device != nil {
		p.device.stop()
	}
}

// RunFrame advances the simulated device by one tick.
func (p *Provider) RunFrame() {
	p.mu.Lock()
	device := p.device
	standby := p.standby
	p.mu.Unlock()

	if device != nil && !standby {
		device.tick()
	}
}

// ShouldBlockStandby reports the configured standby policy.
func (p *Provider) ShouldBlockStandby() bool {
	return p.cfg.BlockStandby
}

// EnterStandby pauses frame simulation.
func (p *Provider) EnterStandby() {
	p.mu.Lock()
	p.standby = true
	p.mu.Unlock()
}

// LeaveStandby resumes frame simulation.
func (p *Provider) LeaveStandby() {
	p.mu.Lock()
	p.standby = false
	p.mu.Unlock()
}

// Session returns the runtime session handle captured at init, 0 before.
func (p *Provider) Session() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Adapters returns the device adapters announced so far.
func (p *Provider) Adapters() []*bridge.DeviceAdapter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.adapter == nil {
		return nil
	}
	return []*bridge.DeviceAdapter{p.adapter}
}

// logError logs without touching p.mu, so it is safe with the lock held.
func (p *Provider) logError(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
