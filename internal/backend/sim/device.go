package sim

import (
	"sync/atomic"

	"github.com/lumenvr/bridge-core/internal/host"
)

// Device is the simulated HMD. It implements bridge.DeviceBackend plus the
// internal frame tick the provider drives. The tick is backend-private and
// deliberately not part of the adapter-facing capability set.
type Device struct {
	serial string

	active   atomic.Bool
	standby  atomic.Bool
	deviceID atomic.Uint32
	frames   atomic.Uint64
}

// NewDevice creates a simulated HMD with the given serial number.
func NewDevice(serial string) *Device {
	return &Device{serial: serial}
}

// Activate marks the device running and remembers the runtime index.
func (d *Device) Activate(deviceID uint32) int {
	d.deviceID.Store(deviceID)
	d.active.Store(true)
	d.standby.Store(false)
	return 0
}

// Deactivate stops the device.
func (d *Device) Deactivate() {
	d.active.Store(false)
}

// EnterStandby pauses the device without deactivating it.
func (d *Device) EnterStandby() {
	d.standby.Store(true)
}

// Serial returns the device serial number.
func (d *Device) Serial() string {
	return d.serial
}

// Pose returns the simulated pose. No tracking model yet, so this is the
// identity pose for both the active and inactive states.
func (d *Device) Pose() host.Pose {
	return host.IdentityPose()
}

// Frames returns how many ticks the device has processed.
func (d *Device) Frames() uint64 {
	return d.frames.Load()
}

// Active reports whether the device has been activated and not deactivated.
func (d *Device) Active() bool {
	return d.active.Load()
}

// tick advances the simulation by one frame. Only counts while active and
// not in standby.
func (d *Device) tick() {
	if d.active.Load() && !d.standby.Load() {
		d.frames.Add(1)
	}
}

// stop quiesces the device at provider cleanup.
func (d *Device) stop() {
	d.standby.Store(true)
}
