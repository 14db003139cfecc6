package host

// InitError is the runtime's initialization result code.
// The numeric values match the runtime's wire enumerators and must not change.
type InitError int32

const (
	// InitErrorNone indicates success.
	InitErrorNone InitError = 0

	// InitErrorInitCanceled is returned when a lifecycle call was
	// rejected; the runtime treats it as "driver declined, not fatal".
	InitErrorInitCanceled InitError = 102

	// InitErrorInterfaceNotFound is returned for capability lookups that
	// cannot be satisfied (unknown version string, nil context).
	InitErrorInterfaceNotFound InitError = 105
)

// String returns a short name for logging.
func (e InitError) String() string {
	switch e {
	case InitErrorNone:
		return "none"
	case InitErrorInitCanceled:
		return "init_canceled"
	case InitErrorInterfaceNotFound:
		return "interface_not_found"
	default:
		return "unknown"
	}
}

// DeviceClass identifies what kind of tracked object a device is.
// Values are passed through to the runtime verbatim and never validated
// against a closed set; the runtime owns this enumeration.
type DeviceClass int32

const (
	ClassInvalid           DeviceClass = 0
	ClassHMD               DeviceClass = 1
	ClassController        DeviceClass = 2
	ClassGenericTracker    DeviceClass = 3
	ClassTrackingReference DeviceClass = 4
)

// String returns the runtime's conventional name for the class.
func (c DeviceClass) String() string {
	switch c {
	case ClassHMD:
		return "hmd"
	case ClassController:
		return "controller"
	case ClassGenericTracker:
		return "generic_tracker"
	case ClassTrackingReference:
		return "tracking_reference"
	default:
		return "invalid"
	}
}

// Capability is an opaque named sub-interface handed out by the runtime or
// by a device (display output, driver host, and so on). Callers type-assert
// to the concrete capability they asked for.
type Capability any

// DriverContext is the runtime-owned context object passed to a provider at
// initialization. It is borrowed for the duration of a call and never stored
// past it.
type DriverContext interface {
	// GetGenericInterface resolves a capability by its version string.
	GetGenericInterface(interfaceVersion string) (Capability, InitError)

	// DriverHandle returns the stable numeric handle identifying this
	// runtime session.
	DriverHandle() uint64
}

// DeviceHost is the runtime's device-registry entry point. A provider
// announces each device exactly once, before the runtime activates it.
type DeviceHost interface {
	// TrackedDeviceAdded registers a device under the given serial number.
	// Returns the runtime's acceptance verbatim.
	TrackedDeviceAdded(serial string, class DeviceClass, device TrackedDevice) bool
}

// DeviceProvider is the provider contract the runtime drives. Calls arrive
// one at a time on the runtime's driver-management thread; implementations
// must return promptly and never panic across this boundary.
type DeviceProvider interface {
	// Init is called once before any other lifecycle method. The context
	// is valid only for the duration of the call.
	Init(ctx DriverContext) InitError

	// Cleanup quiesces the provider. The runtime may destroy the provider
	// afterwards, or re-Init it, and both must be tolerated.
	Cleanup()

	// RunFrame is called once per runtime tick. It cannot fail.
	RunFrame()

	// ShouldBlockStandby reports whether the runtime should be prevented
	// from entering standby.
	ShouldBlockStandby() bool

	EnterStandby()
	LeaveStandby()
}

// TrackedDevice is the per-device contract the runtime drives after a
// successful registration.
type TrackedDevice interface {
	// Activate is called with the runtime-assigned device index. The index
	// is unique within the session and reused on retry.
	Activate(deviceID uint32) InitError

	// Deactivate is called before the device is released.
	Deactivate()

	// EnterStandby has no paired LeaveStandby at the device level; the
	// runtime re-activates through other means. Asymmetry is part of the
	// external contract.
	EnterStandby()

	// GetComponent resolves a named device capability, nil if unsupported.
	GetComponent(name string) Capability

	// DebugRequest answers a diagnostic request into the caller-owned
	// response buffer.
	DebugRequest(request string, response []byte)

	// GetPose returns the device's current pose.
	GetPose() Pose
}
