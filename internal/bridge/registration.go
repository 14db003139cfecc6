package bridge

import "github.com/lumenvr/bridge-core/internal/host"

// RegisterDevice announces a fully constructed device adapter to the
// runtime's device registry. It is a one-shot call, made once per device
// and before the runtime's first Activate.
//
// Preconditions are checked locally: a nil host, empty serial, or nil
// device returns false with zero runtime calls made. The device class is
// passed through verbatim; the runtime owns that enumeration and new
// classes must not be rejected here. On the success path the runtime's
// boolean comes back unchanged.
func RegisterDevice(h host.DeviceHost, serial string, class host.DeviceClass, device host.TrackedDevice) bool {
	if h == nil || serial == "" || device == nil {
		return false
	}
	return h.TrackedDeviceAdded(serial, class, device)
}
