package bridge

import (
	"context"

	"github.com/lumenvr/bridge-core/internal/host"
)

// Backend result convention: 0 is success, any non-zero value is failure.
// The adapters never interpret which non-zero value means what.
const backendOK = 0

// ProviderBackend is the fixed set of provider entry points a backend
// exposes. One instance represents one running provider session.
type ProviderBackend interface {
	// Init receives the runtime context, borrowed for the call only.
	Init(ctx host.DriverContext) int

	// Cleanup quiesces the backend without destroying it; a later Init on
	// the same instance must remain possible.
	Cleanup()

	// RunFrame executes one tick. Errors are the backend's own problem;
	// this entry point has no result by contract.
	RunFrame()

	ShouldBlockStandby() bool
	EnterStandby()
	LeaveStandby()
}

// DeviceBackend is the minimal capability set a backend device must offer.
// Keeping this surface small lets the backend evolve its device shape
// (specialised HMD handle today, generic bridge tomorrow) without touching
// the adapter.
type DeviceBackend interface {
	Activate(deviceID uint32) int
	Deactivate()
	EnterStandby()
}

// Logger is the logging interface used by the adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder persists lifecycle transitions for diagnostics.
// This is optional; if nil, the adapters operate without recording.
// It is satisfied by *journal.Journal.
type Recorder interface {
	// RecordTransition records one state change for an entity.
	// entity is "provider" or "device"; id identifies the instance.
	RecordTransition(ctx context.Context, entity, id, from, to string) error
}
