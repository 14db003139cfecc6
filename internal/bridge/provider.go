package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lumenvr/bridge-core/internal/handle"
	"github.com/lumenvr/bridge-core/internal/host"
)

// ProviderState is the implicit lifecycle state of a provider adapter.
// The runtime drives the transitions; the adapter only tracks them for
// diagnostics; it never uses state to refuse a forwarded call.
type ProviderState string

const (
	ProviderConstructed ProviderState = "constructed"
	ProviderInitialized ProviderState = "initialized"
	ProviderRunning     ProviderState = "running"
	ProviderStandby     ProviderState = "standby"
	ProviderCleanedUp   ProviderState = "cleaned_up"
)

// ProviderAdapter implements the runtime's provider contract by forwarding
// every call through the handle registry to a backend provider.
//
// Exactly one instance exists per runtime session. The adapter owns its
// provider handle: acquired at construction, destroyed once at Destroy.
// When handle acquisition fails the adapter stays usable but inert: every
// call becomes a no-op or a benign failure code, and the runtime is never
// torn down on our account.
//
// Thread Safety:
//   - The runtime drives the lifecycle entry points from a single thread,
//     but State, FrameCount, and HasHandle are read concurrently by the
//     health reporter and the debug API. mu guards state and token.
type ProviderAdapter struct {
	reg *handle.Registry

	mu    sync.Mutex
	token handle.Token
	state ProviderState

	frames atomic.Uint64

	logger   Logger
	recorder Recorder
}

// NewProviderAdapter acquires a provider handle for the backend produced by
// factory. A nil factory or a nil factory result leaves the adapter without
// a handle; creation failure is not an error here; it surfaces later as an
// initialization failure, per the runtime's contract.
func NewProviderAdapter(reg *handle.Registry, factory func() ProviderBackend) *ProviderAdapter {
	a := &ProviderAdapter{
		reg:    reg,
		state:  ProviderConstructed,
		logger: noopLogger{},
	}

	if reg == nil {
		return a
	}
	if factory != nil {
		if backend := factory(); backend != nil {
			a.token = reg.Create(backend)
		}
	}
	if a.token == handle.None {
		a.logger.Warn("provider handle acquisition failed, adapter is inert")
	}
	return a
}

// SetLogger sets the logger for the adapter.
func (a *ProviderAdapter) SetLogger(logger Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// SetRecorder sets the optional lifecycle recorder.
func (a *ProviderAdapter) SetRecorder(rec Recorder) {
	a.recorder = rec
}

// backend resolves the provider handle for one forwarded call.
func (a *ProviderAdapter) backend() (ProviderBackend, bool) {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()

	entity, ok := a.reg.Resolve(token)
	if !ok {
		return nil, false
	}
	b, ok := entity.(ProviderBackend)
	return b, ok
}

// Init forwards the runtime context to the backend's init entry point.
// Backend success moves the adapter to Initialized; any non-zero backend
// result is reported as InitErrorInitCanceled and the adapter keeps its
// prior state.
func (a *ProviderAdapter) Init(ctx host.DriverContext) host.InitError {
	b, ok := a.backend()
	if !ok {
		a.logger.Debug("init on absent provider handle")
		return host.InitErrorInitCanceled
	}

	if rc := b.Init(ctx); rc != backendOK {
		a.logger.Warn("backend rejected init", "code", rc)
		return host.InitErrorInitCanceled
	}

	a.transition(ProviderInitialized)
	a.logger.Info("provider initialized", "session", host.SessionIdentity(ctx))
	return host.InitErrorNone
}

// RunFrame forwards one runtime tick. Fire-and-forget: the runtime's
// contract gives a frame call no way to fail, so backend errors stay inside
// the backend.
func (a *ProviderAdapter) RunFrame() {
	b, ok := a.backend()
	if !ok {
		return
	}
	b.RunFrame()
	a.frames.Add(1)
	if a.State() == ProviderInitialized {
		a.transition(ProviderRunning)
	}
}

// ShouldBlockStandby forwards the standby query. An adapter without a
// handle never blocks standby.
func (a *ProviderAdapter) ShouldBlockStandby() bool {
	b, ok := a.backend()
	if !ok {
		return false
	}
	return b.ShouldBlockStandby()
}

// EnterStandby forwards unconditionally when a handle is present.
func (a *ProviderAdapter) EnterStandby() {
	b, ok := a.backend()
	if !ok {
		return
	}
	b.EnterStandby()
	a.transition(ProviderStandby)
}

// LeaveStandby forwards unconditionally when a handle is present.
func (a *ProviderAdapter) LeaveStandby() {
	b, ok := a.backend()
	if !ok {
		return
	}
	b.LeaveStandby()
	a.transition(ProviderRunning)
}

// Cleanup forwards to the backend and marks the adapter cleaned up. The
// handle itself stays alive: some runtimes re-Init after Cleanup, so the
// handle is destroyed only at Destroy, never here.
func (a *ProviderAdapter) Cleanup() {
	b, ok := a.backend()
	if !ok {
		return
	}
	b.Cleanup()
	a.transition(ProviderCleanedUp)
}

// Destroy releases the provider handle exactly once and zeroes the stored
// token so a second Destroy cannot reach the registry. After Destroy every
// entry point degrades to the absent-handle path.
func (a *ProviderAdapter) Destroy() {
	a.mu.Lock()
	token := a.token
	a.token = handle.None
	a.mu.Unlock()

	if token == handle.None {
		return
	}
	a.reg.Destroy(token)
	a.logger.Info("provider handle destroyed")
}

// State returns the adapter's current lifecycle state.
func (a *ProviderAdapter) State() ProviderState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// FrameCount returns the number of frames forwarded so far.
func (a *ProviderAdapter) FrameCount() uint64 {
	return a.frames.Load()
}

// HasHandle reports whether the adapter still owns a live handle.
func (a *ProviderAdapter) HasHandle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != handle.None
}

func (a *ProviderAdapter) transition(to ProviderState) {
	a.mu.Lock()
	from := a.state
	if from == to {
		a.mu.Unlock()
		return
	}
	a.state = to
	a.mu.Unlock()

	// The recorder may block on IO; never hold mu across it.
	if a.recorder != nil {
		if err := a.recorder.RecordTransition(context.Background(), "provider", "provider", string(from), string(to)); err != nil {
			a.logger.Debug("lifecycle record skipped", "reason", err.Error())
		}
	}
}
