package sim

import (
	"strings"
	"testing"

	"github.com/lumenvr/bridge-core/internal/handle"
	"github.com/lumenvr/bridge-core/internal/host"
)

// fakeRuntime is a minimal driver context with a device host capability.
type fakeRuntime struct {
	session    uint64
	rejectAdds bool
	missing    bool

	registered []string
	classes    []host.DeviceClass
}

func (f *fakeRuntime) GetGenericInterface(version string) (host.Capability, host.InitError) {
	if f.missing || version != HostInterfaceVersion {
		return nil, host.InitErrorInterfaceNotFound
	}
	return host.DeviceHost(f), host.InitErrorNone
}

func (f *fakeRuntime) DriverHandle() uint64 { return f.session }

func (f *fakeRuntime) TrackedDeviceAdded(serial string, class host.DeviceClass, device host.TrackedDevice) bool {
	if f.rejectAdds || serial == "" || device == nil {
		return false
	}
	f.registered = append(f.registered, serial)
	f.classes = append(f.classes, class)
	return true
}

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{})

	if p.cfg.Class != host.ClassHMD {
		t.Errorf("expected default class hmd, got %v", p.cfg.Class)
	}
	if !strings.HasPrefix(p.cfg.Serial, "LMN-SIM-") {
		t.Errorf("expected generated serial with LMN-SIM- prefix, got %q", p.cfg.Serial)
	}
}

func TestNewProvider_ExplicitConfig(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{
		Serial: "LMN-TEST-0001",
		Class:  host.ClassController,
	})

	if p.cfg.Serial != "LMN-TEST-0001" {
		t.Errorf("unexpected serial %q", p.cfg.Serial)
	}
	if p.cfg.Class != host.ClassController {
		t.Errorf("unexpected class %v", p.cfg.Class)
	}
}

func TestInit_RegistersDevice(t *testing.T) {
	reg := handle.NewRegistry()
	p := NewProvider(reg, Config{Serial: "LMN-TEST-0001"})
	rt := &fakeRuntime{session: 99}

	if rc := p.Init(rt); rc != 0 {
		t.Fatalf("expected init success, got %d", rc)
	}

	if len(rt.registered) != 1 || rt.registered[0] != "LMN-TEST-0001" {
		t.Fatalf("expected one registration, got %v", rt.registered)
	}
	if rt.classes[0] != host.ClassHMD {
		t.Errorf("expected hmd class, got %v", rt.classes[0])
	}
	if p.Session() != 99 {
		t.Errorf("expected captured session 99, got %d", p.Session())
	}

	adapters := p.Adapters()
	if len(adapters) != 1 {
		t.Fatalf("expected 1 adapter, got %d", len(adapters))
	}
	if adapters[0].Serial() != "LMN-TEST-0001" {
		t.Errorf("unexpected adapter serial %q", adapters[0].Serial())
	}
	if reg.Live() != 1 {
		t.Errorf("expected 1 live handle, got %d", reg.Live())
	}
}

func TestInit_MissingCapability(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{})
	rt := &fakeRuntime{missing: true}

	if rc := p.Init(rt); rc == 0 {
		t.Fatal("expected init failure without device host capability")
	}
	if len(p.Adapters()) != 0 {
		t.Error("no adapters should exist after a failed init")
	}
}

func TestInit_RegistrationRefused(t *testing.T) {
	reg := handle.NewRegistry()
	p := NewProvider(reg, Config{})
	rt := &fakeRuntime{rejectAdds: true}

	if rc := p.Init(rt); rc == 0 {
		t.Fatal("expected init failure on refused registration")
	}
	if len(p.Adapters()) != 0 {
		t.Error("refused registration must not leave an adapter behind")
	}
	if reg.Live() != 0 {
		t.Errorf("refused registration must release the device handle, got %d live", reg.Live())
	}
}

func TestReinit_ReusesDevice(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{Serial: "LMN-TEST-0001"})
	rt := &fakeRuntime{session: 1}

	if rc := p.Init(rt); rc != 0 {
		t.Fatalf("first init failed: %d", rc)
	}
	first := p.Adapters()[0]

	p.Cleanup()
	if p.Session() != 0 {
		t.Errorf("cleanup must clear the session, got %d", p.Session())
	}

	rt2 := &fakeRuntime{session: 2}
	if rc := p.Init(rt2); rc != 0 {
		t.Fatalf("re-init failed: %d", rc)
	}

	// The same device instance survives, and no duplicate registration
	// happens.
	if p.Adapters()[0] != first {
		t.Error("re-init must reuse the existing device adapter")
	}
	if len(rt2.registered) != 0 {
		t.Errorf("re-init must not re-register, got %v", rt2.registered)
	}
	if p.Session() != 2 {
		t.Errorf("expected new session 2, got %d", p.Session())
	}
}

func TestRunFrame_TicksActiveDevice(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{})
	rt := &fakeRuntime{}

	if rc := p.Init(rt); rc != 0 {
		t.Fatalf("init failed: %d", rc)
	}

	device := p.device
	device.Activate(0)

	p.RunFrame()
	p.RunFrame()

	if got := device.Frames(); got != 2 {
		t.Errorf("expected 2 frames, got %d", got)
	}
}

func TestRunFrame_PausedInStandby(t *testing.T) {
	p := NewProvider(handle.NewRegistry(), Config{})
	rt := &fakeRuntime{}

	if rc := p.Init(rt); rc != 0 {
		t.Fatalf("init failed: %d", rc)
	}
	p.device.Activate(0)

	p.EnterStandby()
	p.RunFrame()
	if got := p.device.Frames(); got != 0 {
		t.Errorf("standby must pause the simulation, got %d frames", got)
	}

	p.LeaveStandby()
	p.RunFrame()
	if got := p.device.Frames(); got != 1 {
		t.Errorf("expected 1 frame after leaving standby, got %d", got)
	}
}

func TestShouldBlockStandby(t *testing.T) {
	blocking := NewProvider(handle.NewRegistry(), Config{BlockStandby: true})
	if !blocking.ShouldBlockStandby() {
		t.Error("expected standby block")
	}

	passive := NewProvider(handle.NewRegistry(), Config{})
	if passive.ShouldBlockStandby() {
		t.Error("expected no standby block by default")
	}
}

func TestDevice_Lifecycle(t *testing.T) {
	d := NewDevice("LMN-TEST-0001")

	if d.Active() {
		t.Fatal("new device must be inactive")
	}

	d.Activate(3)
	if !d.Active() {
		t.Fatal("expected active after activate")
	}
	if d.deviceID.Load() != 3 {
		t.Errorf("expected stored index 3, got %d", d.deviceID.Load())
	}

	d.tick()
	if d.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", d.Frames())
	}

	d.EnterStandby()
	d.tick()
	if d.Frames() != 1 {
		t.Errorf("standby must pause ticks, got %d", d.Frames())
	}

	d.Deactivate()
	if d.Active() {
		t.Error("expected inactive after deactivate")
	}
}

func TestDevice_PoseIsIdentity(t *testing.T) {
	d := NewDevice("LMN-TEST-0001")

	if d.Pose() != host.IdentityPose() {
		t.Error("expected identity pose")
	}
}
