package display

import (
	"image/color"
	"testing"

	"glow/glowos/gfx"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

type fakeOutput struct {
	w, h   int16
	pixels map[[2]int16]color.RGBA
}

func newFakeOutput(w, h int16) *fakeOutput {
	return &fakeOutput{w: w, h: h, pixels: make(map[[2]int16]color.RGBA)}
}

func (f *fakeOutput) Size() (int16, int16) { return f.w, f.h }
func (f *fakeOutput) SetPixel(x, y int16, c color.RGBA) {
	f.pixels[[2]int16{x, y}] = c
}
func (f *fakeOutput) Display() error { return nil }
func (f *fakeOutput) FillScreen(c color.RGBA) {
	f.pixels = make(map[[2]int16]color.RGBA)
}

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32    { return c.now }
func (c *fakeClock) advance(ms uint32) { c.now += ms }

// fakePlugin records lifecycle calls.
type fakePlugin struct {
	uid       uint16
	name      string
	started   bool
	stopped   bool
	actives   int
	inactives int
	processed int
	updates   int
}

func newFakePlugin(name string) *fakePlugin {
	return &fakePlugin{uid: plugin.NextUID(), name: name}
}

func (p *fakePlugin) UID() uint16           { return p.uid }
func (p *fakePlugin) Name() string          { return p.name }
func (p *fakePlugin) Start(w, h int16)      { p.started = true }
func (p *fakePlugin) Stop()                 { p.stopped = true }
func (p *fakePlugin) Active(out gfx.Output) { p.actives++ }
func (p *fakePlugin) Inactive()             { p.inactives++ }
func (p *fakePlugin) Process()              { p.processed++ }
func (p *fakePlugin) Update(out gfx.Output) { p.updates++ }

func newTestManager() (*Manager, *fakeOutput, *fakeClock) {
	out := newFakeOutput(32, 8)
	clock := &fakeClock{}
	return NewManager(log.New(nil, "display"), out, clock), out, clock
}

func TestInstallActivatesFirstPlugin(t *testing.T) {
	m, _, _ := newTestManager()
	p := newFakePlugin("clock")

	if !m.InstallPlugin(p, 0) {
		t.Fatal("install rejected")
	}
	if !p.started {
		t.Fatal("plugin not started on install")
	}
	if p.actives != 1 {
		t.Fatalf("plugin activations = %d, want 1", p.actives)
	}
	if m.InstallPlugin(newFakePlugin("other"), 0) {
		t.Fatal("occupied slot accepted a second plugin")
	}
}

func TestRotationAfterSlotDuration(t *testing.T) {
	m, _, clock := newTestManager()
	first := newFakePlugin("clock")
	second := newFakePlugin("sunrise")
	m.InstallPlugin(first, 0)
	m.InstallPlugin(second, 1)

	clock.advance(DefaultSlotDuration)
	m.Process()

	if m.ActiveSlot() != 1 {
		t.Fatalf("active slot = %d after rotation, want 1", m.ActiveSlot())
	}
	if first.inactives != 1 || second.actives != 1 {
		t.Fatalf("lifecycle calls: first.inactives=%d second.actives=%d", first.inactives, second.actives)
	}

	// Full cycle back to slot 0.
	clock.advance(DefaultSlotDuration)
	m.Process()
	if m.ActiveSlot() != 0 {
		t.Fatalf("active slot = %d after second rotation, want 0", m.ActiveSlot())
	}
}

func TestSinglePluginStaysActive(t *testing.T) {
	m, _, clock := newTestManager()
	p := newFakePlugin("clock")
	m.InstallPlugin(p, 2)

	clock.advance(DefaultSlotDuration)
	m.Process()

	if m.ActiveSlot() != 2 || p.inactives != 0 {
		t.Fatalf("sole plugin rotated away (slot=%d inactives=%d)", m.ActiveSlot(), p.inactives)
	}
}

func TestProcessRunsAllInstalledPlugins(t *testing.T) {
	m, _, _ := newTestManager()
	a := newFakePlugin("a")
	b := newFakePlugin("b")
	m.InstallPlugin(a, 0)
	m.InstallPlugin(b, 3)

	m.Process()
	if a.processed != 1 || b.processed != 1 {
		t.Fatalf("process calls = %d/%d, want 1/1", a.processed, b.processed)
	}
}

func TestSysMsgOverridesPlugin(t *testing.T) {
	m, _, clock := newTestManager()
	p := newFakePlugin("clock")
	m.InstallPlugin(p, 0)

	m.ShowSysMsg("REBOOT")
	m.Render()
	if p.updates != 0 {
		t.Fatal("plugin drew underneath a system message")
	}

	clock.advance(uint32(SysMsgWaitTime.Milliseconds()))
	m.Process()
	m.Render()
	if p.updates != 1 {
		t.Fatalf("plugin updates = %d after sysmsg expiry, want 1", p.updates)
	}
}

func TestProgressSessionTakesOverSurface(t *testing.T) {
	m, out, clock := newTestManager()
	p := newFakePlugin("clock")
	m.InstallPlugin(p, 0)

	m.BeginProgress()
	m.ShowProgress(50)
	m.Render()

	if p.updates != 0 {
		t.Fatal("plugin drew during an update session")
	}
	lit := 0
	for _, c := range out.pixels {
		if c == gfx.Red {
			lit++
		}
	}
	if lit != 32*8/2 {
		t.Fatalf("progress bar lit %d pixels at 50%%, want %d", lit, 32*8/2)
	}

	// Rotation must stand still during the session.
	clock.advance(10 * DefaultSlotDuration)
	m.Process()
	if p.inactives != 0 {
		t.Fatal("rotation ran during an update session")
	}

	m.EndProgress()
	m.Render()
	if p.updates != 1 {
		t.Fatalf("plugin updates = %d after session end, want 1", p.updates)
	}
}

func TestUninstallStopsPlugin(t *testing.T) {
	m, _, _ := newTestManager()
	p := newFakePlugin("clock")
	m.InstallPlugin(p, 0)

	if !m.UninstallPlugin(0) {
		t.Fatal("uninstall rejected")
	}
	if !p.stopped || p.inactives != 1 {
		t.Fatalf("stopped=%v inactives=%d, want true/1", p.stopped, p.inactives)
	}
	if m.PluginAt(0) != nil {
		t.Fatal("slot still occupied after uninstall")
	}
}

func TestSuspendStopsRotationAndDrawing(t *testing.T) {
	m, _, clock := newTestManager()
	first := newFakePlugin("a")
	second := newFakePlugin("b")
	m.InstallPlugin(first, 0)
	m.InstallPlugin(second, 1)

	m.Suspend()
	clock.advance(DefaultSlotDuration)
	m.Process()
	m.Render()

	if m.ActiveSlot() != 0 || first.updates != 0 {
		t.Fatalf("suspended manager rotated or drew (slot=%d updates=%d)", m.ActiveSlot(), first.updates)
	}

	m.Resume()
	m.Render()
	if first.updates != 1 {
		t.Fatalf("updates = %d after resume, want 1", first.updates)
	}
}
