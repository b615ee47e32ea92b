// Package display owns the screen: it rotates installed plugins through
// display slots, overlays system messages and hands the whole surface to a
// progress bar during updates.
package display

import (
	"time"

	"glow/glowos/gfx"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

const (
	// MaxSlots is the number of installable plugin slots.
	MaxSlots = 4

	// DefaultSlotDuration is how long a slot stays visible.
	DefaultSlotDuration = 30000 // ms

	// SysMsgWaitTime is the standard on-screen time of a system message.
	SysMsgWaitTime = 2 * time.Second

	// maxDelay bounds Delay so a bad caller cannot stall the loop forever.
	maxDelay = 5 * time.Second
)

type slot struct {
	plug     plugin.Plugin
	duration uint32 // ms
}

// Manager multiplexes plugins onto the one physical surface. All methods
// run on the main loop.
type Manager struct {
	log   *log.Logger
	out   gfx.Output
	clock gfx.Clock

	slots      [MaxSlots]slot
	active     int
	slotTimer  *plugin.SimpleTimer
	suspended  bool
	activeLive bool

	sysMsg      *gfx.TextWidget
	sysMsgTimer *plugin.SimpleTimer

	inProgress bool
	progress   *gfx.ProgressBar
}

// NewManager returns a manager drawing to out on the given clock.
func NewManager(logger *log.Logger, out gfx.Output, clock gfx.Clock) *Manager {
	m := &Manager{
		log:         logger,
		out:         out,
		clock:       clock,
		slotTimer:   plugin.NewSimpleTimer(clock),
		sysMsg:      gfx.NewTextWidget(gfx.DefaultFont, clock),
		sysMsgTimer: plugin.NewSimpleTimer(clock),
		progress:    gfx.NewProgressBar(),
	}
	for i := range m.slots {
		m.slots[i].duration = DefaultSlotDuration
	}
	return m
}

// InstallPlugin places p into slotIdx and starts it. An occupied slot or an
// out-of-range index is rejected.
func (m *Manager) InstallPlugin(p plugin.Plugin, slotIdx int) bool {
	if slotIdx < 0 || slotIdx >= MaxSlots || m.slots[slotIdx].plug != nil {
		return false
	}
	w, h := m.out.Size()
	p.Start(w, h)
	m.slots[slotIdx].plug = p
	m.log.Infof("plugin %s (uid %d) installed in slot %d", p.Name(), p.UID(), slotIdx)

	if !m.activeLive {
		m.activate(slotIdx)
	}
	return true
}

// UninstallPlugin stops and removes the plugin in slotIdx.
func (m *Manager) UninstallPlugin(slotIdx int) bool {
	if slotIdx < 0 || slotIdx >= MaxSlots || m.slots[slotIdx].plug == nil {
		return false
	}
	p := m.slots[slotIdx].plug
	if m.activeLive && m.active == slotIdx {
		p.Inactive()
		m.activeLive = false
	}
	p.Stop()
	m.slots[slotIdx].plug = nil
	m.log.Infof("plugin %s (uid %d) removed from slot %d", p.Name(), p.UID(), slotIdx)
	return true
}

// PluginAt returns the plugin installed in slotIdx, or nil.
func (m *Manager) PluginAt(slotIdx int) plugin.Plugin {
	if slotIdx < 0 || slotIdx >= MaxSlots {
		return nil
	}
	return m.slots[slotIdx].plug
}

// SetSlotDuration overrides the display time of one slot.
func (m *Manager) SetSlotDuration(slotIdx int, ms uint32) bool {
	if slotIdx < 0 || slotIdx >= MaxSlots || ms == 0 {
		return false
	}
	m.slots[slotIdx].duration = ms
	return true
}

// ActiveSlot reports the currently visible slot.
func (m *Manager) ActiveSlot() int { return m.active }

// Activate makes slotIdx the visible slot immediately.
func (m *Manager) Activate(slotIdx int) bool {
	if slotIdx < 0 || slotIdx >= MaxSlots || m.slots[slotIdx].plug == nil {
		return false
	}
	m.activate(slotIdx)
	return true
}

func (m *Manager) activate(slotIdx int) {
	if m.activeLive {
		if cur := m.slots[m.active].plug; cur != nil {
			cur.Inactive()
		}
	}
	m.active = slotIdx
	m.activeLive = true
	if p := m.slots[slotIdx].plug; p != nil {
		p.Active(m.out)
	}
	m.slotTimer.Start(m.slots[slotIdx].duration)
}

// nextSlot finds the next occupied slot after the active one.
func (m *Manager) nextSlot() (int, bool) {
	for i := 1; i <= MaxSlots; i++ {
		idx := (m.active + i) % MaxSlots
		if m.slots[idx].plug != nil {
			return idx, true
		}
	}
	return 0, false
}

// Suspend halts slot rotation and plugin drawing.
func (m *Manager) Suspend() { m.suspended = true }

// Resume restarts rotation where it left off.
func (m *Manager) Resume() {
	m.suspended = false
	m.slotTimer.Restart()
}

// ShowSysMsg overlays a system message for SysMsgWaitTime.
func (m *Manager) ShowSysMsg(text string) {
	m.ShowSysMsgFor(text, uint32(SysMsgWaitTime/time.Millisecond))
}

// ShowSysMsgFor overlays a system message for an explicit duration.
func (m *Manager) ShowSysMsgFor(text string, ms uint32) {
	m.sysMsg.SetText(text)
	m.sysMsgTimer.Start(ms)
	m.log.Infof("sysmsg: %s", text)
}

// Delay blocks the main loop, clamped to a safe upper bound. Used to keep
// a system message readable before a restart.
func (m *Manager) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	if d > maxDelay {
		d = maxDelay
	}
	time.Sleep(d)
}

// Process advances rotation and runs every installed plugin's periodic
// work.
func (m *Manager) Process() {
	for i := range m.slots {
		if p := m.slots[i].plug; p != nil {
			p.Process()
		}
	}

	if m.sysMsgTimer.IsRunning() && m.sysMsgTimer.IsTimeout() {
		m.sysMsgTimer.Stop()
	}

	if m.suspended || m.inProgress {
		return
	}
	if m.slotTimer.IsRunning() && m.slotTimer.IsTimeout() {
		if next, ok := m.nextSlot(); ok && next != m.active {
			m.activate(next)
		} else {
			m.slotTimer.Restart()
		}
	}
}

// Render draws one frame and presents it.
func (m *Manager) Render() {
	m.out.FillScreen(gfx.Black)

	switch {
	case m.inProgress:
		m.progress.Update(m.out)
	case m.sysMsgTimer.IsRunning():
		m.sysMsg.Update(m.out)
	case !m.suspended && m.activeLive:
		if p := m.slots[m.active].plug; p != nil {
			p.Update(m.out)
		}
	}

	if err := m.out.Display(); err != nil {
		m.log.Errorf("present frame: %v", err)
	}
}

// BeginProgress hands the surface to the update progress bar.
func (m *Manager) BeginProgress() {
	m.inProgress = true
	m.progress.SetProgress(0)
}

// ShowProgress updates the progress bar.
func (m *Manager) ShowProgress(percent uint8) {
	m.progress.SetProgress(percent)
}

// EndProgress returns the surface to the slot rotation.
func (m *Manager) EndProgress() {
	m.inProgress = false
	m.slotTimer.Restart()
}
