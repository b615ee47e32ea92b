package update

import (
	"time"

	"glow/glowos/log"
)

// sysMsgTime keeps an update message readable before the surface changes.
const sysMsgTime = 2 * time.Second

// Display is the slice of the display manager used during an update: a
// transient message brackets the session and the regular slot rotation is
// replaced by a progress bar while it runs.
type Display interface {
	ShowSysMsg(text string)
	Delay(d time.Duration)
	BeginProgress()
	ShowProgress(percent uint8)
	EndProgress()
}

// Manager runs update sessions on the main loop.
//
// Two kinds of session exist. A transfer session (BeginUpdate, WriteUpdate,
// EndUpdate) receives the image over the wire and stages it through the
// Transfer. A progress session (BeginProgress, UpdateProgress, EndProgress)
// mirrors an update performed by an external agent and only drives the
// display. Both are exclusive and share the session state.
type Manager struct {
	log      *log.Logger
	transfer Transfer
	disp     Display

	state   State
	errCode ErrorCode
	target  Target
	size    uint32
	written uint32
	percent uint8

	restartRequested bool
}

// NewManager wires the update path. disp may be nil.
func NewManager(logger *log.Logger, transfer Transfer, disp Display) *Manager {
	return &Manager{log: logger, transfer: transfer, disp: disp}
}

func (m *Manager) State() State     { return m.state }
func (m *Manager) Error() ErrorCode { return m.errCode }

// Percent reports the session progress, 0 to 100.
func (m *Manager) Percent() uint8 { return m.percent }

// BeginUpdate opens a transfer session. The uploaded file's name selects
// the partition the image is staged into.
func (m *Manager) BeginUpdate(name string, size uint32) bool {
	return m.BeginUpdateTarget(TargetForName(name), size)
}

// BeginUpdateTarget opens a transfer session for an explicit partition.
func (m *Manager) BeginUpdateTarget(target Target, size uint32) bool {
	if m.state == StateRunning {
		m.log.Errorf("update rejected: %s", ErrBusy)
		return false
	}
	if err := m.transfer.Open(target, size); err != nil {
		m.log.Errorf("open %s update of %d bytes: %v", target, size, err)
		m.state = StateFailed
		m.errCode = ErrSize
		return false
	}

	m.state = StateRunning
	m.errCode = ErrNone
	m.target = target
	m.size = size
	m.written = 0
	m.percent = 0
	m.log.Infof("%s update started, %d bytes", target, size)
	m.showMsg("UPDATE")
	m.beginDisplay()
	return true
}

// WriteUpdate appends a chunk to the open transfer session.
func (m *Manager) WriteUpdate(p []byte) bool {
	if m.state != StateRunning {
		return false
	}
	if err := m.transfer.Write(p); err != nil {
		m.log.Errorf("update write: %v", err)
		m.failWith(ErrWrite)
		return false
	}
	m.written += uint32(len(p))
	if m.size > 0 {
		m.showPercent(uint8(uint64(m.written) * 100 / uint64(m.size)))
	}
	return true
}

// EndUpdate closes the transfer session. With commit true the staged image
// is finalized and a restart is requested; otherwise it is discarded.
func (m *Manager) EndUpdate(commit bool) bool {
	if m.state != StateRunning {
		return false
	}
	if !commit {
		m.transfer.Abort()
		m.failWith(ErrAborted)
		return true
	}
	if err := m.transfer.Commit(); err != nil {
		m.log.Errorf("update commit: %v", err)
		m.failWith(ErrCommit)
		return false
	}

	m.state = StateSucceeded
	m.endDisplay()
	m.log.Infof("%s update complete, restart pending", m.target)
	m.RequestRestart()
	return true
}

// BeginProgress opens a display-only session for an externally driven
// update.
func (m *Manager) BeginProgress() bool {
	if m.state == StateRunning {
		return false
	}
	m.state = StateRunning
	m.errCode = ErrNone
	m.percent = 0
	m.beginDisplay()
	return true
}

// UpdateProgress advances the displayed progress. Values below the current
// one are dropped, progress within a session never moves backwards.
func (m *Manager) UpdateProgress(percent uint8) {
	if m.state != StateRunning {
		return
	}
	if percent > 100 {
		percent = 100
	}
	if percent < m.percent {
		return
	}
	m.showPercent(percent)
}

// EndProgress closes a display-only session. It succeeds only if the
// session reached 100 percent.
func (m *Manager) EndProgress() {
	if m.state != StateRunning {
		return
	}
	if m.percent >= 100 {
		m.state = StateSucceeded
	} else {
		m.state = StateFailed
		m.errCode = ErrIncomplete
	}
	m.endDisplay()
}

// OnError fails the running session with an explicit code and requests a
// restart: a device stuck mid-update recovers by rebooting into the old
// image.
func (m *Manager) OnError(code ErrorCode) {
	if m.state != StateRunning {
		return
	}
	m.transfer.Abort()
	m.failWith(code)
	m.RequestRestart()
}

// RequestRestart flags that the device should reboot.
func (m *Manager) RequestRestart() { m.restartRequested = true }

// IsRestartRequested reports a pending reboot request.
func (m *Manager) IsRestartRequested() bool { return m.restartRequested }

func (m *Manager) failWith(code ErrorCode) {
	m.state = StateFailed
	m.errCode = code
	m.endDisplay()
	m.log.Errorf("update failed: %s", code)
	m.showMsg(code.String())
}

// showMsg shows a transient message and gives the operator time to read it.
func (m *Manager) showMsg(text string) {
	if m.disp == nil {
		return
	}
	m.disp.ShowSysMsg(text)
	m.disp.Delay(sysMsgTime)
}

func (m *Manager) showPercent(percent uint8) {
	if percent == m.percent && percent != 0 {
		return
	}
	m.percent = percent
	if m.disp != nil {
		m.disp.ShowProgress(percent)
	}
}

func (m *Manager) beginDisplay() {
	if m.disp != nil {
		m.disp.BeginProgress()
	}
}

func (m *Manager) endDisplay() {
	if m.disp != nil {
		m.disp.EndProgress()
	}
}
