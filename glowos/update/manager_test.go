package update

import (
	"errors"
	"testing"
	"time"

	"glow/glowos/log"
)

// fakeTransfer scripts staging failures.
type fakeTransfer struct {
	opened    bool
	target    Target
	size      uint32
	written   uint32
	failWrite bool
	failOpen  bool
	committed bool
	aborted   bool
}

func (t *fakeTransfer) Open(target Target, size uint32) error {
	if t.failOpen {
		return errors.New("scripted open failure")
	}
	t.opened = true
	t.target = target
	t.size = size
	return nil
}

func (t *fakeTransfer) Write(p []byte) error {
	if t.failWrite {
		return errors.New("scripted write failure")
	}
	t.written += uint32(len(p))
	return nil
}

func (t *fakeTransfer) Commit() error {
	if t.written != t.size {
		return errors.New("incomplete")
	}
	t.committed = true
	return nil
}

func (t *fakeTransfer) Abort() { t.aborted = true }

// fakeDisplay records the progress session and the bracketing messages.
type fakeDisplay struct {
	sessions int
	ends     int
	shown    []uint8
	msgs     []string
	delays   int
}

func (d *fakeDisplay) ShowSysMsg(text string)     { d.msgs = append(d.msgs, text) }
func (d *fakeDisplay) Delay(dur time.Duration)    { d.delays++ }
func (d *fakeDisplay) BeginProgress()             { d.sessions++ }
func (d *fakeDisplay) ShowProgress(percent uint8) { d.shown = append(d.shown, percent) }
func (d *fakeDisplay) EndProgress()               { d.ends++ }

func newTestManager(tr Transfer, disp Display) *Manager {
	return NewManager(log.New(nil, "update"), tr, disp)
}

func TestTransferSessionLifecycle(t *testing.T) {
	tr := &fakeTransfer{}
	disp := &fakeDisplay{}
	m := newTestManager(tr, disp)

	if m.State() != StateIdle {
		t.Fatalf("initial state = %s, want idle", m.State())
	}
	if !m.BeginUpdate("firmware.bin", 8) {
		t.Fatal("BeginUpdate rejected")
	}
	if m.State() != StateRunning {
		t.Fatalf("state = %s after begin, want running", m.State())
	}

	if !m.WriteUpdate([]byte{1, 2, 3, 4}) || !m.WriteUpdate([]byte{5, 6, 7, 8}) {
		t.Fatal("WriteUpdate failed")
	}
	if !m.EndUpdate(true) {
		t.Fatal("EndUpdate(commit) failed")
	}

	if m.State() != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", m.State())
	}
	if !tr.committed {
		t.Fatal("transfer not committed")
	}
	if !m.IsRestartRequested() {
		t.Fatal("successful update did not request a restart")
	}
	if disp.sessions != 1 || disp.ends != 1 {
		t.Fatalf("display session begin/end = %d/%d, want 1/1", disp.sessions, disp.ends)
	}
}

func TestBeginRoutesImageByName(t *testing.T) {
	cases := []struct {
		name string
		want Target
	}{
		{"firmware.bin", TargetFirmware},
		{"glow-v1.2.0.bin", TargetFirmware},
		{"filesystem.bin", TargetFilesystem},
		{"spiffs.bin", TargetFilesystem},
	}
	for _, c := range cases {
		tr := &fakeTransfer{}
		m := newTestManager(tr, nil)
		if !m.BeginUpdate(c.name, 4) {
			t.Fatalf("%s: BeginUpdate rejected", c.name)
		}
		if tr.target != c.want {
			t.Fatalf("%s: target = %s, want %s", c.name, tr.target, c.want)
		}
	}
}

func TestTransferWriteFailureFailsSession(t *testing.T) {
	tr := &fakeTransfer{failWrite: true}
	m := newTestManager(tr, nil)

	m.BeginUpdate("firmware.bin", 4)
	if m.WriteUpdate([]byte{1, 2}) {
		t.Fatal("WriteUpdate succeeded despite transfer failure")
	}
	if m.State() != StateFailed || m.Error() != ErrWrite {
		t.Fatalf("state = %s error = %s, want failed/flash write", m.State(), m.Error())
	}
	if m.IsRestartRequested() {
		t.Fatal("failed update requested a restart")
	}
}

func TestTransferAbortDiscards(t *testing.T) {
	tr := &fakeTransfer{}
	m := newTestManager(tr, nil)

	m.BeginUpdate("firmware.bin", 4)
	m.WriteUpdate([]byte{1, 2})
	m.EndUpdate(false)

	if !tr.aborted {
		t.Fatal("transfer not aborted")
	}
	if m.State() != StateFailed || m.Error() != ErrAborted {
		t.Fatalf("state = %s error = %s, want failed/aborted", m.State(), m.Error())
	}
}

func TestBeginRejectedWhileRunning(t *testing.T) {
	tr := &fakeTransfer{}
	m := newTestManager(tr, nil)

	m.BeginUpdate("firmware.bin", 4)
	if m.BeginUpdate("firmware.bin", 4) {
		t.Fatal("second BeginUpdate accepted during a running session")
	}
	if m.State() != StateRunning {
		t.Fatalf("running session was disturbed, state = %s", m.State())
	}
}

func TestProgressSessionMonotonic(t *testing.T) {
	disp := &fakeDisplay{}
	m := newTestManager(&fakeTransfer{}, disp)

	m.BeginProgress()
	m.UpdateProgress(10)
	m.UpdateProgress(40)
	m.UpdateProgress(25) // stale, must be dropped
	m.UpdateProgress(40) // duplicate, must not repaint
	m.UpdateProgress(100)
	m.EndProgress()

	want := []uint8{10, 40, 100}
	if len(disp.shown) != len(want) {
		t.Fatalf("shown = %v, want %v", disp.shown, want)
	}
	for i := range want {
		if disp.shown[i] != want[i] {
			t.Fatalf("shown = %v, want %v", disp.shown, want)
		}
	}
	if m.State() != StateSucceeded {
		t.Fatalf("state = %s, want succeeded", m.State())
	}
}

func TestProgressSessionIncompleteFails(t *testing.T) {
	m := newTestManager(&fakeTransfer{}, nil)

	m.BeginProgress()
	m.UpdateProgress(60)
	m.EndProgress()

	if m.State() != StateFailed || m.Error() != ErrIncomplete {
		t.Fatalf("state = %s error = %s, want failed/incomplete", m.State(), m.Error())
	}
}

func TestOnErrorAbortsSession(t *testing.T) {
	tr := &fakeTransfer{}
	m := newTestManager(tr, nil)

	m.BeginUpdate("firmware.bin", 4)
	m.OnError(ErrAborted)

	if !tr.aborted {
		t.Fatal("transfer not aborted on error")
	}
	if m.State() != StateFailed {
		t.Fatalf("state = %s, want failed", m.State())
	}
	if !m.IsRestartRequested() {
		t.Fatal("error path did not request a restart")
	}
}

func TestSessionBracketsWithMessages(t *testing.T) {
	disp := &fakeDisplay{}
	m := newTestManager(&fakeTransfer{}, disp)

	m.BeginUpdate("firmware.bin", 4)
	m.OnError(ErrWrite)

	// One readable message on start, the mapped one on failure, each with
	// its read delay.
	if len(disp.msgs) != 2 || disp.msgs[0] != "UPDATE" || disp.msgs[1] != ErrWrite.String() {
		t.Fatalf("messages = %v, want [UPDATE, %s]", disp.msgs, ErrWrite)
	}
	if disp.delays != 2 {
		t.Fatalf("read delays = %d, want 2", disp.delays)
	}
	if disp.ends != 1 {
		t.Fatalf("progress session ends = %d, want 1", disp.ends)
	}
}

func TestUploadFailureDoesNotRestart(t *testing.T) {
	tr := &fakeTransfer{failWrite: true}
	disp := &fakeDisplay{}
	m := newTestManager(tr, disp)

	m.BeginUpdate("firmware.bin", 4)
	m.WriteUpdate([]byte{1, 2})

	if m.IsRestartRequested() {
		t.Fatal("failed transfer chunk requested a restart")
	}
	if len(disp.msgs) != 2 || disp.msgs[1] != ErrWrite.String() {
		t.Fatalf("messages = %v, want the mapped failure message", disp.msgs)
	}
}
