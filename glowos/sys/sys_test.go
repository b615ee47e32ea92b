package sys

import (
	"image/color"
	"testing"

	"glow/glowos/display"
	"glow/glowos/log"
	"glow/glowos/update"
)

type fakeOutput struct {
	w, h int16
}

func (f *fakeOutput) Size() (int16, int16)              { return f.w, f.h }
func (f *fakeOutput) SetPixel(x, y int16, c color.RGBA) {}
func (f *fakeOutput) Display() error                    { return nil }
func (f *fakeOutput) FillScreen(c color.RGBA)           {}

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32    { return c.now }
func (c *fakeClock) advance(ms uint32) { c.now += ms }

// fakeNet scripts association behavior.
type fakeNet struct {
	connectCalls int
	accept       bool
	connected    bool
	hostname     string
}

func (n *fakeNet) Connect(ssid, pass string) bool {
	n.connectCalls++
	if n.accept {
		n.connected = true
	}
	return n.accept
}
func (n *fakeNet) Disconnect()       { n.connected = false }
func (n *fakeNet) IsConnected() bool { return n.connected }
func (n *fakeNet) SetHostname(h string) bool {
	n.hostname = h
	return true
}
func (n *fakeNet) Hostname() string { return n.hostname }
func (n *fakeNet) IP() string       { return "192.168.1.50" }

type fakeSystem struct {
	restarts int
}

func (s *fakeSystem) Restart() { s.restarts++ }

type nullTransfer struct{}

func (nullTransfer) Open(t update.Target, size uint32) error { return nil }
func (nullTransfer) Write(p []byte) error                    { return nil }
func (nullTransfer) Commit() error                           { return nil }
func (nullTransfer) Abort()                                  {}

type harness struct {
	m      *Machine
	net    *fakeNet
	sys    *fakeSystem
	clock  *fakeClock
	upd    *update.Manager
	starts int
	stops  int
}

func newHarness(ssid string) *harness {
	h := &harness{
		net:   &fakeNet{accept: true},
		sys:   &fakeSystem{},
		clock: &fakeClock{},
	}
	logger := log.New(nil, "sys")
	disp := display.NewManager(logger, &fakeOutput{w: 32, h: 8}, h.clock)
	h.upd = update.NewManager(logger, nullTransfer{}, nil)

	h.m = NewMachine(&Services{
		Log:         logger,
		Net:         h.net,
		Sys:         h.sys,
		Clock:       h.clock,
		Display:     disp,
		Update:      h.upd,
		SSID:        ssid,
		Passphrase:  "secret",
		Hostname:    "glow",
		StartServer: func() { h.starts++ },
		StopServer:  func() { h.stops++ },
	})
	return h
}

func (h *harness) steps(n int) {
	for i := 0; i < n; i++ {
		h.m.Process()
	}
}

func TestBootReachesConnected(t *testing.T) {
	h := newHarness("home")

	h.steps(4) // init entry, init->connecting, connecting->connected, settle

	if h.m.CurrentID() != StateConnected {
		t.Fatalf("state = %s, want connected", h.m.CurrentID())
	}
	if h.net.hostname != "glow" {
		t.Fatalf("hostname = %q, want glow", h.net.hostname)
	}
	if h.starts != 1 {
		t.Fatalf("server starts = %d, want 1", h.starts)
	}
}

func TestMissingCredentialsGoError(t *testing.T) {
	h := newHarness("")

	h.steps(3)

	if h.m.CurrentID() != StateError {
		t.Fatalf("state = %s, want error", h.m.CurrentID())
	}
	if h.net.connectCalls != 0 {
		t.Fatal("association attempted without credentials")
	}
}

func TestConnectRetriesPeriodically(t *testing.T) {
	h := newHarness("home")
	h.net.accept = false

	h.steps(4)
	if h.m.CurrentID() != StateConnecting {
		t.Fatalf("state = %s, want connecting", h.m.CurrentID())
	}
	if h.net.connectCalls != 1 {
		t.Fatalf("connect calls = %d, want 1", h.net.connectCalls)
	}

	h.steps(5) // within the retry period nothing new happens
	if h.net.connectCalls != 1 {
		t.Fatalf("connect calls = %d before retry period, want 1", h.net.connectCalls)
	}

	h.clock.advance(connectRetryPeriod)
	h.steps(1)
	if h.net.connectCalls != 2 {
		t.Fatalf("connect calls = %d after retry period, want 2", h.net.connectCalls)
	}
}

func TestDisconnectFallsBackToConnecting(t *testing.T) {
	h := newHarness("home")
	h.steps(4)

	h.net.connected = false
	h.steps(2)

	if h.m.CurrentID() != StateConnecting {
		t.Fatalf("state = %s after link loss, want connecting", h.m.CurrentID())
	}
	if h.stops != 1 {
		t.Fatalf("server stops = %d, want 1", h.stops)
	}
	// The connecting state reassociates and recovers.
	h.steps(2)
	if h.m.CurrentID() != StateConnected {
		t.Fatalf("state = %s after recovery, want connected", h.m.CurrentID())
	}
}

func TestRestartRequestReboots(t *testing.T) {
	h := newHarness("home")
	h.steps(4)

	h.upd.RequestRestart()
	h.steps(2)

	if h.m.CurrentID() != StateRestart {
		t.Fatalf("state = %s, want restart", h.m.CurrentID())
	}
	if h.sys.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", h.sys.restarts)
	}
	if h.stops != 1 {
		t.Fatalf("server stops = %d, want 1", h.stops)
	}
}
