//go:build !tinygo

package hal

import (
	"os"
	"sync"
)

// Matrix geometry of the simulated display.
const (
	hostMatrixWidth  = 32
	hostMatrixHeight = 8
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	flash  *hostFlash
	net    *hostNetwork
	sys    *hostSystem
}

// New returns a host HAL implementation simulating the LED matrix.
func New() HAL {
	logger := &hostLogger{w: os.Stdout}
	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(hostMatrixWidth, hostMatrixHeight),
		t:      newHostTime(),
		flash:  newHostFlash(),
		net:    &hostNetwork{hostname: "glow"},
		sys:    &hostSystem{logger: logger},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Network() Network { return h.net }
func (h *hostHAL) System() System   { return h.sys }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.WriteString(s + "\n")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

// hostNetwork simulates an always-available access point association.
type hostNetwork struct {
	mu        sync.Mutex
	connected bool
	hostname  string
}

func (n *hostNetwork) Connect(ssid, passphrase string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ssid == "" {
		return false
	}
	n.connected = true
	return true
}

func (n *hostNetwork) Disconnect() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.connected = false
}

func (n *hostNetwork) IsConnected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.connected
}

func (n *hostNetwork) SetHostname(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if name == "" {
		return false
	}
	n.hostname = name
	return true
}

func (n *hostNetwork) Hostname() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hostname
}

func (n *hostNetwork) IP() string { return "127.0.0.1" }

// hostSystem terminates the simulator where real hardware would reboot.
type hostSystem struct {
	logger *hostLogger
}

func (s *hostSystem) Restart() {
	s.logger.WriteLineString("INFO [hal] restart requested, leaving simulator")
	os.Exit(0)
}
