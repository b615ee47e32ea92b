// Package sys drives the device lifecycle as a state machine: boot,
// network bring-up, steady operation, restart and the terminal error state.
package sys

import (
	"glow/glowos/display"
	"glow/glowos/log"
	"glow/glowos/update"
	"glow/hal"

	"glow/glowos/gfx"
)

// StateID identifies a lifecycle state.
type StateID uint8

const (
	StateInit StateID = iota
	StateConnecting
	StateConnected
	StateRestart
	StateError
)

func (s StateID) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateRestart:
		return "restart"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// State is one lifecycle state. Entry runs once on activation, Process on
// every main loop tick, Exit once before the next state's Entry.
type State interface {
	ID() StateID
	Entry(m *Machine)
	Process(m *Machine)
	Exit(m *Machine)
}

// Services are the capabilities the states operate on.
type Services struct {
	Log     *log.Logger
	Net     hal.Network
	Sys     hal.System
	Clock   gfx.Clock
	Display *display.Manager
	Update  *update.Manager

	// Network credentials and identity.
	SSID       string
	Passphrase string
	Hostname   string

	// StartServer and StopServer bracket the steady phase. Either may be
	// nil.
	StartServer func()
	StopServer  func()
}

// Machine runs the lifecycle. All methods run on the main loop.
type Machine struct {
	svc  *Services
	cur  State
	next State
}

// NewMachine returns a machine starting in the init state.
func NewMachine(svc *Services) *Machine {
	m := &Machine{svc: svc}
	m.next = newInitState()
	return m
}

// Services exposes the shared capabilities to states.
func (m *Machine) Services() *Services { return m.svc }

// CurrentID reports the active state.
func (m *Machine) CurrentID() StateID {
	if m.cur == nil {
		return StateInit
	}
	return m.cur.ID()
}

// SetState requests a transition, taken before the next Process.
func (m *Machine) SetState(s State) {
	m.next = s
}

// Process takes a pending transition and runs the active state once.
func (m *Machine) Process() {
	if m.next != nil {
		if m.cur != nil {
			m.cur.Exit(m)
		}
		m.cur = m.next
		m.next = nil
		m.svc.Log.Infof("entering state %s", m.cur.ID())
		m.cur.Entry(m)
	}
	if m.cur != nil && m.next == nil {
		m.cur.Process(m)
	}
}
