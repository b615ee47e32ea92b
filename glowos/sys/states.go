package sys

import (
	"glow/glowos/display"
	"glow/glowos/plugin"
)

// connectRetryPeriod is the wait between association attempts.
const connectRetryPeriod = 5000 // ms

// initState prepares the device identity and hands over to the network
// bring-up.
type initState struct{}

func newInitState() *initState { return &initState{} }

func (s *initState) ID() StateID { return StateInit }

func (s *initState) Entry(m *Machine) {
	svc := m.Services()
	if svc.Hostname != "" && !svc.Net.SetHostname(svc.Hostname) {
		svc.Log.Warnf("hostname %q rejected", svc.Hostname)
	}
	svc.Display.ShowSysMsg("BOOT")
}

func (s *initState) Process(m *Machine) {
	if m.Services().SSID == "" {
		m.SetState(newErrorState("NO WIFI CONFIG"))
		return
	}
	m.SetState(newConnectingState())
}

func (s *initState) Exit(m *Machine) {}

// connectingState associates with the access point, retrying periodically.
type connectingState struct {
	retry *plugin.SimpleTimer
}

func newConnectingState() *connectingState { return &connectingState{} }

func (s *connectingState) ID() StateID { return StateConnecting }

func (s *connectingState) Entry(m *Machine) {
	svc := m.Services()
	svc.Display.ShowSysMsg("WIFI ...")
	s.retry = plugin.NewSimpleTimer(svc.Clock)
	s.connect(m)
}

func (s *connectingState) Process(m *Machine) {
	svc := m.Services()
	if svc.Net.IsConnected() {
		m.SetState(newConnectedState())
		return
	}
	if s.retry.IsTimeout() {
		s.connect(m)
	}
}

func (s *connectingState) Exit(m *Machine) {
	s.retry.Stop()
}

func (s *connectingState) connect(m *Machine) {
	svc := m.Services()
	if !svc.Net.Connect(svc.SSID, svc.Passphrase) {
		svc.Log.Warnf("association with %q failed, retrying", svc.SSID)
	}
	s.retry.Start(connectRetryPeriod)
}

// connectedState is the steady phase: web server up, plugins rotating.
type connectedState struct{}

func newConnectedState() *connectedState { return &connectedState{} }

func (s *connectedState) ID() StateID { return StateConnected }

func (s *connectedState) Entry(m *Machine) {
	svc := m.Services()
	svc.Display.ShowSysMsg(svc.Net.IP())
	if svc.StartServer != nil {
		svc.StartServer()
	}
}

func (s *connectedState) Process(m *Machine) {
	svc := m.Services()
	if svc.Update.IsRestartRequested() {
		m.SetState(newRestartState())
		return
	}
	if !svc.Net.IsConnected() {
		svc.Log.Warn("network connection lost")
		m.SetState(newConnectingState())
	}
}

func (s *connectedState) Exit(m *Machine) {
	svc := m.Services()
	if svc.StopServer != nil {
		svc.StopServer()
	}
}

// restartState shows a last message and reboots.
type restartState struct{}

func newRestartState() *restartState { return &restartState{} }

func (s *restartState) ID() StateID { return StateRestart }

func (s *restartState) Entry(m *Machine) {
	svc := m.Services()
	svc.Display.ShowSysMsg("REBOOT")
	svc.Display.Render()
	svc.Display.Delay(display.SysMsgWaitTime)
	svc.Net.Disconnect()
	svc.Sys.Restart()
}

func (s *restartState) Process(m *Machine) {}

func (s *restartState) Exit(m *Machine) {}

// errorState parks the device with a visible reason. Only a power cycle
// leaves it.
type errorState struct {
	reason string
}

func newErrorState(reason string) *errorState {
	return &errorState{reason: reason}
}

func (s *errorState) ID() StateID { return StateError }

func (s *errorState) Entry(m *Machine) {
	svc := m.Services()
	svc.Log.Errorf("fatal: %s", s.reason)
	svc.Display.ShowSysMsgFor(s.reason, ^uint32(0))
}

func (s *errorState) Process(m *Machine) {}

func (s *errorState) Exit(m *Machine) {}
