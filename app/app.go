// Package app assembles the firmware: HAL capabilities, the display
// manager with its plugins, the update path, the web dispatcher and the
// lifecycle state machine.
package app

import (
	"fmt"

	"glow/glowos/display"
	"glow/glowos/fsys"
	"glow/glowos/gfx"
	"glow/glowos/httpc"
	"glow/glowos/log"
	"glow/glowos/plugins/clock"
	"glow/glowos/plugins/icontext"
	"glow/glowos/plugins/sunrise"
	"glow/glowos/settings"
	"glow/glowos/sys"
	"glow/glowos/update"
	"glow/glowos/web"
	"glow/hal"
)

// Config carries host-side overrides.
type Config struct {
	// FS replaces the default filesystem, mainly for tests.
	FS fsys.FileSystem
	// DataDir is the host directory backing the device filesystem.
	DataDir string
}

type system struct {
	log        *log.Logger
	machine    *sys.Machine
	dispatcher *web.Dispatcher
	disp       *display.Manager
}

// New initializes the firmware with defaults and returns the per-tick step.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run initializes the firmware and blocks forever.
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

// NewWithConfig initializes the firmware and returns the per-tick step.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	return s.step
}

func newSystem(h hal.HAL, cfg Config) *system {
	baseLog := log.New(h.Logger(), "app")
	clk := gfx.NewTickClock(h.Time())

	fs := cfg.FS
	if fs == nil {
		dir := cfg.DataDir
		if dir == "" {
			dir = "glow-data"
		}
		hostFS, err := fsys.NewHostFS(dir)
		if err != nil {
			baseLog.Fatalf("filesystem at %s: %v", dir, err)
			fs = fsys.NewMemFS()
		} else {
			fs = hostFS
		}
	}

	cfgStore, err := settings.Load(fs)
	if err != nil {
		baseLog.Errorf("settings: %v, continuing with defaults", err)
	}

	out := gfx.NewFrameOutput(h.Display().Framebuffer())
	disp := display.NewManager(baseLog.WithTag("display"), out, clk)
	for i := 0; i < display.MaxSlots; i++ {
		disp.SetSlotDuration(i, cfgStore.Display.SlotDuration)
	}

	transfer := update.NewFlashTransfer(h.Flash())
	upd := update.NewManager(baseLog.WithTag("update"), transfer, disp)

	dispatcher := web.NewDispatcher(baseLog.WithTag("web"))

	clockPlug := clock.New(baseLog.WithTag("clock"), clk, nil)
	textPlug := icontext.New(baseLog.WithTag("icontext"), fs, clk)
	sunPlug := sunrise.New(
		baseLog.WithTag("sunrise"), fs,
		httpc.New(baseLog.WithTag("httpc"), nil), clk,
	)
	disp.InstallPlugin(clockPlug, 0)
	disp.InstallPlugin(textPlug, 1)
	disp.InstallPlugin(sunPlug, 2)

	s := &system{
		log:        baseLog,
		dispatcher: dispatcher,
		disp:       disp,
	}

	server := newServer(baseLog.WithTag("httpd"), dispatcher, &routes{
		log:  baseLog.WithTag("rest"),
		fs:   fs,
		upd:  upd,
		disp: disp,
		text: textPlug,
		sun:  sunPlug,
		cfg:  cfgStore,
	})

	s.machine = sys.NewMachine(&sys.Services{
		Log:        baseLog.WithTag("sys"),
		Net:        h.Network(),
		Sys:        h.System(),
		Clock:      clk,
		Display:    disp,
		Update:     upd,
		SSID:       cfgStore.Wifi.SSID,
		Passphrase: cfgStore.Wifi.Passphrase,
		Hostname:   cfgStore.Hostname,
		StartServer: func() {
			server.Start(cfgStore.HTTP.Addr)
		},
		StopServer: server.Stop,
	})

	return s
}

// step runs one main loop tick. A panic anywhere in the loop is logged
// before it takes the process down, the host runner turns it into an exit.
func (s *system) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Fatalf("panic in main loop: %v", r)
			err = fmt.Errorf("main loop panic: %v", r)
		}
	}()

	s.machine.Process()
	s.dispatcher.Process()
	s.disp.Process()
	s.disp.Render()
	return nil
}
