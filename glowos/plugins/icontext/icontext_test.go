package icontext

import (
	"image/color"
	"testing"

	"glow/glowos/fsys"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32 { return c.now }

func newTestPlugin() (*Plugin, fsys.FileSystem) {
	fs := fsys.NewMemFS()
	return New(log.New(nil, "icontext"), fs, &fakeClock{}), fs
}

func TestSetTextPersists(t *testing.T) {
	p, fs := newTestPlugin()
	p.Start(32, 8)

	if err := p.SetText("HELLO"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if p.Text() != "HELLO" {
		t.Fatalf("Text() = %q", p.Text())
	}

	var cfg Config
	if err := plugin.LoadConfig(fs, p.UID(), &cfg); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Text != "HELLO" {
		t.Fatalf("persisted text = %q", cfg.Text)
	}
}

func TestStartRestoresConfig(t *testing.T) {
	p, fs := newTestPlugin()
	if err := plugin.SaveConfig(fs, p.UID(), &Config{Text: "RESTORED"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	p.Start(32, 8)
	if p.Text() != "RESTORED" {
		t.Fatalf("Text() = %q after start, want RESTORED", p.Text())
	}
}

type countingOutput struct {
	w, h   int16
	pixels int
}

func (o *countingOutput) Size() (int16, int16)              { return o.w, o.h }
func (o *countingOutput) SetPixel(x, y int16, c color.RGBA) { o.pixels++ }
func (o *countingOutput) Display() error                    { return nil }
func (o *countingOutput) FillScreen(c color.RGBA)           {}

func TestActivationDrawsImmediately(t *testing.T) {
	p, _ := newTestPlugin()
	p.Start(32, 8)
	if err := p.SetText("HI"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	out := &countingOutput{w: 32, h: 8}
	p.Active(out)
	if out.pixels == 0 {
		t.Fatal("activation did not draw a first frame")
	}
}

func TestStopRemovesConfig(t *testing.T) {
	p, fs := newTestPlugin()
	p.Start(32, 8)

	if !fs.Exists(plugin.ConfigPath(p.UID())) {
		t.Fatal("config not created on start")
	}
	p.Stop()
	if fs.Exists(plugin.ConfigPath(p.UID())) {
		t.Fatal("config still present after stop")
	}
}

func TestSetIconMissingFileKeepsState(t *testing.T) {
	p, _ := newTestPlugin()
	p.Start(32, 8)

	if err := p.SetIcon("/icons/missing.bmp"); err == nil {
		t.Fatal("SetIcon with a missing file succeeded")
	}
	if p.cfg.IconPath != "" {
		t.Fatalf("icon path = %q after failed load, want empty", p.cfg.IconPath)
	}
}
