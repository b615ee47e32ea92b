// Package icontext shows a bitmap icon next to a free text, both settable
// at runtime through the REST API.
package icontext

import (
	"sync"

	"glow/glowos/fsys"
	"glow/glowos/gfx"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

const iconSize = 8

// Config is the persisted per-instance configuration.
type Config struct {
	Text     string `json:"text"`
	IconPath string `json:"iconPath"`
}

// Plugin renders an icon and a text side by side.
type Plugin struct {
	mu sync.Mutex

	uid   uint16
	log   *log.Logger
	fs    fsys.FileSystem
	clock gfx.Clock

	cfg       Config
	icon      *gfx.BitmapWidget
	text      *gfx.TextWidget
	iconFrame *gfx.Canvas
	textFrame *gfx.Canvas
}

// New returns an empty instance.
func New(logger *log.Logger, fs fsys.FileSystem, clock gfx.Clock) *Plugin {
	return &Plugin{
		uid:   plugin.NextUID(),
		log:   logger,
		fs:    fs,
		clock: clock,
	}
}

func (p *Plugin) UID() uint16 { return p.uid }

func (p *Plugin) Name() string { return "icontext" }

func (p *Plugin) Start(w, h int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.icon = gfx.NewBitmapWidget()
	p.text = gfx.NewTextWidget(gfx.DefaultFont, p.clock)

	p.iconFrame = gfx.NewCanvas(iconSize, h, 0, 0)
	p.iconFrame.AddWidget(p.icon)
	p.textFrame = gfx.NewCanvas(w-iconSize, h, iconSize, 0)
	p.textFrame.AddWidget(p.text)

	if err := plugin.LoadOrCreateConfig(p.fs, p.uid, &p.cfg); err != nil {
		p.log.Errorf("icontext config: %v", err)
	}
	p.applyLocked()
}

func (p *Plugin) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := plugin.RemoveConfig(p.fs, p.uid); err != nil {
		p.log.Errorf("icontext config: %v", err)
	}
}

func (p *Plugin) Active(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text.SetText(p.cfg.Text)
	p.updateLocked(out)
}

func (p *Plugin) Inactive() {}

func (p *Plugin) Process() {}

func (p *Plugin) Update(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateLocked(out)
}

func (p *Plugin) updateLocked(out gfx.Output) {
	p.iconFrame.Update(out)
	p.textFrame.Update(out)
}

// Text returns the displayed text.
func (p *Plugin) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Text
}

// SetText replaces the displayed text and persists it.
func (p *Plugin) SetText(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Text = s
	p.text.SetText(s)
	return plugin.SaveConfig(p.fs, p.uid, &p.cfg)
}

// SetIcon loads the bitmap at path and persists the reference. On a load
// failure the previous icon stays visible.
func (p *Plugin) SetIcon(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.icon.Load(p.fs, path); err != nil {
		return err
	}
	p.cfg.IconPath = path
	return plugin.SaveConfig(p.fs, p.uid, &p.cfg)
}

func (p *Plugin) applyLocked() {
	p.text.SetText(p.cfg.Text)
	if p.cfg.IconPath != "" {
		if err := p.icon.Load(p.fs, p.cfg.IconPath); err != nil {
			p.log.Warnf("icontext icon %s: %v", p.cfg.IconPath, err)
		}
	}
}
