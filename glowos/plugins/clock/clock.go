// Package clock shows the wall time as HH:MM.
package clock

import (
	"fmt"
	"sync"
	"time"

	"glow/glowos/gfx"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

// Plugin renders the current time, refreshed once per second.
type Plugin struct {
	mu sync.Mutex

	uid   uint16
	log   *log.Logger
	clock gfx.Clock
	now   func() time.Time

	text  *gfx.TextWidget
	frame *gfx.Canvas
	timer *plugin.SimpleTimer
}

// New returns a clock instance. now is the wall time source, nil means
// time.Now.
func New(logger *log.Logger, clock gfx.Clock, now func() time.Time) *Plugin {
	if now == nil {
		now = time.Now
	}
	return &Plugin{
		uid:   plugin.NextUID(),
		log:   logger,
		clock: clock,
		now:   now,
		timer: plugin.NewSimpleTimer(clock),
	}
}

func (p *Plugin) UID() uint16 { return p.uid }

func (p *Plugin) Name() string { return "clock" }

func (p *Plugin) Start(w, h int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.text = gfx.NewTextWidget(gfx.DefaultFont, p.clock)
	p.frame = gfx.NewCanvas(w, h, 0, 0)
	p.frame.AddWidget(p.text)

	p.refreshLocked()
	p.timer.Start(1000)
}

func (p *Plugin) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timer.Stop()
}

func (p *Plugin) Active(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshLocked()
	p.frame.Update(out)
}

func (p *Plugin) Inactive() {}

func (p *Plugin) Process() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer.IsTimeout() {
		p.refreshLocked()
		p.timer.Restart()
	}
}

func (p *Plugin) Update(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame.Update(out)
}

func (p *Plugin) refreshLocked() {
	t := p.now()
	s := fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
	if s != p.text.Text() {
		p.text.SetText(s)
	}
}
