// Package sunrise shows today's sunrise and sunset times for a configured
// location, fetched from the sunrise-sunset.org REST API.
package sunrise

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"glow/glowos/fsys"
	"glow/glowos/gfx"
	"glow/glowos/httpc"
	"glow/glowos/log"
	"glow/glowos/plugin"
)

const (
	// updatePeriod is the steady poll interval.
	updatePeriod = 12 * 60 * 60 * 1000 // ms

	// updatePeriodShort is the retry interval after a failed fetch.
	updatePeriodShort = 30 * 1000 // ms

	iconPath = "/icons/sunrise.bmp"
	iconSize = 8
)

// Config is the persisted per-instance configuration.
type Config struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type apiResponse struct {
	Results struct {
		Sunrise time.Time `json:"sunrise"`
		Sunset  time.Time `json:"sunset"`
	} `json:"results"`
	Status string `json:"status"`
}

// Plugin fetches and displays sunrise and sunset times.
type Plugin struct {
	mu sync.Mutex

	uid    uint16
	log    *log.Logger
	fs     fsys.FileSystem
	client *httpc.Client
	clock  gfx.Clock

	cfg       Config
	icon      *gfx.BitmapWidget
	text      *gfx.TextWidget
	iconFrame *gfx.Canvas
	textFrame *gfx.Canvas

	timer    *plugin.SimpleTimer
	inFlight bool
}

// New returns an instance with the default location unset.
func New(logger *log.Logger, fs fsys.FileSystem, client *httpc.Client, clock gfx.Clock) *Plugin {
	return &Plugin{
		uid:    plugin.NextUID(),
		log:    logger,
		fs:     fs,
		client: client,
		clock:  clock,
		cfg:    Config{Latitude: "0.0", Longitude: "0.0"},
		timer:  plugin.NewSimpleTimer(clock),
	}
}

func (p *Plugin) UID() uint16 { return p.uid }

func (p *Plugin) Name() string { return "sunrise" }

func (p *Plugin) Start(w, h int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.icon = gfx.NewBitmapWidget()
	if err := p.icon.Load(p.fs, iconPath); err != nil {
		p.log.Warnf("sunrise icon: %v", err)
	}
	p.text = gfx.NewTextWidget(gfx.DefaultFont, p.clock)
	p.text.SetText("--:-- --:--")

	p.iconFrame = gfx.NewCanvas(iconSize, h, 0, 0)
	p.iconFrame.AddWidget(p.icon)
	p.textFrame = gfx.NewCanvas(w-iconSize, h, iconSize, 0)
	p.textFrame.AddWidget(p.text)

	if err := plugin.LoadOrCreateConfig(p.fs, p.uid, &p.cfg); err != nil {
		p.log.Errorf("sunrise config: %v", err)
	}

	// Fire the first fetch right away.
	p.timer.Start(0)
}

func (p *Plugin) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timer.Stop()
	if err := plugin.RemoveConfig(p.fs, p.uid); err != nil {
		p.log.Errorf("sunrise config: %v", err)
	}
}

func (p *Plugin) Active(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Redraw from the start so the text is readable from its beginning.
	p.text.SetText(p.text.Text())
	p.updateLocked(out)
}

func (p *Plugin) Inactive() {}

func (p *Plugin) Process() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer.IsTimeout() && !p.inFlight {
		p.timer.Stop()
		p.inFlight = true
		p.client.Get(p.urlLocked())
	}

	if !p.inFlight {
		return
	}
	res, ok := p.client.Poll()
	if !ok {
		return
	}
	p.inFlight = false

	if err := p.applyLocked(res); err != nil {
		p.log.Warnf("sunrise fetch: %v", err)
		p.timer.Start(updatePeriodShort)
		return
	}
	p.timer.Start(updatePeriod)
}

func (p *Plugin) Update(out gfx.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateLocked(out)
}

func (p *Plugin) updateLocked(out gfx.Output) {
	p.iconFrame.Update(out)
	p.textFrame.Update(out)
}

// Location returns the configured coordinates.
func (p *Plugin) Location() (lat, lon string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Latitude, p.cfg.Longitude
}

// SetLocation updates and persists the coordinates, then forces a fetch.
func (p *Plugin) SetLocation(lat, lon string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cfg.Latitude = lat
	p.cfg.Longitude = lon
	if err := plugin.SaveConfig(p.fs, p.uid, &p.cfg); err != nil {
		return err
	}
	if p.inFlight {
		// Supersede the fetch for the old location right away; its result
		// is dropped by the client's sequence check.
		p.client.Get(p.urlLocked())
	} else {
		p.timer.Start(0)
	}
	return nil
}

func (p *Plugin) urlLocked() string {
	return fmt.Sprintf(
		"https://api.sunrise-sunset.org/json?lat=%s&lng=%s&formatted=0",
		p.cfg.Latitude, p.cfg.Longitude,
	)
}

func (p *Plugin) applyLocked(res httpc.Result) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Status != 200 {
		return fmt.Errorf("unexpected status %d", res.Status)
	}
	var parsed apiResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if parsed.Status != "OK" {
		return fmt.Errorf("api status %q", parsed.Status)
	}

	sunrise := parsed.Results.Sunrise.Local()
	sunset := parsed.Results.Sunset.Local()
	p.text.SetText(fmt.Sprintf("%02d:%02d %02d:%02d",
		sunrise.Hour(), sunrise.Minute(), sunset.Hour(), sunset.Minute()))
	return nil
}
