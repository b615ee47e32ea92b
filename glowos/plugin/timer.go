package plugin

import "glow/glowos/gfx"

// SimpleTimer is a polled one-shot timer on the shared millisecond clock.
type SimpleTimer struct {
	clock    gfx.Clock
	running  bool
	duration uint32
	started  uint32
}

// NewSimpleTimer returns a stopped timer.
func NewSimpleTimer(clock gfx.Clock) *SimpleTimer {
	return &SimpleTimer{clock: clock}
}

// Start arms the timer for ms milliseconds from now.
func (t *SimpleTimer) Start(ms uint32) {
	t.running = true
	t.duration = ms
	t.started = t.clock.Millis()
}

// Restart re-arms with the previous duration.
func (t *SimpleTimer) Restart() {
	t.Start(t.duration)
}

// Stop disarms the timer.
func (t *SimpleTimer) Stop() {
	t.running = false
}

// IsRunning reports whether the timer is armed.
func (t *SimpleTimer) IsRunning() bool { return t.running }

// IsTimeout reports whether an armed timer has elapsed. Wrap-around safe
// for spans below half the counter range.
func (t *SimpleTimer) IsTimeout() bool {
	if !t.running {
		return false
	}
	return t.clock.Millis()-t.started >= t.duration
}
