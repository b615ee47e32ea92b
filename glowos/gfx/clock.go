package gfx

import "glow/hal"

// TickClock derives the millisecond timestamp from the HAL tick stream.
// One tick is one millisecond. Reads drain the stream, so the clock must
// only be read from the main loop.
type TickClock struct {
	ticks <-chan uint64
	now   uint32
}

// NewTickClock returns a clock fed by src.
func NewTickClock(src hal.Time) *TickClock {
	return &TickClock{ticks: src.Ticks()}
}

func (c *TickClock) Millis() uint32 {
	for {
		select {
		case t := <-c.ticks:
			c.now = uint32(t)
		default:
			return c.now
		}
	}
}
