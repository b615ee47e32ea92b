package gfx

import (
	"image/color"
)

// fakeOutput records every SetPixel call for assertions.
type fakeOutput struct {
	w, h     int16
	pixels   map[[2]int16]color.RGBA
	sets     [][2]int16
	fills    int
	presents int
}

func newFakeOutput(w, h int16) *fakeOutput {
	return &fakeOutput{w: w, h: h, pixels: make(map[[2]int16]color.RGBA)}
}

func (f *fakeOutput) Size() (int16, int16) { return f.w, f.h }

func (f *fakeOutput) SetPixel(x, y int16, c color.RGBA) {
	f.pixels[[2]int16{x, y}] = c
	f.sets = append(f.sets, [2]int16{x, y})
}

func (f *fakeOutput) Display() error {
	f.presents++
	return nil
}

func (f *fakeOutput) FillScreen(c color.RGBA) {
	f.fills++
	for y := int16(0); y < f.h; y++ {
		for x := int16(0); x < f.w; x++ {
			f.pixels[[2]int16{x, y}] = c
		}
	}
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32 { return c.now }

func (c *fakeClock) advance(ms uint32) { c.now += ms }
