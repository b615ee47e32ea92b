package gfx

import (
	"image/color"

	"glow/hal"
)

// FrameOutput adapts a hal.Framebuffer into an Output, so widgets and
// canvases can draw without knowing the pixel encoding.
type FrameOutput struct {
	fb hal.Framebuffer
}

// NewFrameOutput wraps a framebuffer. A nil framebuffer yields an output
// that swallows all drawing.
func NewFrameOutput(fb hal.Framebuffer) *FrameOutput {
	return &FrameOutput{fb: fb}
}

func (d *FrameOutput) Size() (int16, int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *FrameOutput) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *FrameOutput) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *FrameOutput) FillScreen(c color.RGBA) {
	if d.fb == nil {
		return
	}
	d.fb.ClearRGB(c.R, c.G, c.B)
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
