package gfx

import "image/color"

// ProgressBar fills the output pixel by pixel in proportion to a 0..100
// progress value. It is shown in a display slot while a firmware transfer
// runs.
type ProgressBar struct {
	progress uint8
	color    color.RGBA
}

// NewProgressBar returns a progress bar drawn in red.
func NewProgressBar() *ProgressBar {
	return &ProgressBar{color: Red}
}

// SetProgress sets the progress in percent, clamped to 100.
func (p *ProgressBar) SetProgress(percent uint8) {
	if percent > 100 {
		percent = 100
	}
	p.progress = percent
}

// Progress returns the current progress in percent.
func (p *ProgressBar) Progress() uint8 { return p.progress }

// SetColor sets the fill color.
func (p *ProgressBar) SetColor(c color.RGBA) { p.color = c }

// Update lights floor(w*h*progress/100) pixels in row-major order.
func (p *ProgressBar) Update(out Output) {
	w, h := out.Size()
	total := int(w) * int(h)
	lit := total * int(p.progress) / 100

	for i := 0; i < lit; i++ {
		out.SetPixel(int16(i%int(w)), int16(i/int(w)), p.color)
	}
}
