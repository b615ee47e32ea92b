// Package gfx provides the widget and canvas composition model for the
// pixel matrix.
package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Output is the drawing surface widgets and canvases render into.
//
// It extends the pixel interface of tinygo drivers with a whole-surface fill;
// the concrete display driver stays outside this package.
type Output interface {
	drivers.Displayer
	FillScreen(c color.RGBA)
}

// Common colors of the matrix palette.
var (
	Black  = color.RGBA{A: 0xFF}
	White  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Red    = color.RGBA{R: 0xFF, A: 0xFF}
	Green  = color.RGBA{G: 0xFF, A: 0xFF}
	Yellow = color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}
)

// Widget is a minimal drawable unit.
type Widget interface {
	// Update draws the widget onto the output. The caller clears the
	// destination beforehand; widgets never clear implicitly.
	Update(out Output)
}

// Clock supplies a millisecond timestamp for animations and timers.
type Clock interface {
	Millis() uint32
}
