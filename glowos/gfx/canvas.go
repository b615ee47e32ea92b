package gfx

import "image/color"

// Canvas is a positioned rectangular region composing an ordered set of
// widgets. Widgets are referenced, not owned; the same widget may live on
// several canvases.
type Canvas struct {
	x, y    int16
	w, h    int16
	widgets []Widget
}

// NewCanvas creates a canvas of the given size at the given screen position.
func NewCanvas(w, h, x, y int16) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Canvas{x: x, y: y, w: w, h: h}
}

// Width returns the canvas width.
func (c *Canvas) Width() int16 { return c.w }

// Height returns the canvas height.
func (c *Canvas) Height() int16 { return c.h }

// AddWidget appends a widget to the association list. Adding a widget that
// is already present is a no-op.
func (c *Canvas) AddWidget(w Widget) {
	if w == nil {
		return
	}
	for _, existing := range c.widgets {
		if existing == w {
			return
		}
	}
	c.widgets = append(c.widgets, w)
}

// RemoveWidget removes a widget from the association list. Removing a widget
// that is absent is a no-op.
func (c *Canvas) RemoveWidget(w Widget) {
	for i, existing := range c.widgets {
		if existing == w {
			c.widgets = append(c.widgets[:i], c.widgets[i+1:]...)
			return
		}
	}
}

// Update renders every widget in insertion order, each relative to the canvas
// origin and clipped to the canvas region. The destination is not cleared.
func (c *Canvas) Update(out Output) {
	if out == nil || c.w == 0 || c.h == 0 {
		return
	}
	sub := &regionOutput{parent: out, x: c.x, y: c.y, w: c.w, h: c.h}
	for _, w := range c.widgets {
		w.Update(sub)
	}
}

// regionOutput translates and clips drawing into a sub-region of a parent
// output. Display is a no-op; presenting stays with the owner of the parent.
type regionOutput struct {
	parent Output
	x, y   int16
	w, h   int16
}

func (r *regionOutput) Size() (int16, int16) { return r.w, r.h }

func (r *regionOutput) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return
	}
	r.parent.SetPixel(r.x+x, r.y+y, c)
}

func (r *regionOutput) Display() error { return nil }

func (r *regionOutput) FillScreen(c color.RGBA) {
	for y := int16(0); y < r.h; y++ {
		for x := int16(0); x < r.w; x++ {
			r.parent.SetPixel(r.x+x, r.y+y, c)
		}
	}
}
