package gfx

import (
	"image/color"
	"testing"
)

// markerWidget paints a single color at the widget origin.
type markerWidget struct {
	c color.RGBA
}

func (m *markerWidget) Update(out Output) {
	out.SetPixel(0, 0, m.c)
}

func TestCanvasTranslatesToOrigin(t *testing.T) {
	out := newFakeOutput(32, 8)
	c := NewCanvas(8, 8, 10, 2)
	c.AddWidget(&markerWidget{c: Red})

	c.Update(out)

	if got := out.pixels[[2]int16{10, 2}]; got != Red {
		t.Fatalf("pixel (10,2) = %v, want %v", got, Red)
	}
}

func TestCanvasDrawsInInsertionOrder(t *testing.T) {
	out := newFakeOutput(8, 8)
	c := NewCanvas(8, 8, 0, 0)
	first := &markerWidget{c: Red}
	second := &markerWidget{c: Green}
	c.AddWidget(first)
	c.AddWidget(second)

	c.Update(out)

	// Both widgets paint (0,0); the later one must win.
	if got := out.pixels[[2]int16{0, 0}]; got != Green {
		t.Fatalf("pixel (0,0) = %v, want %v (insertion order violated)", got, Green)
	}
}

func TestCanvasClipsToRegion(t *testing.T) {
	out := newFakeOutput(32, 8)
	c := NewCanvas(4, 4, 0, 0)

	sub := &regionOutput{parent: out, x: 0, y: 0, w: c.w, h: c.h}
	sub.SetPixel(5, 5, Red) // outside the 4x4 region

	if len(out.sets) != 0 {
		t.Fatalf("out-of-region pixel was drawn: %v", out.sets)
	}
}

func TestCanvasAddRemoveIdempotent(t *testing.T) {
	c := NewCanvas(8, 8, 0, 0)
	w := &markerWidget{c: Red}

	c.AddWidget(w)
	c.AddWidget(w)
	if len(c.widgets) != 1 {
		t.Fatalf("widget list length = %d after double add, want 1", len(c.widgets))
	}

	c.RemoveWidget(w)
	c.RemoveWidget(w) // absent, must be a no-op
	if len(c.widgets) != 0 {
		t.Fatalf("widget list length = %d after remove, want 0", len(c.widgets))
	}
}

func TestCanvasDoesNotClear(t *testing.T) {
	out := newFakeOutput(8, 8)
	c := NewCanvas(8, 8, 0, 0)
	c.Update(out)

	if out.fills != 0 {
		t.Fatalf("canvas cleared the destination %d times", out.fills)
	}
}
