package gfx

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// DefaultScrollPause is the pause between character scroll steps.
const DefaultScrollPause uint32 = 500 // ms

// DefaultFont is the 3x5 font that fits an 8 pixel high matrix.
var DefaultFont tinyfont.Fonter = &tinyfont.TomThumb

// DefaultTextColor is the color used when none is set.
var DefaultTextColor = White

// TextWidget shows a colored string, scrolling it character by character
// when it does not fit the allotted width.
//
// The font is referenced, not owned. Scroll progress is measured against a
// Clock so that a slow frame rate or a fast one advance identically.
type TextWidget struct {
	text  string
	color color.RGBA
	font  tinyfont.Fonter
	clock Clock

	pause       uint32
	recompute   bool
	scrolling   bool
	scrollIndex int
	lastStamp   uint32
}

// NewTextWidget returns a text widget using the given font and clock.
func NewTextWidget(font tinyfont.Fonter, clock Clock) *TextWidget {
	return &TextWidget{
		color: DefaultTextColor,
		font:  font,
		clock: clock,
		pause: DefaultScrollPause,
	}
}

// SetText replaces the string and schedules a scrolling re-evaluation.
func (t *TextWidget) SetText(s string) {
	t.text = s
	t.recompute = true
}

// Text returns the current string.
func (t *TextWidget) Text() string { return t.text }

// SetColor sets the text color.
func (t *TextWidget) SetColor(c color.RGBA) { t.color = c }

// SetFont replaces the font and schedules a scrolling re-evaluation.
func (t *TextWidget) SetFont(f tinyfont.Fonter) {
	t.font = f
	t.recompute = true
}

// SetScrollPause overrides the pause between scroll steps in milliseconds.
func (t *TextWidget) SetScrollPause(ms uint32) {
	if ms > 0 {
		t.pause = ms
	}
}

// ScrollIndex returns the current scroll offset in characters.
func (t *TextWidget) ScrollIndex() int { return t.scrollIndex }

// Update draws the text. When the measured text exceeds the output width the
// scroll offset advances one character per elapsed pause interval and wraps
// to zero after the last position; fitting text is drawn statically.
func (t *TextWidget) Update(out Output) {
	if t.font == nil || t.text == "" {
		return
	}

	w, h := out.Size()

	if t.recompute {
		_, box := tinyfont.LineWidth(t.font, t.text)
		t.scrolling = box > uint32(w)
		t.scrollIndex = 0
		if t.clock != nil {
			t.lastStamp = t.clock.Millis()
		}
		t.recompute = false
	}

	runes := []rune(t.text)

	if t.scrolling && t.clock != nil {
		now := t.clock.Millis()
		if now-t.lastStamp >= t.pause {
			t.scrollIndex++
			if t.scrollIndex >= len(runes) {
				t.scrollIndex = 0
			}
			t.lastStamp = now
		}
	}

	visible := runes
	if t.scrolling && t.scrollIndex < len(runes) {
		visible = runes[t.scrollIndex:]
	}

	baseline := (h + int16(t.font.GetYAdvance())) / 2
	if baseline > h {
		baseline = h
	}
	tinyfont.WriteLine(out, t.font, 0, baseline-1, string(visible), t.color)
}
