package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"

	"glow/glowos/fsys"
)

// ErrBadBitmap is returned when an icon resource cannot be parsed.
var ErrBadBitmap = errors.New("unsupported bitmap format")

// BitmapWidget shows a small pixel image.
//
// The widget exclusively owns its buffer; its length always equals
// width*height. A widget without a buffer draws nothing.
type BitmapWidget struct {
	buf  []color.RGBA
	w, h int16
}

// NewBitmapWidget returns an empty bitmap widget.
func NewBitmapWidget() *BitmapWidget {
	return &BitmapWidget{}
}

// Width returns the bitmap width in pixels.
func (b *BitmapWidget) Width() int16 { return b.w }

// Height returns the bitmap height in pixels.
func (b *BitmapWidget) Height() int16 { return b.h }

// Set replaces the owned buffer with a deep copy of pix.
//
// A nil buffer or a length not matching w*h collapses the widget to its
// empty state instead of holding an inconsistent buffer.
func (b *BitmapWidget) Set(pix []color.RGBA, w, h int16) {
	if pix == nil || w < 0 || h < 0 || len(pix) != int(w)*int(h) {
		b.buf = nil
		b.w = 0
		b.h = 0
		return
	}
	b.buf = append([]color.RGBA(nil), pix...)
	b.w = w
	b.h = h
}

// Clone returns an independent deep copy of the widget.
func (b *BitmapWidget) Clone() *BitmapWidget {
	c := &BitmapWidget{w: b.w, h: b.h}
	if b.buf != nil {
		c.buf = append([]color.RGBA(nil), b.buf...)
	}
	return c
}

// Load reads a 24bpp BMP icon from the filesystem and replaces the buffer.
// On any failure the widget keeps its prior state.
func (b *BitmapWidget) Load(fs fsys.FileSystem, path string) error {
	if fs == nil {
		return fsys.ErrNotMounted
	}
	data, err := fsys.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	pix, w, h, err := decodeBMP(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	b.buf = pix
	b.w = w
	b.h = h
	return nil
}

// Update draws the bitmap at the output origin.
func (b *BitmapWidget) Update(out Output) {
	if b.buf == nil {
		return
	}
	for y := int16(0); y < b.h; y++ {
		row := int(y) * int(b.w)
		for x := int16(0); x < b.w; x++ {
			out.SetPixel(x, y, b.buf[row+int(x)])
		}
	}
}

const (
	bmpHeaderSize    = 54
	bmpMaxDimension  = 256
	bmpBitsPerPixel  = 24
	bmpNoCompression = 0
)

// EncodeBMP renders pix as an uncompressed 24bpp bottom-up BMP, the icon
// format Load consumes.
func EncodeBMP(pix []color.RGBA, w, h int16) ([]byte, error) {
	if w <= 0 || h <= 0 || w > bmpMaxDimension || h > bmpMaxDimension {
		return nil, ErrBadBitmap
	}
	if len(pix) != int(w)*int(h) {
		return nil, ErrBadBitmap
	}

	iw := int(w)
	ih := int(h)
	rowBytes := (iw*3 + 3) &^ 3
	data := make([]byte, bmpHeaderSize+rowBytes*ih)

	data[0] = 'B'
	data[1] = 'M'
	binary.LittleEndian.PutUint32(data[2:], uint32(len(data)))
	binary.LittleEndian.PutUint32(data[10:], bmpHeaderSize)
	binary.LittleEndian.PutUint32(data[14:], 40)
	binary.LittleEndian.PutUint32(data[18:], uint32(iw))
	binary.LittleEndian.PutUint32(data[22:], uint32(ih))
	binary.LittleEndian.PutUint16(data[26:], 1)
	binary.LittleEndian.PutUint16(data[28:], bmpBitsPerPixel)

	for y := 0; y < ih; y++ {
		src := pix[(ih-1-y)*iw:]
		off := bmpHeaderSize + y*rowBytes
		for x := 0; x < iw; x++ {
			data[off+x*3] = src[x].B
			data[off+x*3+1] = src[x].G
			data[off+x*3+2] = src[x].R
		}
	}
	return data, nil
}

// decodeBMP parses an uncompressed 24bpp bottom-up BMP.
func decodeBMP(data []byte) ([]color.RGBA, int16, int16, error) {
	if len(data) < bmpHeaderSize || data[0] != 'B' || data[1] != 'M' {
		return nil, 0, 0, ErrBadBitmap
	}

	pixOff := binary.LittleEndian.Uint32(data[10:])
	width := int32(binary.LittleEndian.Uint32(data[18:]))
	height := int32(binary.LittleEndian.Uint32(data[22:]))
	bpp := binary.LittleEndian.Uint16(data[28:])
	compression := binary.LittleEndian.Uint32(data[30:])

	if bpp != bmpBitsPerPixel || compression != bmpNoCompression {
		return nil, 0, 0, ErrBadBitmap
	}
	if width <= 0 || height <= 0 || width > bmpMaxDimension || height > bmpMaxDimension {
		return nil, 0, 0, ErrBadBitmap
	}

	w := int(width)
	h := int(height)
	rowBytes := (w*3 + 3) &^ 3
	need := int(pixOff) + rowBytes*h
	if need > len(data) {
		return nil, 0, 0, ErrBadBitmap
	}

	pix := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		// BMP rows are stored bottom-up.
		src := int(pixOff) + (h-1-y)*rowBytes
		for x := 0; x < w; x++ {
			off := src + x*3
			pix[y*w+x] = color.RGBA{
				B: data[off],
				G: data[off+1],
				R: data[off+2],
				A: 0xFF,
			}
		}
	}
	return pix, int16(w), int16(h), nil
}
