// mkicon converts PNG images into the 24bpp BMP icons the matrix firmware
// loads, and previews existing icons as ASCII art.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"glow/glowos/fsys"
	"glow/glowos/gfx"
)

type cli struct {
	Convert convertCmd `cmd:"" help:"Convert a PNG image to a matrix BMP icon."`
	Preview previewCmd `cmd:"" help:"Print a BMP icon as ASCII art."`
}

type convertCmd struct {
	In     string `arg:"" type:"existingfile" help:"Input PNG file."`
	Out    string `arg:"" help:"Output BMP file."`
	Width  int16  `default:"8" help:"Icon width in pixels."`
	Height int16  `default:"8" help:"Icon height in pixels."`
}

func (c *convertCmd) Run() error {
	f, err := os.Open(c.In)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.In, err)
	}

	pix := resample(img, c.Width, c.Height)
	data, err := gfx.EncodeBMP(pix, c.Width, c.Height)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Out, err)
	}
	if err := os.WriteFile(c.Out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d, %d bytes\n", c.Out, c.Width, c.Height, len(data))
	return nil
}

// resample maps the source onto w x h with nearest-neighbor sampling.
func resample(img image.Image, w, h int16) []color.RGBA {
	b := img.Bounds()
	pix := make([]color.RGBA, int(w)*int(h))
	for y := int16(0); y < h; y++ {
		sy := b.Min.Y + int(y)*b.Dy()/int(h)
		for x := int16(0); x < w; x++ {
			sx := b.Min.X + int(x)*b.Dx()/int(w)
			r, g, bb, _ := img.At(sx, sy).RGBA()
			pix[int(y)*int(w)+int(x)] = color.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bb >> 8),
				A: 0xFF,
			}
		}
	}
	return pix
}

type previewCmd struct {
	In string `arg:"" type:"existingfile" help:"BMP icon to preview."`
}

func (c *previewCmd) Run() error {
	dir, name := filepath.Split(c.In)
	if dir == "" {
		dir = "."
	}
	fs, err := fsys.NewHostFS(dir)
	if err != nil {
		return err
	}

	w := gfx.NewBitmapWidget()
	if err := w.Load(fs, "/"+name); err != nil {
		return err
	}

	grid := newGridOutput(w.Width(), w.Height())
	w.Update(grid)
	fmt.Print(grid.String())
	return nil
}

// gridOutput collects pixels for the ASCII preview.
type gridOutput struct {
	w, h int16
	pix  []color.RGBA
}

func newGridOutput(w, h int16) *gridOutput {
	return &gridOutput{w: w, h: h, pix: make([]color.RGBA, int(w)*int(h))}
}

func (g *gridOutput) Size() (int16, int16) { return g.w, g.h }

func (g *gridOutput) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.pix[int(y)*int(g.w)+int(x)] = c
}

func (g *gridOutput) Display() error { return nil }

func (g *gridOutput) FillScreen(c color.RGBA) {
	for i := range g.pix {
		g.pix[i] = c
	}
}

func (g *gridOutput) String() string {
	out := make([]byte, 0, int(g.h)*(int(g.w)+1))
	for y := int16(0); y < g.h; y++ {
		for x := int16(0); x < g.w; x++ {
			c := g.pix[int(y)*int(g.w)+int(x)]
			if int(c.R)+int(c.G)+int(c.B) > 96 {
				out = append(out, '#')
			} else {
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("mkicon"),
		kong.Description("Matrix icon tool."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
