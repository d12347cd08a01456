package sprite

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()

	if _, err := e.w.Write([]byte{byte(b.Dx()), byte(b.Dy())}); err != nil {
		return err
	}

	pixels := make([]byte, pixelBytes(b.Dx(), b.Dy()))
	i := 0
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if i&1 == 0 {
				pixels[i>>1] = m.ColorIndexAt(x, y) & 0x0f << 4
			} else {
				pixels[i>>1] |= m.ColorIndexAt(x, y) & 0x0f
			}
			i++
		}
	}

	if _, err := e.w.Write(pixels); err != nil {
		return err
	}

	var tmp [paletteBytes]byte
	for i, c := range m.Palette {
		r, g, b, _ := c.RGBA()
		binary.LittleEndian.PutUint16(tmp[i<<1:], uint16(r>>11<<10|g>>11<<5|b>>11))
	}

	_, err := e.w.Write(tmp[:])

	return err
}

// Encode writes the Image m to w in sprite format. Images with more than
// 16 colors are quantized first.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() < 1 || b.Dx() > maxDimension || b.Dy() < 1 || b.Dy() > maxDimension {
		return errBadSize
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}
	if pm == nil || len(pm.Palette) > colorsPerPalette {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorsPerPalette), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: w}

	return e.encode(pm)
}
