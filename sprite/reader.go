package sprite

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough  = errors.New("sprite: not enough image data")
	errTooMuch    = errors.New("sprite: too much image data")
	errBadSize    = errors.New("sprite: invalid dimensions")
	errBadPadding = errors.New("sprite: non-zero padding")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// expand scales a 5-bit color channel to 8 bits
func expand(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

type decoder struct {
	r io.Reader

	width, height int

	image   *image.Paletted
	palette color.Palette
	pixels  []byte
}

func (d *decoder) readHeader() error {
	var tmp [headerBytes]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}
	d.width, d.height = int(tmp[0]), int(tmp[1])
	if d.width == 0 || d.height == 0 {
		return errBadSize
	}
	return nil
}

func (d *decoder) readPixels() error {
	d.pixels = make([]byte, pixelBytes(d.width, d.height))
	if err := readFull(d.r, d.pixels); err != nil {
		return err
	}
	if d.width*d.height&1 != 0 && lowerNibble(d.pixels[len(d.pixels)-1]) != 0 {
		return errBadPadding
	}
	return nil
}

func (d *decoder) readPalette() error {
	var tmp [paletteBytes]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}
	d.palette = make(color.Palette, colorsPerPalette)
	for i := range d.palette {
		// Color is packed as 0RRRRRGGGGGBBBBB
		c := binary.LittleEndian.Uint16(tmp[i<<1:])
		d.palette[i] = color.RGBA{
			expand(c >> 10),
			expand(c >> 5),
			expand(c),
			0xff,
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPixels(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	var tmp [1]byte
	if n, err := r.Read(tmp[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	if configOnly {
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.palette)

	for i := 0; i < d.width*d.height; i++ {
		p := d.pixels[i>>1]
		if i&1 == 0 {
			p = upperNibble(p)
		} else {
			p = lowerNibble(p)
		}
		d.image.SetColorIndex(i%d.width, i/d.width, p)
	}

	return nil
}

// Decode reads a sprite from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a sprite without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
