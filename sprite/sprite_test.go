package sprite

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0xff, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
}

func testImage(width, height int) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetColorIndex(x, y, uint8((x+y)%len(palette)))
		}
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	tables := []struct {
		name          string
		width, height int
	}{
		{"tile", 16, 16},
		{"odd", 3, 3},
		{"wide", 255, 1},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := testImage(table.width, table.height)

			b := new(bytes.Buffer)
			require.NoError(t, Encode(b, m))
			assert.Equal(t, headerBytes+pixelBytes(table.width, table.height)+paletteBytes, b.Len())
			assert.Equal(t, []byte{byte(table.width), byte(table.height)}, b.Bytes()[:2])

			config, err := DecodeConfig(bytes.NewReader(b.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, table.width, config.Width)
			assert.Equal(t, table.height, config.Height)

			d, err := Decode(bytes.NewReader(b.Bytes()))
			require.NoError(t, err)
			pm, ok := d.(*image.Paletted)
			require.True(t, ok)
			assert.Equal(t, m.Pix, pm.Pix)
			for i, c := range palette {
				assert.Equal(t, c, pm.Palette[i])
			}
		})
	}
}

func TestPixelPacking(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 3, 1), palette)
	m.SetColorIndex(0, 0, 1)
	m.SetColorIndex(1, 0, 2)
	m.SetColorIndex(2, 0, 3)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, []byte{3, 1, 0x12, 0x30}, b.Bytes()[:4])

	// White packs as 0x7fff
	assert.Equal(t, []byte{0xff, 0x7f}, b.Bytes()[6:8])
}

func TestOffsetImage(t *testing.T) {
	m := testImage(8, 8).SubImage(image.Rect(2, 2, 6, 6)).(*image.Paletted)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))

	d, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), d.Bounds())
	assert.Equal(t, m.ColorIndexAt(2, 2), d.(*image.Paletted).ColorIndexAt(0, 0))
}

func TestQuantize(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m.Set(x, y, color.RGBA{uint8(x << 3), uint8(y << 3), 0x80, 0xff})
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))

	d, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, m.Bounds(), d.Bounds())
	assert.Len(t, d.(*image.Paletted).Palette, colorsPerPalette)
}

func TestEncodeBadSize(t *testing.T) {
	assert.Equal(t, errBadSize, Encode(new(bytes.Buffer), testImage(256, 1)))
}

func TestDecodeErrors(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, testImage(3, 3)))
	data := b.Bytes()

	_, err := Decode(bytes.NewReader(data[:len(data)-1]))
	assert.Equal(t, errNotEnough, err)

	_, err = Decode(bytes.NewReader(append(append([]byte(nil), data...), 0)))
	assert.Equal(t, errTooMuch, err)

	bad := append([]byte(nil), data...)
	bad[0] = 0
	_, err = Decode(bytes.NewReader(bad))
	assert.Equal(t, errBadSize, err)

	bad = append([]byte(nil), data...)
	bad[headerBytes+pixelBytes(3, 3)-1] |= 0x01
	_, err = Decode(bytes.NewReader(bad))
	assert.Equal(t, errBadPadding, err)
}
