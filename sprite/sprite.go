/*
Package sprite implements a 4bpp sprite decoder and encoder for the tile
graphics drawn alongside packed levels.

A sprite is written as a one byte width and one byte height, followed by a
4-bit palette index for each pixel in row-major order, two pixels to a
byte with the leftmost pixel in the high nibble. If the number of pixels
is odd the final low nibble is zero. Finally a 16 color palette is written
with each color stored as a little-endian 16-bit value packed as
0RRRRRGGGGGBBBBB.
*/
package sprite

const (
	colorsPerPalette = 16
	maxDimension     = 0xff
	headerBytes      = 2
	paletteBytes     = colorsPerPalette << 1
)

func pixelBytes(width, height int) int {
	return (width*height + 1) >> 1
}
