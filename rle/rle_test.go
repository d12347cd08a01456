package rle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	floor = 0x0
	wall  = 0x2
	goal  = 0x4
	box   = 0x8
)

func repeat(code byte, n int) []byte {
	return bytes.Repeat([]byte{code}, n)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func TestNibbles(t *testing.T) {
	tables := []struct {
		name    string
		codes   []byte
		nibbles []byte
	}{
		{"empty", nil, []byte{}},
		{"single", []byte{wall}, []byte{wall}},
		{"pair", repeat(wall, 2), []byte{wall, wall}},
		{"three", repeat(wall, 3), []byte{wall | ControlBit, 0x0}},
		{"eighteen", repeat(floor, 18), []byte{floor | ControlBit, 0xf}},
		{"nineteen", repeat(floor, 19), []byte{floor | ControlBit, 0xf, floor}},
		{"twenty", repeat(floor, 20), []byte{floor | ControlBit, 0xf, floor, floor}},
		{"twentyone", repeat(goal, 21), []byte{goal | ControlBit, 0xf, goal | ControlBit, 0x0}},
		{"forty", repeat(box, 40), []byte{box | ControlBit, 0xf, box | ControlBit, 0xf, box | ControlBit, 0x1}},
		{
			"mixed",
			concat(repeat(wall, 5), []byte{wall, floor, floor, goal, wall}, repeat(wall, 5)),
			[]byte{wall | ControlBit, 0x3, floor, floor, goal, wall | ControlBit, 0x3},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			nibbles, err := Nibbles(table.codes)
			require.NoError(t, err)
			assert.Equal(t, table.nibbles, nibbles)
		})
	}
}

func TestNibblesInvalid(t *testing.T) {
	for _, c := range []byte{0x1, 0x3, 0x10} {
		_, err := Nibbles([]byte{floor, c})
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
}

func TestNoExpansion(t *testing.T) {
	codes := []byte{wall, wall, floor, goal, goal, box, floor, floor, wall, goal}
	nibbles, err := Nibbles(codes)
	require.NoError(t, err)
	assert.Len(t, nibbles, len(codes))
}

func TestRunThreshold(t *testing.T) {
	nibbles, err := Nibbles(repeat(box, 2))
	require.NoError(t, err)
	for _, n := range nibbles {
		assert.Zero(t, n&ControlBit)
	}

	nibbles, err = Nibbles(repeat(box, 3))
	require.NoError(t, err)
	require.Len(t, nibbles, 2)
	assert.Equal(t, ControlBit, nibbles[0]&ControlBit)
}

func TestPack(t *testing.T) {
	assert.Equal(t, []byte{0x23, 0x40}, Pack([]byte{0x2, 0x3, 0x4}))
	assert.Equal(t, []byte{0x23, 0x4f}, Pack([]byte{0x2, 0x3, 0x4, 0xf}))
	assert.Equal(t, []byte{0x2, 0x3, 0x4, 0xf}, Unpack([]byte{0x23, 0x4f}))
}

func TestRoundTrip(t *testing.T) {
	tables := []struct {
		name  string
		codes []byte
	}{
		{"forty", repeat(floor, 40)},
		{"thirtyseven", repeat(wall, 37)},
		{"odd", []byte{wall, floor, goal}},
		{"alternating", concat(repeat(wall, 3), repeat(floor, 2), repeat(goal, 18), repeat(box, 19), []byte{wall})},
		{"long", concat(repeat(wall, 255), repeat(floor, 100), repeat(goal, 1))},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b, err := Encode(table.codes)
			require.NoError(t, err)

			codes, err := Decode(b, len(table.codes))
			require.NoError(t, err)
			assert.Equal(t, table.codes, codes)
		})
	}
}

func TestDecodeMismatch(t *testing.T) {
	b, err := Encode(repeat(wall, 10))
	require.NoError(t, err)

	_, err = Decode(b, 11)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Decode(b, 9)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	// Trailing bytes after the last code
	_, err = Decode(append(b, 0x22), 10)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	// Control nibble with no count
	_, err = Decode([]byte{0x23}, 4)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDecodeIgnoresPad(t *testing.T) {
	codes, err := Decode([]byte{0x20, 0x4f}, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{wall, floor, goal}, codes)
}
