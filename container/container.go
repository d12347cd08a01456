/*
Package container implements the packed level container format.

Each level is written as a fixed six byte header followed by its
run-length encoded payload:

	width (1B) | height (1B) | payload length (2B, big-endian) | player x (1B) | player y (1B)

The records of all levels are concatenated into a single blob and a
parallel table of 16-bit offsets records where each record starts. As the
offsets are 16 bits the blob can be no larger than MaxBlobSize bytes.
*/
package container

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/sokopack/level"
	"github.com/bodgit/sokopack/rle"
	"github.com/bodgit/sokopack/tile"
)

const (
	// HeaderSize is the size in bytes of each level header
	HeaderSize = 6
	// MaxBlobSize is the largest blob addressable by the offset table
	MaxBlobSize = 0xffff
	// MaxPayloadSize is the largest payload the header can describe
	MaxPayloadSize = 0xffff
)

var (
	// ErrDimensionOverflow is returned when a value doesn't fit its
	// header field
	ErrDimensionOverflow = errors.New("container: dimension overflow")
	// ErrIndexOutOfRange is returned when requesting a level that
	// doesn't exist
	ErrIndexOutOfRange = errors.New("container: level index out of range")
	// ErrCapacityExceeded is returned when the blob would no longer be
	// addressable by the offset table
	ErrCapacityExceeded = errors.New("container: blob capacity exceeded")
	// ErrTruncated is returned when a header or payload runs past the
	// end of the data
	ErrTruncated = errors.New("container: truncated level")
	// ErrBadTable is returned for an offset table inconsistent with its
	// blob
	ErrBadTable = errors.New("container: invalid offset table")
)

// LevelError records the index of the level that caused an error.
type LevelError struct {
	Index int
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("level %d: %v", e.Index, e.Err)
}

func (e *LevelError) Unwrap() error {
	return e.Err
}

// Header is the fixed size header that precedes each level payload. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type Header struct {
	Width      uint8
	Height     uint8
	PayloadLen uint16
	PlayerX    uint8
	PlayerY    uint8
}

// Cells returns the number of cells described by the header
func (h Header) Cells() int {
	return int(h.Width) * int(h.Height)
}

// MarshalBinary encodes the header into binary form and returns the result
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	b[0] = h.Width
	b[1] = h.Height
	binary.BigEndian.PutUint16(b[2:4], h.PayloadLen)
	b[4] = h.PlayerX
	b[5] = h.PlayerY
	return b, nil
}

// UnmarshalBinary decodes the header from binary form
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: %d byte header", ErrTruncated, len(b))
	}
	h.Width = b[0]
	h.Height = b[1]
	h.PayloadLen = binary.BigEndian.Uint16(b[2:4])
	h.PlayerX = b[4]
	h.PlayerY = b[5]
	return nil
}

// Encode encodes l into a single record of header and payload.
func Encode(l *level.Level) ([]byte, error) {
	px, py := l.Player()
	if l.Width() > 0xff || l.Height() > 0xff || px > 0xff || py > 0xff {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensionOverflow, l.Width(), l.Height())
	}

	payload, err := rle.Encode(l.Codes())
	if err != nil {
		return nil, err
	}

	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d byte payload", ErrDimensionOverflow, len(payload))
	}

	h := Header{
		Width:      uint8(l.Width()),
		Height:     uint8(l.Height()),
		PayloadLen: uint16(len(payload)),
		PlayerX:    uint8(px),
		PlayerY:    uint8(py),
	}

	b, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return append(b, payload...), nil
}

// Decode decodes the record at the start of b, returning the level and
// the number of bytes consumed.
func Decode(b []byte) (*level.Level, int, error) {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, 0, err
	}

	end := HeaderSize + int(h.PayloadLen)
	if end > len(b) {
		return nil, 0, fmt.Errorf("%w: payload needs %d bytes, have %d", ErrTruncated, h.PayloadLen, len(b)-HeaderSize)
	}

	codes, err := rle.Decode(b[HeaderSize:end], h.Cells())
	if err != nil {
		return nil, 0, err
	}

	cells := make([]tile.Tile, len(codes))
	for i, c := range codes {
		t, err := tile.FromCode(c)
		if err != nil {
			return nil, 0, &level.PositionError{X: i % int(h.Width), Y: i / int(h.Width), Err: err}
		}
		cells[i] = t
	}

	l, err := level.New(int(h.Width), int(h.Height), int(h.PlayerX), int(h.PlayerY), cells)
	if err != nil {
		return nil, 0, err
	}

	return l, end, nil
}
