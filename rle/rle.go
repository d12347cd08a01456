/*
Package rle implements the nibble run-length codec used for packed level
payloads.

The input is a sequence of 4-bit terrain codes with the control bit (the
lowest bit) clear. Runs of fewer than MinRun equal codes are written one
nibble per code. Longer runs are written as the code with the control bit
set, followed by a count nibble holding the run length minus MinRun, so a
single group covers between MinRun and MaxRun codes. Longer runs are split
into several groups.

Nibbles are packed two to a byte, high nibble first. An odd nibble count
leaves a zero low nibble in the final byte. The payload does not record
how many codes it holds so the decoder must be told.
*/
package rle

import (
	"errors"
	"fmt"
)

// Run limits
const (
	ControlBit byte = 0x1
	MinRun          = 3
	MaxRun          = MinRun + 0xf
)

var (
	// ErrRunTooLong is returned if a run group would need a count that
	// doesn't fit in a nibble
	ErrRunTooLong = errors.New("rle: run too long")
	// ErrLengthMismatch is returned when a payload decodes to more or
	// fewer codes than expected
	ErrLengthMismatch = errors.New("rle: payload length mismatch")
	// ErrInvalidCode is returned when an input code is not a bare
	// terrain nibble
	ErrInvalidCode = errors.New("rle: invalid code")
)

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

func runLength(codes []byte, i int) int {
	j := i + 1
	for j < len(codes) && codes[j] == codes[i] {
		j++
	}
	return j - i
}

func appendGroup(nibbles []byte, code byte, n int) ([]byte, error) {
	if n-MinRun > 0xf {
		return nil, fmt.Errorf("%w: %d codes", ErrRunTooLong, n)
	}
	return append(nibbles, code|ControlBit, byte(n-MinRun)), nil
}

// Nibbles returns the unpacked nibble stream for codes.
func Nibbles(codes []byte) ([]byte, error) {
	nibbles := make([]byte, 0, len(codes))
	for i := 0; i < len(codes); {
		code := codes[i]
		if code > 0xf || code&ControlBit != 0 {
			return nil, fmt.Errorf("%w: %#x at %d", ErrInvalidCode, code, i)
		}

		n := runLength(codes, i)
		i += n

		for n >= MinRun {
			group := n
			if group > MaxRun {
				group = MaxRun
			}
			var err error
			if nibbles, err = appendGroup(nibbles, code, group); err != nil {
				return nil, err
			}
			n -= group
		}

		// Whatever is left is too short to be worth a group
		for ; n > 0; n-- {
			nibbles = append(nibbles, code)
		}
	}
	return nibbles, nil
}

// Pack packs nibbles two to a byte, high nibble first.
func Pack(nibbles []byte) []byte {
	b := make([]byte, (len(nibbles)+1)>>1)
	for i, n := range nibbles {
		if i&1 == 0 {
			b[i>>1] = n & 0x0f << 4
		} else {
			b[i>>1] |= n & 0x0f
		}
	}
	return b
}

// Unpack splits each byte of b into two nibbles, high nibble first.
func Unpack(b []byte) []byte {
	nibbles := make([]byte, 0, len(b)<<1)
	for _, x := range b {
		nibbles = append(nibbles, upperNibble(x), lowerNibble(x))
	}
	return nibbles
}

// Encode run-length encodes codes and returns the packed payload.
func Encode(codes []byte) ([]byte, error) {
	nibbles, err := Nibbles(codes)
	if err != nil {
		return nil, err
	}
	return Pack(nibbles), nil
}

// Decode decodes the packed payload b which must hold exactly n codes.
func Decode(b []byte, n int) ([]byte, error) {
	nibbles := Unpack(b)
	codes := make([]byte, 0, n)

	i := 0
	for len(codes) < n {
		if i >= len(nibbles) {
			return nil, fmt.Errorf("%w: got %d of %d codes", ErrLengthMismatch, len(codes), n)
		}

		nibble := nibbles[i]
		i++

		code := nibble &^ ControlBit
		if nibble&ControlBit == 0 {
			codes = append(codes, code)
			continue
		}

		if i >= len(nibbles) {
			return nil, fmt.Errorf("%w: missing run count at nibble %d", ErrLengthMismatch, i)
		}
		run := int(nibbles[i]) + MinRun
		i++

		if len(codes)+run > n {
			return nil, fmt.Errorf("%w: run of %d overflows %d codes", ErrLengthMismatch, run, n)
		}
		for ; run > 0; run-- {
			codes = append(codes, code)
		}
	}

	// Only the pad nibble of the final byte may be left over
	if len(nibbles)-i > 1 {
		return nil, fmt.Errorf("%w: %d trailing nibbles", ErrLengthMismatch, len(nibbles)-i)
	}

	return codes, nil
}
