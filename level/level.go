/*
Package level implements the Sokoban level value type.

A level is an immutable grid of tiles stored in row-major order together
with the player start position. The player is never stored in the grid
itself; the start cell holds the terrain beneath the player, which must
be either floor or a goal.
*/
package level

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bodgit/sokopack/tile"
)

// MaxDimension is the largest width or height a level may have
const MaxDimension = 0xff

var (
	// ErrDimensionOverflow is returned for a width or height outside
	// 1..MaxDimension
	ErrDimensionOverflow = errors.New("level: dimension overflow")
	// ErrMissingPlayer is returned when a grid has no player start
	ErrMissingPlayer = errors.New("level: missing player start")
	// ErrDuplicatePlayer is returned when a grid has more than one
	// player start
	ErrDuplicatePlayer = errors.New("level: duplicate player start")
	// ErrInvalidPlayer is returned when the player start is out of bounds
	// or not on floor or a goal
	ErrInvalidPlayer = errors.New("level: invalid player start")
	// ErrCellCount is returned when the number of cells does not match
	// the dimensions
	ErrCellCount = errors.New("level: cell count mismatch")
)

// PositionError records the grid position that caused an error.
type PositionError struct {
	X, Y int
	Err  error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%v at (%d, %d)", e.Err, e.X, e.Y)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// Level is a single puzzle grid.
type Level struct {
	width, height    int
	playerX, playerY int
	cells            []tile.Tile
}

// New returns a level of the given dimensions with the player starting at
// (px, py). cells is copied.
func New(width, height, px, py int, cells []tile.Tile) (*Level, error) {
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensionOverflow, width, height)
	}

	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrCellCount, len(cells), width, height)
	}

	for i, t := range cells {
		if !t.Valid() {
			return nil, &PositionError{i % width, i / width, fmt.Errorf("%w: %v", tile.ErrInvalidCode, t)}
		}
	}

	if px < 0 || px >= width || py < 0 || py >= height {
		return nil, &PositionError{px, py, ErrInvalidPlayer}
	}

	if t := cells[py*width+px]; !t.Walkable() {
		return nil, &PositionError{px, py, fmt.Errorf("%w: player on %v", ErrInvalidPlayer, t)}
	}

	l := &Level{
		width:   width,
		height:  height,
		playerX: px,
		playerY: py,
		cells:   make([]tile.Tile, len(cells)),
	}
	copy(l.cells, cells)

	return l, nil
}

// Width returns the width of the level
func (l *Level) Width() int { return l.width }

// Height returns the height of the level
func (l *Level) Height() int { return l.height }

// Size returns the number of cells in the level
func (l *Level) Size() int { return len(l.cells) }

// Player returns the player start position
func (l *Level) Player() (int, int) { return l.playerX, l.playerY }

// At returns the tile at (x, y).
func (l *Level) At(x, y int) tile.Tile {
	return l.cells[y*l.width+x]
}

// Cells returns a copy of the cells in row-major order.
func (l *Level) Cells() []tile.Tile {
	cells := make([]tile.Tile, len(l.cells))
	copy(cells, l.cells)
	return cells
}

// Codes returns the 4-bit tile code of each cell in row-major order.
func (l *Level) Codes() []byte {
	codes := make([]byte, len(l.cells))
	for i, t := range l.cells {
		codes[i] = t.Code()
	}
	return codes
}

// Equal reports whether l and o have the same dimensions, player start
// and cells.
func (l *Level) Equal(o *Level) bool {
	if l.width != o.width || l.height != o.height || l.playerX != o.playerX || l.playerY != o.playerY {
		return false
	}
	for i := range l.cells {
		if l.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the level in the text grid format with the player
// marker at the start position.
func (l *Level) String() string {
	var sb strings.Builder
	sb.Grow((l.width + 1) * l.height)
	for y := 0; y < l.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < l.width; x++ {
			sb.WriteRune(l.At(x, y).Char(x == l.playerX && y == l.playerY))
		}
	}
	return sb.String()
}
