/*
Package tile implements the terrain alphabet used by packed Sokoban levels.

Each tile is stored as a 4-bit code. The top three bits are the semantic
flags; box, goal and wall, with all three clear meaning floor. The lowest
bit is the control bit which is never set in a bare tile code, it is only
used by the run-length encoder to flag that a run count follows.

The player is not a tile. A cell occupied by the player is stored as the
terrain beneath it and the player position is carried separately.
*/
package tile

import (
	"errors"
	"fmt"
)

// Tile is a single grid cell classification.
type Tile int

// Tiles
const (
	Floor Tile = iota
	Wall
	Goal
	Box
	BoxOnGoal
)

// Code bits
const (
	BoxBit     byte = 0x8
	GoalBit    byte = 0x4
	WallBit    byte = 0x2
	ControlBit byte = 0x1
)

var (
	// ErrInvalidCode is returned for a nibble that does not map to a tile
	ErrInvalidCode = errors.New("tile: invalid tile code")
	// ErrInvalidChar is returned for an unrecognised grid character
	ErrInvalidChar = errors.New("tile: invalid grid character")
)

var codes = [...]byte{
	Floor:     0x0,
	Wall:      WallBit,
	Goal:      GoalBit,
	Box:       BoxBit,
	BoxOnGoal: BoxBit | GoalBit,
}

var names = [...]string{
	Floor:     "Floor",
	Wall:      "Wall",
	Goal:      "Goal",
	Box:       "Box",
	BoxOnGoal: "BoxOnGoal",
}

// Valid reports whether t is one of the defined tiles.
func (t Tile) Valid() bool {
	return t >= Floor && t <= BoxOnGoal
}

// Code returns the 4-bit code for t with the control bit clear.
func (t Tile) Code() byte {
	if !t.Valid() {
		panic(fmt.Sprintf("tile: invalid tile %d", int(t)))
	}
	return codes[t]
}

// FromCode returns the tile for the 4-bit code c.
func FromCode(c byte) (Tile, error) {
	for t, code := range codes {
		if code == c {
			return Tile(t), nil
		}
	}
	return Floor, fmt.Errorf("%w: %#04b", ErrInvalidCode, c)
}

// IsBox reports whether a box occupies t.
func (t Tile) IsBox() bool { return t.Code()&BoxBit != 0 }

// IsGoal reports whether t is a goal square.
func (t Tile) IsGoal() bool { return t.Code()&GoalBit != 0 }

// IsWall reports whether t is a wall.
func (t Tile) IsWall() bool { return t.Code()&WallBit != 0 }

// Walkable reports whether the player may stand on t.
func (t Tile) Walkable() bool {
	return t == Floor || t == Goal
}

func (t Tile) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tile(%d)", int(t))
	}
	return names[t]
}
