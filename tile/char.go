package tile

import "fmt"

// Grid characters, as used by the common Sokoban text level format.
const (
	CharFloor        = ' '
	CharWall         = '#'
	CharGoal         = '.'
	CharBox          = '$'
	CharBoxOnGoal    = '*'
	CharPlayer       = '@'
	CharPlayerOnGoal = '+'
)

var chars = [...]rune{
	Floor:     CharFloor,
	Wall:      CharWall,
	Goal:      CharGoal,
	Box:       CharBox,
	BoxOnGoal: CharBoxOnGoal,
}

// FromChar returns the tile for the grid character r and whether the
// player starts on it.
func FromChar(r rune) (Tile, bool, error) {
	switch r {
	case CharPlayer:
		return Floor, true, nil
	case CharPlayerOnGoal:
		return Goal, true, nil
	}
	for t, c := range chars {
		if c == r {
			return Tile(t), false, nil
		}
	}
	return Floor, false, fmt.Errorf("%w: %q", ErrInvalidChar, r)
}

// Char returns the grid character for t, with the player marker if the
// player stands on it.
func (t Tile) Char(player bool) rune {
	if player {
		switch t {
		case Floor:
			return CharPlayer
		case Goal:
			return CharPlayerOnGoal
		}
	}
	return chars[t]
}
