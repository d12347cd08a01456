package level

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/bodgit/sokopack/tile"
)

// ErrEmpty is returned when parsing a grid with no rows
var ErrEmpty = errors.New("level: empty grid")

// Parse parses a single text grid. Trailing whitespace on each row is
// ignored, as are blank lines, and rows shorter than the widest row are
// padded with floor.
func Parse(s string) (*Level, error) {
	return Read(strings.NewReader(s))
}

// Read parses a single text grid from r.
func Read(r io.Reader) (*Level, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row := strings.TrimRight(scanner.Text(), " \t\r")
		if row == "" {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	width := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > width {
			width = n
		}
	}
	height := len(rows)

	if width > MaxDimension || height > MaxDimension {
		return nil, &PositionError{width - 1, height - 1, ErrDimensionOverflow}
	}

	cells := make([]tile.Tile, 0, width*height)
	px, py := -1, -1
	for y, row := range rows {
		x := 0
		for _, c := range row {
			t, player, err := tile.FromChar(c)
			if err != nil {
				return nil, &PositionError{x, y, err}
			}
			if player {
				if px >= 0 {
					return nil, &PositionError{x, y, ErrDuplicatePlayer}
				}
				px, py = x, y
			}
			cells = append(cells, t)
			x++
		}
		for ; x < width; x++ {
			cells = append(cells, tile.Floor)
		}
	}

	if px < 0 {
		return nil, ErrMissingPlayer
	}

	return New(width, height, px, py, cells)
}
