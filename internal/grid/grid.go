// Package grid provides the 9x9 sudoku board representation.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the board edge length.
	Size = 9
	// BoxSize is the edge length of one 3x3 box.
	BoxSize = 3
)

var ErrInvalidCell = errors.New("cell out of range")

// Coord addresses one cell, rows and columns in [0,8].
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell holds one board position. Value 0 means empty. Fixed cells are the
// puzzle givens and never change during play. Notes only carry meaning while
// the cell is empty and not fixed.
type Cell struct {
	Value int   `json:"value"`
	Fixed bool  `json:"fixed,omitempty"`
	Notes Notes `json:"notes,omitempty"`
}

// Grid is a value type; assignment copies the whole board.
type Grid struct {
	Cells [Size][Size]Cell `json:"cells"`
}

// New returns an empty grid.
func New() Grid {
	return Grid{}
}

// CheckBounds reports ErrInvalidCell for coordinates outside [0,8]x[0,8].
func CheckBounds(row, col int) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return fmt.Errorf("%w: row %d, col %d", ErrInvalidCell, row, col)
	}
	return nil
}

// BoxOf returns the box index (0..8) containing the cell.
func BoxOf(row, col int) int {
	return (row/BoxSize)*BoxSize + col/BoxSize
}

// BoxOrigin returns the top-left cell of box b.
func BoxOrigin(b int) (row, col int) {
	return (b / BoxSize) * BoxSize, (b % BoxSize) * BoxSize
}

// At returns the cell after a bounds check.
func (g *Grid) At(row, col int) (Cell, error) {
	if err := CheckBounds(row, col); err != nil {
		return Cell{}, err
	}
	return g.Cells[row][col], nil
}

// Value returns the digit at the cell, 0 when empty. Callers index directly
// via Cells in hot loops; Value exists for call sites that already validated
// coordinates and want brevity.
func (g *Grid) Value(row, col int) int {
	return g.Cells[row][col].Value
}

// SetValue writes a digit, clearing the cell's notes whenever a non-zero
// value lands. It does not consult the Fixed flag; enforcing immutability of
// givens is the session's job.
func (g *Grid) SetValue(row, col, value int) error {
	if err := CheckBounds(row, col); err != nil {
		return err
	}
	if value < 0 || value > Size {
		return fmt.Errorf("%w: value %d", ErrInvalidCell, value)
	}
	g.Cells[row][col].Value = value
	if value != 0 {
		g.Cells[row][col].Notes = 0
	}
	return nil
}

// Clone returns an independent copy.
func (g Grid) Clone() Grid {
	return g
}

// FilledCount returns the number of non-empty cells.
func (g *Grid) FilledCount() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.Cells[r][c].Value != 0 {
				n++
			}
		}
	}
	return n
}

// FixedCount returns the number of givens.
func (g *Grid) FixedCount() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.Cells[r][c].Fixed {
				n++
			}
		}
	}
	return n
}

// IsFull reports whether every cell holds a digit.
func (g *Grid) IsFull() bool {
	return g.FilledCount() == Size*Size
}

// ValuesEqual compares digits cell by cell, ignoring flags and notes.
func (g *Grid) ValuesEqual(other *Grid) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.Cells[r][c].Value != other.Cells[r][c].Value {
				return false
			}
		}
	}
	return true
}

// ValueRows returns the digits as a fresh 9x9 slice-of-slices, the shape the
// archive and save formats use.
func (g *Grid) ValueRows() [][]int {
	rows := make([][]int, Size)
	for r := 0; r < Size; r++ {
		rows[r] = make([]int, Size)
		for c := 0; c < Size; c++ {
			rows[r][c] = g.Cells[r][c].Value
		}
	}
	return rows
}

// FromValueRows builds a grid from a 9x9 slice of digits. No cell is marked
// fixed; callers decide which values are givens.
func FromValueRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("%w: %d rows", ErrInvalidCell, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, fmt.Errorf("%w: row %d has %d cells", ErrInvalidCell, r, len(row))
		}
		for c, v := range row {
			if v < 0 || v > Size {
				return g, fmt.Errorf("%w: value %d at row %d, col %d", ErrInvalidCell, v, r, c)
			}
			g.Cells[r][c].Value = v
		}
	}
	return g, nil
}

// String renders digits row by row with dots for empty cells.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if v := g.Cells[r][c].Value; v == 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte(byte('0' + v))
			}
		}
		if r < Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
