// Package rules implements sudoku constraint checking: per-cell conflict
// lookup, legality tests, and whole-grid validation.
package rules

import (
	"sudoku_game_go/internal/grid"
)

// Conflicts returns the coordinates of every peer (same row, column, or box)
// currently holding value. The cell itself is never included. A nil result
// means placing value at (row, col) breaks no constraint. Coordinates or
// values outside their ranges yield nil; bounds enforcement belongs to the
// caller.
func Conflicts(g *grid.Grid, row, col, value int) []grid.Coord {
	if grid.CheckBounds(row, col) != nil || value < 1 || value > grid.Size {
		return nil
	}

	var out []grid.Coord
	seen := func(r, c int) {
		if r == row && c == col {
			return
		}
		if g.Cells[r][c].Value == value {
			out = append(out, grid.Coord{Row: r, Col: c})
		}
	}

	for c := 0; c < grid.Size; c++ {
		seen(row, c)
	}
	for r := 0; r < grid.Size; r++ {
		seen(r, col)
	}
	br, bc := grid.BoxOrigin(grid.BoxOf(row, col))
	for r := br; r < br+grid.BoxSize; r++ {
		for c := bc; c < bc+grid.BoxSize; c++ {
			if r != row && c != col {
				seen(r, c)
			}
		}
	}
	return out
}

// IsLegal reports whether value can sit at (row, col) without clashing with
// any peer.
func IsLegal(g *grid.Grid, row, col, value int) bool {
	if value < 1 || value > grid.Size {
		return false
	}
	for c := 0; c < grid.Size; c++ {
		if c != col && g.Cells[row][c].Value == value {
			return false
		}
	}
	for r := 0; r < grid.Size; r++ {
		if r != row && g.Cells[r][col].Value == value {
			return false
		}
	}
	br, bc := grid.BoxOrigin(grid.BoxOf(row, col))
	for r := br; r < br+grid.BoxSize; r++ {
		for c := bc; c < bc+grid.BoxSize; c++ {
			if (r != row || c != col) && g.Cells[r][c].Value == value {
				return false
			}
		}
	}
	return true
}

// CandidateMask returns the digits legal at an empty cell as a bit set
// (bit d set means digit d fits). A filled cell yields zero.
func CandidateMask(g *grid.Grid, row, col int) uint16 {
	if g.Cells[row][col].Value != 0 {
		return 0
	}
	var used uint16
	for c := 0; c < grid.Size; c++ {
		used |= 1 << uint(g.Cells[row][c].Value)
	}
	for r := 0; r < grid.Size; r++ {
		used |= 1 << uint(g.Cells[r][col].Value)
	}
	br, bc := grid.BoxOrigin(grid.BoxOf(row, col))
	for r := br; r < br+grid.BoxSize; r++ {
		for c := bc; c < bc+grid.BoxSize; c++ {
			used |= 1 << uint(g.Cells[r][c].Value)
		}
	}
	const all = 0x3FE // bits 1..9
	return ^used & all
}

// HasDuplicates reports whether any row, column, or box holds the same digit
// twice. Empty cells never count.
func HasDuplicates(g *grid.Grid) bool {
	for i := 0; i < grid.Size; i++ {
		var row, col uint16
		for j := 0; j < grid.Size; j++ {
			if v := g.Cells[i][j].Value; v != 0 {
				if row&(1<<uint(v)) != 0 {
					return true
				}
				row |= 1 << uint(v)
			}
			if v := g.Cells[j][i].Value; v != 0 {
				if col&(1<<uint(v)) != 0 {
					return true
				}
				col |= 1 << uint(v)
			}
		}
	}
	for b := 0; b < grid.Size; b++ {
		var box uint16
		br, bc := grid.BoxOrigin(b)
		for r := br; r < br+grid.BoxSize; r++ {
			for c := bc; c < bc+grid.BoxSize; c++ {
				if v := g.Cells[r][c].Value; v != 0 {
					if box&(1<<uint(v)) != 0 {
						return true
					}
					box |= 1 << uint(v)
				}
			}
		}
	}
	return false
}

// IsSolved reports whether the grid is completely filled and every row,
// column, and box is a permutation of 1..9.
func IsSolved(g *grid.Grid) bool {
	return g.IsFull() && !HasDuplicates(g)
}
