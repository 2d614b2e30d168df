// Package visualizer renders grids for the terminal.
package visualizer

import (
	"fmt"
	"strconv"
	"strings"

	"sudoku_game_go/internal/grid"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRedBG = "\033[41m"

	boxesAcross = grid.Size / grid.BoxSize
)

// Visualizer draws one grid. Color switches ANSI highlighting on: givens
// bold, conflicted cells on a red background. Notes switches to the wide
// three-line-per-cell rendering that shows pencil marks.
type Visualizer struct {
	grid      *grid.Grid
	conflicts map[grid.Coord]bool

	Color bool
	Notes bool
}

func NewVisualizer(g *grid.Grid) *Visualizer {
	return &Visualizer{grid: g}
}

// SetConflicts marks cells to highlight on the next render.
func (v *Visualizer) SetConflicts(cells []grid.Coord) {
	v.conflicts = make(map[grid.Coord]bool, len(cells))
	for _, c := range cells {
		v.conflicts[c] = true
	}
}

func (v *Visualizer) Print() {
	fmt.Print(v.Render())
}

func (v *Visualizer) Render() string {
	if v.Notes {
		return v.renderNotes()
	}
	return v.renderCompact()
}

func (v *Visualizer) renderCompact() string {
	var b strings.Builder
	v.printBorder(&b, "┌", "┬", "┐", 2*grid.BoxSize+1)
	for i := 0; i < grid.Size; i++ {
		b.WriteString("│")
		for j := 0; j < grid.Size; j++ {
			b.WriteString(" ")
			b.WriteString(v.cellText(i, j))
			if (j+1)%grid.BoxSize == 0 {
				b.WriteString(" │")
			}
		}
		b.WriteString("\n")
		if (i+1)%grid.BoxSize == 0 && i < grid.Size-1 {
			v.printBorder(&b, "├", "┼", "┤", 2*grid.BoxSize+1)
		}
	}
	v.printBorder(&b, "└", "┴", "┘", 2*grid.BoxSize+1)
	return b.String()
}

// renderNotes draws each cell as a 3x3 block: pencil marks sit in their
// digit's home position, a filled cell shows its value on the middle line.
func (v *Visualizer) renderNotes() string {
	width := grid.BoxSize*(grid.BoxSize+1) + 1
	var b strings.Builder
	v.printBorder(&b, "┌", "┬", "┐", width)
	for i := 0; i < grid.Size; i++ {
		for line := 0; line < grid.BoxSize; line++ {
			b.WriteString("│")
			for j := 0; j < grid.Size; j++ {
				b.WriteString(" ")
				b.WriteString(v.cellLine(i, j, line))
				if (j+1)%grid.BoxSize == 0 {
					b.WriteString(" │")
				}
			}
			b.WriteString("\n")
		}
		if (i+1)%grid.BoxSize == 0 && i < grid.Size-1 {
			v.printBorder(&b, "├", "┼", "┤", width)
		}
	}
	v.printBorder(&b, "└", "┴", "┘", width)
	return b.String()
}

func (v *Visualizer) printBorder(b *strings.Builder, left, mid, right string, width int) {
	b.WriteString(left)
	for i := 0; i < boxesAcross; i++ {
		b.WriteString(strings.Repeat("─", width))
		if i < boxesAcross-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

func (v *Visualizer) cellText(i, j int) string {
	cell := v.grid.Cells[i][j]
	text := "."
	if cell.Value != 0 {
		text = strconv.Itoa(cell.Value)
	}
	return v.colorize(i, j, text)
}

func (v *Visualizer) cellLine(i, j, line int) string {
	cell := v.grid.Cells[i][j]
	if cell.Value != 0 {
		if line != 1 {
			return strings.Repeat(" ", grid.BoxSize)
		}
		return v.colorize(i, j, " "+strconv.Itoa(cell.Value)+" ")
	}
	var b strings.Builder
	for k := 0; k < grid.BoxSize; k++ {
		digit := line*grid.BoxSize + k + 1
		if cell.Notes.Has(digit) {
			b.WriteString(strconv.Itoa(digit))
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (v *Visualizer) colorize(i, j int, text string) string {
	if !v.Color {
		return text
	}
	switch {
	case v.conflicts[grid.Coord{Row: i, Col: j}]:
		return ansiRedBG + text + ansiReset
	case v.grid.Cells[i][j].Fixed:
		return ansiBold + text + ansiReset
	}
	return text
}
