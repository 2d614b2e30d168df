package visualizer

import (
	"strings"
	"testing"

	"sudoku_game_go/internal/grid"
)

func sampleGrid(t *testing.T) grid.Grid {
	t.Helper()
	rows := [][]int{
		{5, 3, 0, 0, 7, 0, 0, 0, 0},
		{6, 0, 0, 1, 9, 5, 0, 0, 0},
		{0, 9, 8, 0, 0, 0, 0, 6, 0},
		{8, 0, 0, 0, 6, 0, 0, 0, 3},
		{4, 0, 0, 8, 0, 3, 0, 0, 1},
		{7, 0, 0, 0, 2, 0, 0, 0, 6},
		{0, 6, 0, 0, 0, 0, 2, 8, 0},
		{0, 0, 0, 4, 1, 9, 0, 0, 5},
		{0, 0, 0, 0, 8, 0, 0, 7, 9},
	}
	g, err := grid.FromValueRows(rows)
	if err != nil {
		t.Fatalf("FromValueRows: %v", err)
	}
	return g
}

func TestRenderCompact(t *testing.T) {
	g := sampleGrid(t)
	out := NewVisualizer(&g).Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 13 {
		t.Fatalf("line count = %d, want 13", len(lines))
	}
	if lines[0] != "┌───────┬───────┬───────┐" {
		t.Fatalf("top border = %q", lines[0])
	}
	if lines[1] != "│ 5 3 . │ . 7 . │ . . . │" {
		t.Fatalf("first row = %q", lines[1])
	}
	if lines[4] != "├───────┼───────┼───────┤" {
		t.Fatalf("box separator = %q", lines[4])
	}
	if lines[12] != "└───────┴───────┴───────┘" {
		t.Fatalf("bottom border = %q", lines[12])
	}
	if strings.Contains(out, "\033") {
		t.Fatal("escape codes present with color off")
	}
}

func TestRenderColor(t *testing.T) {
	g := sampleGrid(t)
	g.Cells[0][0].Fixed = true
	v := NewVisualizer(&g)
	v.Color = true
	v.SetConflicts([]grid.Coord{{Row: 0, Col: 4}})

	out := v.Render()
	if !strings.Contains(out, ansiBold+"5"+ansiReset) {
		t.Fatal("given is not rendered bold")
	}
	if !strings.Contains(out, ansiRedBG+"7"+ansiReset) {
		t.Fatal("conflicted cell is not highlighted")
	}
}

func TestRenderNotes(t *testing.T) {
	g := grid.New()
	g.Cells[0][0].Notes.Add(1)
	g.Cells[0][0].Notes.Add(9)
	g.Cells[4][4].Value = 5

	v := NewVisualizer(&g)
	v.Notes = true
	out := v.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 31 {
		t.Fatalf("line count = %d, want 31", len(lines))
	}
	if !strings.HasPrefix(lines[1], "│ 1") {
		t.Fatalf("note 1 missing from its home position: %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "│   9") {
		t.Fatalf("note 9 missing from its home position: %q", lines[3])
	}
	if !strings.Contains(lines[15], "5") {
		t.Fatalf("value missing from middle line: %q", lines[15])
	}
}
