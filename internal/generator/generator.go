// Package generator builds sudoku puzzles with a unique solution calibrated
// to a difficulty level.
package generator

import (
	"math/rand"
	"time"

	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/solver"
)

// Puzzle bundles a generated board with its solution. Givens carries the
// fixed cells; every non-given cell is empty and mutable.
type Puzzle struct {
	Givens     grid.Grid
	Solution   grid.Grid
	Difficulty Difficulty
	Seed       int64
}

// Generator produces puzzles from a seedable random source.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New returns a generator seeded from the wall clock.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a generator with a fixed seed. Equal seeds reproduce
// equal puzzles.
func NewSeeded(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Generate builds a puzzle for the requested difficulty.
//
// A random full solution is produced first by solving an empty grid with
// shuffled candidate ordering. Cells are then cleared one at a time in random
// order; a removal only sticks while the puzzle keeps exactly one solution.
// Carving stops once the target clue count is reached or every remaining cell
// has been tried. If the target cannot be reached the puzzle is returned with
// however many givens survived, so the difficulty is best-effort and the
// result is always valid.
func (g *Generator) Generate(d Difficulty) (Puzzle, error) {
	empty := grid.New()
	solution, _, err := solver.Solve(&empty, g.rng)
	if err != nil {
		return Puzzle{}, err
	}

	puzzle := solution.Clone()
	target := d.TargetClues()

	for _, pos := range g.rng.Perm(grid.Size * grid.Size) {
		if puzzle.FilledCount() <= target {
			break
		}
		r, c := pos/grid.Size, pos%grid.Size
		kept := puzzle.Cells[r][c].Value
		if kept == 0 {
			continue
		}
		puzzle.Cells[r][c].Value = 0
		if n, _ := solver.CountSolutions(&puzzle, 2); n != 1 {
			puzzle.Cells[r][c].Value = kept
		}
	}

	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			puzzle.Cells[r][c].Fixed = puzzle.Cells[r][c].Value != 0
		}
	}

	return Puzzle{
		Givens:     puzzle,
		Solution:   solution,
		Difficulty: d,
		Seed:       g.seed,
	}, nil
}
