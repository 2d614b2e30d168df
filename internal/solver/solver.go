// Package solver implements backtracking search over sudoku grids, used for
// solving, uniqueness proofs, and building solved grids during generation.
package solver

import (
	"errors"
	"math/bits"
	"math/rand"
	"time"

	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/rules"
)

// ErrUnsolvable reports that no assignment completes the grid. During
// generation it is an expected outcome, not a failure.
var ErrUnsolvable = errors.New("no solution satisfies the given cells")

// Stats captures how much work a search performed. Nodes counts candidate
// assignments tried, including ones later backtracked.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Solve returns a completed copy of g. Cells holding 0 are filled; all other
// cells are kept as-is. When rng is non-nil the candidate order at every
// branch is shuffled, so solving an empty grid yields a random valid
// solution; with a nil rng the search is deterministic.
func Solve(g *grid.Grid, rng *rand.Rand) (grid.Grid, Stats, error) {
	start := time.Now()
	work := g.Clone()
	if rules.HasDuplicates(&work) {
		return work, Stats{Duration: time.Since(start)}, ErrUnsolvable
	}
	var nodes int
	ok := solve(&work, rng, &nodes)
	stats := Stats{Nodes: nodes, Duration: time.Since(start)}
	if !ok {
		return work, stats, ErrUnsolvable
	}
	return work, stats, nil
}

// CountSolutions counts distinct completions of g, stopping as soon as limit
// is reached. Limit 2 is what uniqueness checks want: the count is 0
// (unsolvable), 1 (unique), or 2 (more than one). Non-positive limits count
// as 2.
func CountSolutions(g *grid.Grid, limit int) (int, Stats) {
	start := time.Now()
	if limit <= 0 {
		limit = 2
	}
	work := g.Clone()
	if rules.HasDuplicates(&work) {
		return 0, Stats{Duration: time.Since(start)}
	}

	count := 0
	nodes := 0
	var dfs func() bool
	dfs = func() bool {
		row, col, mask, open := mostConstrained(&work)
		if !open {
			count++
			return count >= limit
		}
		for mask != 0 {
			d := bits.TrailingZeros16(mask)
			mask &= mask - 1
			nodes++
			work.Cells[row][col].Value = d
			done := dfs()
			work.Cells[row][col].Value = 0
			if done {
				return true
			}
		}
		return false
	}
	dfs()
	return count, Stats{Nodes: nodes, Duration: time.Since(start)}
}

func solve(g *grid.Grid, rng *rand.Rand, nodes *int) bool {
	row, col, mask, open := mostConstrained(g)
	if !open {
		return true
	}
	for _, d := range candidateOrder(mask, rng) {
		(*nodes)++
		g.Cells[row][col].Value = d
		if solve(g, rng, nodes) {
			return true
		}
		g.Cells[row][col].Value = 0
	}
	return false
}

// mostConstrained picks the empty cell with the fewest legal digits. open is
// false when the grid has no empty cell left. A returned mask of zero means
// the search hit a dead end.
func mostConstrained(g *grid.Grid) (row, col int, mask uint16, open bool) {
	best := grid.Size + 1
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			if g.Cells[r][c].Value != 0 {
				continue
			}
			m := rules.CandidateMask(g, r, c)
			n := bits.OnesCount16(m)
			if !open || n < best {
				open = true
				row, col, mask, best = r, c, m, n
				if n == 0 {
					return
				}
			}
		}
	}
	return
}

func candidateOrder(mask uint16, rng *rand.Rand) []int {
	out := make([]int, 0, bits.OnesCount16(mask))
	for d := 1; d <= grid.Size; d++ {
		if mask&(1<<uint(d)) != 0 {
			out = append(out, d)
		}
	}
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}
