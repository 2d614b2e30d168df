package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/slice"

	"sudoku_game_go/internal/archive"
	"sudoku_game_go/internal/generator"
	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/rules"
	"sudoku_game_go/internal/solver"
	"sudoku_game_go/internal/visualizer"
)

func cmdGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	difficulty := fs.String("difficulty", "medium", "puzzle difficulty")
	count := fs.Int("count", 1, "how many puzzles")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel workers")
	seed := fs.Int64("seed", 0, "base seed, 0 picks one from the clock")
	upload := fs.Bool("upload", false, "upload the puzzles to the archive")
	outDir := fs.String("out", "", "write puzzle JSON files to this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := difficultyFlag(*difficulty)
	if err != nil {
		return err
	}
	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	puzzles, err := generator.GenerateBatch(ctx, *count, d, *workers, baseSeed, func(p generator.ProgressReport) {
		slog.Info("progress", "generated", p.Generated, "total", p.Total)
	})
	if err != nil {
		slog.Warn("batch interrupted", "error", err, "finished", len(puzzles))
	}
	slog.Info("batch done",
		"count", len(puzzles),
		"difficulty", d,
		"seed", baseSeed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if len(puzzles) == 1 {
		g := puzzles[0].Givens
		visualizer.NewVisualizer(&g).Print()
		fmt.Printf("%d clues\n", g.FilledCount())
	}

	if *outDir != "" {
		if err := writePuzzles(*outDir, puzzles); err != nil {
			return err
		}
	}
	if *upload {
		return uploadPuzzles(ctx, puzzles)
	}
	return nil
}

type puzzleJSON struct {
	Givens     [][]int `json:"givens"`
	Solution   [][]int `json:"solution"`
	Difficulty string  `json:"difficulty"`
	Clues      int     `json:"clues"`
	Seed       int64   `json:"seed"`
}

func writePuzzles(dir string, puzzles []generator.Puzzle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, p := range puzzles {
		data, err := json.MarshalIndent(puzzleJSON{
			Givens:     p.Givens.ValueRows(),
			Solution:   p.Solution.ValueRows(),
			Difficulty: p.Difficulty.String(),
			Clues:      p.Givens.FilledCount(),
			Seed:       p.Seed,
		}, "", "  ")
		if err != nil {
			return err
		}
		name := filepath.Join(dir, fmt.Sprintf("sudoku_%s_%d.json", p.Difficulty, p.Seed))
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		slog.Debug("wrote puzzle", "file", name)
	}
	slog.Info("wrote puzzle files", "dir", dir, "count", len(puzzles))
	return nil
}

func uploadPuzzles(ctx context.Context, puzzles []generator.Puzzle) error {
	client, err := archive.New(archive.ConfigFromEnv())
	if err != nil {
		return err
	}
	if err := client.Authorize(); err != nil {
		return err
	}
	client.KeepAuthorized(ctx, 30*time.Minute)

	uploaded := 0
	for _, p := range puzzles {
		id := archive.NewID()
		if err := client.Upload(id, p); err != nil {
			slog.Error("upload failed", "id", id, "error", err)
			continue
		}
		uploaded++
		slog.Info("uploaded puzzle", "id", id, "difficulty", p.Difficulty)
	}
	if uploaded < len(puzzles) {
		return fmt.Errorf("uploaded %d of %d puzzles", uploaded, len(puzzles))
	}
	return nil
}

func cmdSolve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	line := fs.String("grid", "", "puzzle as 81 characters, row by row, . or 0 for empty")
	file := fs.String("file", "", "file with one 81-character puzzle per line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var lines []string
	switch {
	case *line != "":
		lines = []string{*line}
	case *file != "":
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		for _, l := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	default:
		return fmt.Errorf("provide a puzzle with -grid or -file")
	}

	for i, l := range lines {
		g, err := parseGridLine(l)
		if err != nil {
			slog.Warn("skipping puzzle", "line", i+1, "error", err)
			continue
		}
		solved, st, err := solver.Solve(&g, nil)
		if err != nil {
			slog.Warn("puzzle is unsolvable", "line", i+1)
			continue
		}
		solutions, _ := solver.CountSolutions(&g, 2)
		unique := "unique"
		if solutions > 1 {
			unique = "multiple solutions"
		}
		visualizer.NewVisualizer(&solved).Print()
		slog.Info("solved", "line", i+1,
			"duration", st.Duration.Round(time.Microsecond),
			"nodes", st.Nodes,
			"uniqueness", unique)
	}
	return nil
}

// parseGridLine reads the common one-line puzzle format: 81 digits row by
// row, with . or 0 marking empty cells.
func parseGridLine(line string) (grid.Grid, error) {
	if len(line) != grid.Size*grid.Size {
		return grid.Grid{}, fmt.Errorf("line has %d characters, want %d", len(line), grid.Size*grid.Size)
	}
	cells := make([]int, 0, len(line))
	for i, ch := range line {
		switch {
		case ch >= '1' && ch <= '9':
			cells = append(cells, int(ch-'0'))
		case ch == '0' || ch == '.':
			cells = append(cells, 0)
		default:
			return grid.Grid{}, fmt.Errorf("invalid character %q at position %d", ch, i)
		}
	}
	g, err := grid.FromValueRows(slice.Chunk(cells, grid.Size))
	if err != nil {
		return grid.Grid{}, err
	}
	if rules.HasDuplicates(&g) {
		return grid.Grid{}, fmt.Errorf("puzzle has conflicting givens")
	}
	return g, nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	difficulty := fs.String("difficulty", "", "only list this difficulty")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 20, "results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := archive.New(archive.ConfigFromEnv())
	if err != nil {
		return err
	}
	if err := client.Authorize(); err != nil {
		slog.Warn("proceeding unauthenticated", "error", err)
	}

	entries, total, err := client.List(*page, *perPage, *difficulty)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%-10s %-7s %2d clues  %s\n", e.ID, e.Difficulty, e.Clues, e.Created)
	}
	fmt.Printf("page %d, %d puzzles total\n", *page, total)
	return nil
}
