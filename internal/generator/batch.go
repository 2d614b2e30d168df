package generator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ProgressReport describes how far a batch run has come. Reports are
// delivered as puzzles finish, so Generated is monotonic but the callback may
// run on any worker goroutine.
type ProgressReport struct {
	Generated int
	Total     int
	Message   string
	Completed bool
}

// ProgressFunc receives batch progress. Implementations must be safe for
// concurrent calls.
type ProgressFunc func(ProgressReport)

// GenerateBatch produces count puzzles of one difficulty using a worker
// pool. Puzzle i derives its seed from seed+i, so a batch is reproducible as
// a set regardless of scheduling. Each finished puzzle crosses to the
// collector as one value; callers never observe a partially built puzzle.
//
// On cancellation the puzzles finished so far are returned together with the
// context error; generation of in-flight puzzles runs to completion first.
func GenerateBatch(ctx context.Context, count int, d Difficulty, workers int, seed int64, progress ProgressFunc) ([]Puzzle, error) {
	if count <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > count {
		workers = count
	}

	jobs := make(chan int64)
	results := make(chan Puzzle, count)
	var wg sync.WaitGroup
	var generated int64

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobSeed := range jobs {
				p, err := NewSeeded(jobSeed).Generate(d)
				if err != nil {
					continue
				}
				results <- p
				if progress != nil {
					n := int(atomic.AddInt64(&generated, 1))
					progress(ProgressReport{
						Generated: n,
						Total:     count,
						Message:   fmt.Sprintf("generated %d/%d %s puzzles", n, count, d),
						Completed: n == count,
					})
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < count; i++ {
			select {
			case jobs <- seed + int64(i):
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Puzzle, 0, count)
	for p := range results {
		out = append(out, p)
	}
	return out, ctx.Err()
}
