// Package game holds the playable sudoku session: the live grid, its
// solution, undo/redo history, hints, pausing, and win detection. Sessions
// are single-threaded; every command runs to completion before the next.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sudoku_game_go/internal/generator"
	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/rules"
)

// State is the session lifecycle position.
type State int

const (
	StateActive State = iota
	StatePaused
	StateWon
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrCellFixed     = errors.New("cell is a given")
	ErrCellOccupied  = errors.New("cell already holds a value")
	ErrNotActive     = errors.New("session is not active")
	ErrNotPaused     = errors.New("session is not paused")
	ErrEmptyHistory  = errors.New("history stack is empty")
	ErrHintExhausted = errors.New("no hints remaining")
	ErrNoHint        = errors.New("every cell already matches the solution")
)

// DefaultHintBudget is how many hints a fresh game carries.
const DefaultHintBudget = 3

// Clock supplies the session's notion of now. Injecting it keeps
// elapsed-time behaviour testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Move records one user mutation, the unit of undo/redo. Seq is an ordinal
// assigned when the move is first recorded; it survives undo/redo cycles.
type Move struct {
	Cell     grid.Coord
	OldValue int
	OldNotes grid.Notes
	NewValue int
	NewNotes grid.Notes
	Note     bool
	Seq      int
}

// Options tunes a new session. The zero value gives a wall-clock session
// with the default hint budget and conflict flagging on.
type Options struct {
	// Seed feeds puzzle generation in NewGame; 0 seeds from the clock.
	Seed int64
	// Clock overrides the time source; nil uses the system clock.
	Clock Clock
	// HintBudget of 0 means DefaultHintBudget; negative disables hints.
	HintBudget int
	// DisableAutoCheck turns off conflict reporting on entries.
	DisableAutoCheck bool
}

func (o Options) clock() Clock {
	if o.Clock == nil {
		return systemClock{}
	}
	return o.Clock
}

func (o Options) hintBudget() int {
	if o.HintBudget == 0 {
		return DefaultHintBudget
	}
	if o.HintBudget < 0 {
		return 0
	}
	return o.HintBudget
}

// Session owns the current puzzle state. It is not safe for concurrent use.
type Session struct {
	id         string
	difficulty generator.Difficulty
	grid       grid.Grid
	solution   grid.Grid
	state      State

	undo []Move
	redo []Move
	seq  int

	hintsLeft int
	autoCheck bool

	clock       Clock
	accumulated time.Duration
	resumedAt   time.Time
}

// Snapshot is a read-only view handed to callers after every command.
type Snapshot struct {
	ID         string
	Difficulty generator.Difficulty
	State      State
	Grid       grid.Grid
	Conflicts  []grid.Coord
	Elapsed    time.Duration
	HintsLeft  int
	AutoCheck  bool
	CanUndo    bool
	CanRedo    bool
}

// NewGame generates a fresh puzzle and starts an active session on it.
func NewGame(d generator.Difficulty, opts Options) (*Session, error) {
	var gen *generator.Generator
	if opts.Seed != 0 {
		gen = generator.NewSeeded(opts.Seed)
	} else {
		gen = generator.New()
	}
	p, err := gen.Generate(d)
	if err != nil {
		return nil, err
	}
	return NewSession(p, opts), nil
}

// NewSession starts an active session on an already generated puzzle, for
// example one fetched from the archive or a save slot.
func NewSession(p generator.Puzzle, opts Options) *Session {
	s := &Session{
		id:         uuid.New().String(),
		difficulty: p.Difficulty,
		grid:       p.Givens,
		solution:   p.Solution,
		state:      StateActive,
		hintsLeft:  opts.hintBudget(),
		autoCheck:  !opts.DisableAutoCheck,
		clock:      opts.clock(),
	}
	s.resumedAt = s.clock.Now()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Difficulty() generator.Difficulty { return s.difficulty }

func (s *Session) State() State { return s.state }

func (s *Session) HintsLeft() int { return s.hintsLeft }

func (s *Session) AutoCheck() bool { return s.autoCheck }

// Grid returns a copy of the current board.
func (s *Session) Grid() grid.Grid { return s.grid }

// SetAutoCheck flips conflict flagging. A setting, not a move; it is never
// recorded in history.
func (s *Session) SetAutoCheck(on bool) { s.autoCheck = on }

// Elapsed returns active play time. The counter runs only while the session
// is active.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateActive {
		return s.accumulated + s.clock.Now().Sub(s.resumedAt)
	}
	return s.accumulated
}

// Snapshot captures the current session without conflicts attached.
func (s *Session) Snapshot() Snapshot {
	return s.snapshot(nil)
}

func (s *Session) snapshot(conflicts []grid.Coord) Snapshot {
	return Snapshot{
		ID:         s.id,
		Difficulty: s.difficulty,
		State:      s.state,
		Grid:       s.grid,
		Conflicts:  conflicts,
		Elapsed:    s.Elapsed(),
		HintsLeft:  s.hintsLeft,
		AutoCheck:  s.autoCheck,
		CanUndo:    len(s.undo) > 0,
		CanRedo:    len(s.redo) > 0,
	}
}

// EnterValue writes a digit into a mutable cell. The entry is stored even
// when it clashes with a peer; clashes are reported through the snapshot so
// the caller can flag them. Entering the last correct digit wins the game.
func (s *Session) EnterValue(row, col, digit int) (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if err := grid.CheckBounds(row, col); err != nil {
		return s.snapshot(nil), err
	}
	if digit < 1 || digit > grid.Size {
		return s.snapshot(nil), fmt.Errorf("%w: digit %d", grid.ErrInvalidCell, digit)
	}
	cell := s.grid.Cells[row][col]
	if cell.Fixed {
		return s.snapshot(nil), fmt.Errorf("%w: row %d, col %d", ErrCellFixed, row, col)
	}

	var conflicts []grid.Coord
	if s.autoCheck {
		conflicts = rules.Conflicts(&s.grid, row, col, digit)
	}

	s.record(Move{
		Cell:     grid.Coord{Row: row, Col: col},
		OldValue: cell.Value,
		OldNotes: cell.Notes,
		NewValue: digit,
	})
	s.grid.Cells[row][col].Value = digit
	s.grid.Cells[row][col].Notes = 0
	s.checkWin()
	return s.snapshot(conflicts), nil
}

// ClearCell erases a mutable cell's value and pencil notes. On an empty
// cell it is the wholesale note-erase gesture. One move record covers both,
// so undo restores the notes too.
func (s *Session) ClearCell(row, col int) (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if err := grid.CheckBounds(row, col); err != nil {
		return s.snapshot(nil), err
	}
	cell := s.grid.Cells[row][col]
	if cell.Fixed {
		return s.snapshot(nil), fmt.Errorf("%w: row %d, col %d", ErrCellFixed, row, col)
	}

	s.record(Move{
		Cell:     grid.Coord{Row: row, Col: col},
		OldValue: cell.Value,
		OldNotes: cell.Notes,
		NewValue: 0,
	})
	s.grid.Cells[row][col].Value = 0
	s.grid.Cells[row][col].Notes = 0
	return s.snapshot(nil), nil
}

// ToggleNote flips a pencil mark on an empty, mutable cell.
func (s *Session) ToggleNote(row, col, digit int) (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if err := grid.CheckBounds(row, col); err != nil {
		return s.snapshot(nil), err
	}
	if digit < 1 || digit > grid.Size {
		return s.snapshot(nil), fmt.Errorf("%w: digit %d", grid.ErrInvalidCell, digit)
	}
	cell := s.grid.Cells[row][col]
	if cell.Fixed {
		return s.snapshot(nil), fmt.Errorf("%w: row %d, col %d", ErrCellFixed, row, col)
	}
	if cell.Value != 0 {
		return s.snapshot(nil), fmt.Errorf("%w: row %d, col %d", ErrCellOccupied, row, col)
	}

	next := cell.Notes
	next.Toggle(digit)
	s.record(Move{
		Cell:     grid.Coord{Row: row, Col: col},
		OldNotes: cell.Notes,
		NewNotes: next,
		Note:     true,
	})
	s.grid.Cells[row][col].Notes = next
	return s.snapshot(nil), nil
}

// Undo reverses the most recent move. With nothing to reverse it reports
// ErrEmptyHistory and changes nothing.
func (s *Session) Undo() (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if len(s.undo) == 0 {
		return s.snapshot(nil), fmt.Errorf("%w: undo", ErrEmptyHistory)
	}
	m := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.applyMove(m, false)
	s.redo = append(s.redo, m)
	s.checkWin()
	return s.snapshot(nil), nil
}

// Redo reapplies the most recently undone move.
func (s *Session) Redo() (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if len(s.redo) == 0 {
		return s.snapshot(nil), fmt.Errorf("%w: redo", ErrEmptyHistory)
	}
	m := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.applyMove(m, true)
	s.undo = append(s.undo, m)
	s.checkWin()
	return s.snapshot(nil), nil
}

// UseHint reveals the solution digit for a mutable cell, spending one hint.
// The reveal is an ordinary entry: it lands unfixed, clears notes, and can be
// undone, though undoing does not refund the hint.
func (s *Session) UseHint(row, col int) (Snapshot, error) {
	if err := s.requireActive(); err != nil {
		return s.snapshot(nil), err
	}
	if err := grid.CheckBounds(row, col); err != nil {
		return s.snapshot(nil), err
	}
	cell := s.grid.Cells[row][col]
	if cell.Fixed {
		return s.snapshot(nil), fmt.Errorf("%w: row %d, col %d", ErrCellFixed, row, col)
	}
	if s.hintsLeft <= 0 {
		return s.snapshot(nil), ErrHintExhausted
	}

	digit := s.solution.Cells[row][col].Value
	s.record(Move{
		Cell:     grid.Coord{Row: row, Col: col},
		OldValue: cell.Value,
		OldNotes: cell.Notes,
		NewValue: digit,
	})
	s.grid.Cells[row][col].Value = digit
	s.grid.Cells[row][col].Notes = 0
	s.hintsLeft--
	s.checkWin()
	return s.snapshot(nil), nil
}

// PeekHint returns the first cell, scanning row-major, whose value differs
// from the solution, along with the digit belonging there. It neither
// mutates the grid nor spends budget; pair it with UseHint to apply.
func (s *Session) PeekHint() (grid.Coord, int, error) {
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			want := s.solution.Cells[r][c].Value
			if s.grid.Cells[r][c].Value != want {
				return grid.Coord{Row: r, Col: c}, want, nil
			}
		}
	}
	return grid.Coord{}, 0, ErrNoHint
}

// Pause stops the clock and rejects mutations until Resume.
func (s *Session) Pause() (Snapshot, error) {
	if s.state != StateActive {
		return s.snapshot(nil), fmt.Errorf("%w: state %s", ErrNotActive, s.state)
	}
	s.accumulated += s.clock.Now().Sub(s.resumedAt)
	s.state = StatePaused
	return s.snapshot(nil), nil
}

// Resume restarts the clock on a paused session.
func (s *Session) Resume() (Snapshot, error) {
	if s.state != StatePaused {
		return s.snapshot(nil), fmt.Errorf("%w: state %s", ErrNotPaused, s.state)
	}
	s.state = StateActive
	s.resumedAt = s.clock.Now()
	return s.snapshot(nil), nil
}

func (s *Session) requireActive() error {
	if s.state != StateActive {
		return fmt.Errorf("%w: state %s", ErrNotActive, s.state)
	}
	return nil
}

// record pushes a move onto the undo stack. Any new move invalidates the
// redo stack, the usual linear-history rule.
func (s *Session) record(m Move) {
	m.Seq = s.seq
	s.seq++
	s.undo = append(s.undo, m)
	s.redo = s.redo[:0]
}

func (s *Session) applyMove(m Move, forward bool) {
	cell := &s.grid.Cells[m.Cell.Row][m.Cell.Col]
	if forward {
		if !m.Note {
			cell.Value = m.NewValue
		}
		cell.Notes = m.NewNotes
		return
	}
	if !m.Note {
		cell.Value = m.OldValue
	}
	cell.Notes = m.OldNotes
}

func (s *Session) checkWin() {
	if s.state != StateActive {
		return
	}
	if !s.grid.ValuesEqual(&s.solution) {
		return
	}
	s.accumulated += s.clock.Now().Sub(s.resumedAt)
	s.state = StateWon
}
