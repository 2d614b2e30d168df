package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sudoku_game_go/internal/generator"
	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/rules"
)

// ErrCorruptSave marks a save payload that fails structural validation.
// Decoding never builds a session from such a payload, so whatever session
// the caller currently runs stays untouched.
var ErrCorruptSave = errors.New("save record is corrupt")

const saveVersion = 1

type savedMove struct {
	Row      int   `json:"row"`
	Col      int   `json:"col"`
	OldValue int   `json:"old_value"`
	OldNotes []int `json:"old_notes,omitempty"`
	NewValue int   `json:"new_value"`
	NewNotes []int `json:"new_notes,omitempty"`
	Note     bool  `json:"note,omitempty"`
	Seq      int   `json:"seq"`
}

type saveRecord struct {
	Version    int                  `json:"version"`
	ID         string               `json:"id"`
	Difficulty generator.Difficulty `json:"difficulty"`
	State      string               `json:"state"`
	Grid       [][]int              `json:"grid"`
	Fixed      [][]bool             `json:"fixed"`
	Notes      [][][]int            `json:"notes"`
	Solution   [][]int              `json:"solution"`
	Elapsed    time.Duration        `json:"elapsed_ns"`
	HintsLeft  int                  `json:"hints_left"`
	AutoCheck  bool                 `json:"auto_check"`
	Seq        int                  `json:"seq"`
	Undo       []savedMove          `json:"undo"`
	Redo       []savedMove          `json:"redo"`
	SavedAt    time.Time            `json:"saved_at"`
}

// EncodeSave serializes the full session, everything needed to resume
// exactly: grid values, fixed mask, notes, solution, difficulty, elapsed
// time, hint budget, and both history stacks.
func (s *Session) EncodeSave() ([]byte, error) {
	rec := saveRecord{
		Version:    saveVersion,
		ID:         s.id,
		Difficulty: s.difficulty,
		State:      s.state.String(),
		Grid:       s.grid.ValueRows(),
		Fixed:      fixedRows(&s.grid),
		Notes:      noteRows(&s.grid),
		Solution:   s.solution.ValueRows(),
		Elapsed:    s.Elapsed(),
		HintsLeft:  s.hintsLeft,
		AutoCheck:  s.autoCheck,
		Seq:        s.seq,
		Undo:       encodeMoves(s.undo),
		Redo:       encodeMoves(s.redo),
		SavedAt:    s.clock.Now(),
	}
	return json.Marshal(rec)
}

// DecodeSave rebuilds a session from an EncodeSave payload. Sessions saved
// while active or paused resume active; won sessions stay won. Every
// structural defect is reported as ErrCorruptSave.
func DecodeSave(data []byte, opts Options) (*Session, error) {
	var rec saveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if rec.Version != saveVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, rec.Version)
	}

	solution, err := grid.FromValueRows(rec.Solution)
	if err != nil {
		return nil, fmt.Errorf("%w: solution: %v", ErrCorruptSave, err)
	}
	if !rules.IsSolved(&solution) {
		return nil, fmt.Errorf("%w: solution is not a valid solved grid", ErrCorruptSave)
	}

	g, err := grid.FromValueRows(rec.Grid)
	if err != nil {
		return nil, fmt.Errorf("%w: grid: %v", ErrCorruptSave, err)
	}
	if err := applyFixedRows(&g, rec.Fixed, &solution); err != nil {
		return nil, err
	}
	if err := applyNoteRows(&g, rec.Notes); err != nil {
		return nil, err
	}

	if rec.Elapsed < 0 {
		return nil, fmt.Errorf("%w: negative elapsed time", ErrCorruptSave)
	}
	if rec.HintsLeft < 0 {
		return nil, fmt.Errorf("%w: negative hint count", ErrCorruptSave)
	}

	var state State
	switch rec.State {
	case "active", "paused":
		state = StateActive
	case "won":
		state = StateWon
	default:
		return nil, fmt.Errorf("%w: unknown state %q", ErrCorruptSave, rec.State)
	}
	if state == StateWon && !g.ValuesEqual(&solution) {
		return nil, fmt.Errorf("%w: won state with unfinished grid", ErrCorruptSave)
	}

	undo, err := decodeMoves(rec.Undo, &g)
	if err != nil {
		return nil, err
	}
	redo, err := decodeMoves(rec.Redo, &g)
	if err != nil {
		return nil, err
	}

	seq := rec.Seq
	for _, m := range undo {
		if m.Seq >= seq {
			seq = m.Seq + 1
		}
	}
	for _, m := range redo {
		if m.Seq >= seq {
			seq = m.Seq + 1
		}
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}

	s := &Session{
		id:          id,
		difficulty:  rec.Difficulty,
		grid:        g,
		solution:    solution,
		state:       state,
		undo:        undo,
		redo:        redo,
		seq:         seq,
		hintsLeft:   rec.HintsLeft,
		autoCheck:   rec.AutoCheck,
		clock:       opts.clock(),
		accumulated: rec.Elapsed,
	}
	if s.state == StateActive {
		s.resumedAt = s.clock.Now()
	}
	return s, nil
}

func fixedRows(g *grid.Grid) [][]bool {
	rows := make([][]bool, grid.Size)
	for r := 0; r < grid.Size; r++ {
		rows[r] = make([]bool, grid.Size)
		for c := 0; c < grid.Size; c++ {
			rows[r][c] = g.Cells[r][c].Fixed
		}
	}
	return rows
}

func noteRows(g *grid.Grid) [][][]int {
	rows := make([][][]int, grid.Size)
	for r := 0; r < grid.Size; r++ {
		rows[r] = make([][]int, grid.Size)
		for c := 0; c < grid.Size; c++ {
			rows[r][c] = g.Cells[r][c].Notes.Digits()
		}
	}
	return rows
}

func applyFixedRows(g *grid.Grid, rows [][]bool, solution *grid.Grid) error {
	if len(rows) != grid.Size {
		return fmt.Errorf("%w: fixed mask has %d rows", ErrCorruptSave, len(rows))
	}
	for r, row := range rows {
		if len(row) != grid.Size {
			return fmt.Errorf("%w: fixed mask row %d has %d cells", ErrCorruptSave, r, len(row))
		}
		for c, fixed := range row {
			if !fixed {
				continue
			}
			if g.Cells[r][c].Value != solution.Cells[r][c].Value {
				return fmt.Errorf("%w: given at (%d,%d) disagrees with solution", ErrCorruptSave, r, c)
			}
			g.Cells[r][c].Fixed = true
		}
	}
	return nil
}

func applyNoteRows(g *grid.Grid, rows [][][]int) error {
	if len(rows) != grid.Size {
		return fmt.Errorf("%w: notes have %d rows", ErrCorruptSave, len(rows))
	}
	for r, row := range rows {
		if len(row) != grid.Size {
			return fmt.Errorf("%w: notes row %d has %d cells", ErrCorruptSave, r, len(row))
		}
		for c, digits := range row {
			if len(digits) == 0 {
				continue
			}
			if g.Cells[r][c].Value != 0 {
				return fmt.Errorf("%w: notes on filled cell (%d,%d)", ErrCorruptSave, r, c)
			}
			var n grid.Notes
			for _, d := range digits {
				if d < 1 || d > grid.Size {
					return fmt.Errorf("%w: note digit %d at (%d,%d)", ErrCorruptSave, d, r, c)
				}
				n.Add(d)
			}
			g.Cells[r][c].Notes = n
		}
	}
	return nil
}

func encodeMoves(moves []Move) []savedMove {
	out := make([]savedMove, len(moves))
	for i, m := range moves {
		out[i] = savedMove{
			Row:      m.Cell.Row,
			Col:      m.Cell.Col,
			OldValue: m.OldValue,
			OldNotes: m.OldNotes.Digits(),
			NewValue: m.NewValue,
			NewNotes: m.NewNotes.Digits(),
			Note:     m.Note,
			Seq:      m.Seq,
		}
	}
	return out
}

func decodeMoves(moves []savedMove, g *grid.Grid) ([]Move, error) {
	if len(moves) == 0 {
		return nil, nil
	}
	out := make([]Move, len(moves))
	for i, m := range moves {
		if err := grid.CheckBounds(m.Row, m.Col); err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptSave, i, err)
		}
		if g.Cells[m.Row][m.Col].Fixed {
			return nil, fmt.Errorf("%w: move %d targets a given", ErrCorruptSave, i)
		}
		if m.OldValue < 0 || m.OldValue > grid.Size || m.NewValue < 0 || m.NewValue > grid.Size {
			return nil, fmt.Errorf("%w: move %d has values outside 0..9", ErrCorruptSave, i)
		}
		oldNotes, err := notesFromDigits(m.OldNotes)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptSave, i, err)
		}
		newNotes, err := notesFromDigits(m.NewNotes)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptSave, i, err)
		}
		out[i] = Move{
			Cell:     grid.Coord{Row: m.Row, Col: m.Col},
			OldValue: m.OldValue,
			OldNotes: oldNotes,
			NewValue: m.NewValue,
			NewNotes: newNotes,
			Note:     m.Note,
			Seq:      m.Seq,
		}
	}
	return out, nil
}

func notesFromDigits(digits []int) (grid.Notes, error) {
	var n grid.Notes
	for _, d := range digits {
		if d < 1 || d > grid.Size {
			return 0, fmt.Errorf("note digit %d out of range", d)
		}
		n.Add(d)
	}
	return n, nil
}
