package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sudoku_game_go/internal/game"
	"sudoku_game_go/internal/generator"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sudoku.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	payload := []byte(`{"version":1}`)
	meta := Meta{SessionID: "abc", Difficulty: generator.Medium, Elapsed: 90 * time.Second}
	if err := s.Put(1, payload, meta); err != nil {
		t.Fatalf("Put: %v", err)
	}

	sg, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sg.Slot != 1 || sg.SessionID != "abc" {
		t.Fatalf("slot/session = %d/%q", sg.Slot, sg.SessionID)
	}
	if sg.Difficulty != generator.Medium {
		t.Fatalf("difficulty = %v", sg.Difficulty)
	}
	if sg.Elapsed != 90*time.Second {
		t.Fatalf("elapsed = %v", sg.Elapsed)
	}
	if !bytes.Equal(sg.Payload, payload) {
		t.Fatalf("payload = %q", sg.Payload)
	}
	if sg.SavedAt.IsZero() {
		t.Fatal("saved_at not recorded")
	}

	// A second Put replaces the slot.
	next := []byte(`{"version":1,"id":"x"}`)
	if err := s.Put(1, next, Meta{SessionID: "def", Difficulty: generator.Hard}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	sg, err = s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sg.SessionID != "def" || sg.Difficulty != generator.Hard || !bytes.Equal(sg.Payload, next) {
		t.Fatalf("overwrite lost: %+v", sg)
	}
}

func TestGetEmptySlot(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(2); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("Get empty = %v, want ErrSlotEmpty", err)
	}
}

func TestSlotValidation(t *testing.T) {
	s := newTestStore(t)
	for _, slot := range []int{-1, 4, 99} {
		if err := s.Put(slot, []byte("x"), Meta{}); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Put(%d) = %v, want ErrInvalidSlot", slot, err)
		}
		if _, err := s.Get(slot); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Get(%d) = %v, want ErrInvalidSlot", slot, err)
		}
		if err := s.Delete(slot); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Delete(%d) = %v, want ErrInvalidSlot", slot, err)
		}
	}
	if err := s.Put(1, nil, Meta{}); err == nil {
		t.Fatal("empty payload accepted")
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	saves, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saves) != 0 {
		t.Fatalf("fresh store lists %d saves", len(saves))
	}

	for _, slot := range []int{3, 0, 1} {
		if err := s.Put(slot, []byte("x"), Meta{SessionID: "s", Difficulty: generator.Easy}); err != nil {
			t.Fatalf("Put(%d): %v", slot, err)
		}
	}
	saves, err = s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saves) != 3 {
		t.Fatalf("len = %d, want 3", len(saves))
	}
	for i, want := range []int{0, 1, 3} {
		if saves[i].Slot != want {
			t.Fatalf("slot order %v", []int{saves[0].Slot, saves[1].Slot, saves[2].Slot})
		}
	}
	if saves[0].Payload != nil {
		t.Fatal("List should not load payloads")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put(2, []byte("x"), Meta{Difficulty: generator.Easy}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(2); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("Get after delete = %v", err)
	}
	if err := s.Delete(2); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("double delete = %v, want ErrSlotEmpty", err)
	}
}

func TestRecordWin(t *testing.T) {
	s := newTestStore(t)

	improved, err := s.RecordWin(generator.Medium, 10*time.Minute)
	if err != nil {
		t.Fatalf("RecordWin: %v", err)
	}
	if !improved {
		t.Fatal("first win should set the record")
	}

	improved, err = s.RecordWin(generator.Medium, 12*time.Minute)
	if err != nil {
		t.Fatalf("RecordWin: %v", err)
	}
	if improved {
		t.Fatal("slower win reported as record")
	}

	improved, err = s.RecordWin(generator.Medium, 8*time.Minute)
	if err != nil {
		t.Fatalf("RecordWin: %v", err)
	}
	if !improved {
		t.Fatal("faster win not reported as record")
	}

	best, err := s.BestTimes()
	if err != nil {
		t.Fatalf("BestTimes: %v", err)
	}
	if len(best) != 1 || best[0].Difficulty != generator.Medium || best[0].Elapsed != 8*time.Minute {
		t.Fatalf("best = %+v", best)
	}

	if _, err := s.RecordWin(generator.Easy, -time.Second); err == nil {
		t.Fatal("negative elapsed accepted")
	}
}

func TestBestTimesOrder(t *testing.T) {
	s := newTestStore(t)

	wins := map[generator.Difficulty]time.Duration{
		generator.Insane: 40 * time.Minute,
		generator.Easy:   5 * time.Minute,
		generator.Hard:   25 * time.Minute,
	}
	for d, elapsed := range wins {
		if _, err := s.RecordWin(d, elapsed); err != nil {
			t.Fatalf("RecordWin(%v): %v", d, err)
		}
	}

	best, err := s.BestTimes()
	if err != nil {
		t.Fatalf("BestTimes: %v", err)
	}
	want := []generator.Difficulty{generator.Easy, generator.Hard, generator.Insane}
	if len(best) != len(want) {
		t.Fatalf("len = %d, want %d", len(best), len(want))
	}
	for i, d := range want {
		if best[i].Difficulty != d {
			t.Fatalf("order[%d] = %v, want %v", i, best[i].Difficulty, d)
		}
		if best[i].Elapsed != wins[d] {
			t.Fatalf("%v elapsed = %v, want %v", d, best[i].Elapsed, wins[d])
		}
	}
}

// A full loop through the game layer: encode a live session into the
// autosave slot and bring it back.
func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	puzzle, err := generator.NewSeeded(7).Generate(generator.Easy)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sess := game.NewSession(puzzle, game.Options{})
	payload, err := sess.EncodeSave()
	if err != nil {
		t.Fatalf("EncodeSave: %v", err)
	}
	meta := Meta{SessionID: sess.ID(), Difficulty: sess.Difficulty(), Elapsed: sess.Elapsed()}
	if err := s.Put(AutosaveSlot, payload, meta); err != nil {
		t.Fatalf("Put: %v", err)
	}

	sg, err := s.Get(AutosaveSlot)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	restored, err := game.DecodeSave(sg.Payload, game.Options{})
	if err != nil {
		t.Fatalf("DecodeSave: %v", err)
	}
	if restored.ID() != sess.ID() {
		t.Fatalf("id = %q, want %q", restored.ID(), sess.ID())
	}
	if restored.Grid() != sess.Grid() {
		t.Fatal("restored grid differs from the saved session")
	}
}
