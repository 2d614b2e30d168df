package grid

import (
	"errors"
	"testing"
)

func TestCheckBounds(t *testing.T) {
	cases := []struct {
		name     string
		row, col int
		wantErr  bool
	}{
		{"origin", 0, 0, false},
		{"last", 8, 8, false},
		{"middle", 4, 7, false},
		{"row negative", -1, 0, true},
		{"row high", 9, 0, true},
		{"col negative", 0, -1, true},
		{"col high", 0, 9, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBounds(tc.row, tc.col)
			if (err != nil) != tc.wantErr {
				t.Fatalf("CheckBounds(%d, %d) = %v, want error %v", tc.row, tc.col, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCell) {
				t.Fatalf("error %v should wrap ErrInvalidCell", err)
			}
		})
	}
}

func TestBoxOf(t *testing.T) {
	cases := []struct {
		row, col, want int
	}{
		{0, 0, 0}, {0, 8, 2}, {4, 4, 4}, {8, 0, 6}, {8, 8, 8}, {5, 3, 4}, {6, 2, 6},
	}
	for _, tc := range cases {
		if got := BoxOf(tc.row, tc.col); got != tc.want {
			t.Errorf("BoxOf(%d, %d) = %d, want %d", tc.row, tc.col, got, tc.want)
		}
	}
	for b := 0; b < Size; b++ {
		r, c := BoxOrigin(b)
		if BoxOf(r, c) != b {
			t.Errorf("BoxOrigin(%d) = (%d, %d), not in box %d", b, r, c, BoxOf(r, c))
		}
	}
}

func TestSetValueClearsNotes(t *testing.T) {
	g := New()
	g.Cells[3][4].Notes = NotesOf(1, 5, 9)

	if err := g.SetValue(3, 4, 7); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if g.Cells[3][4].Value != 7 {
		t.Fatalf("value = %d, want 7", g.Cells[3][4].Value)
	}
	if g.Cells[3][4].Notes != 0 {
		t.Fatalf("notes not cleared: %v", g.Cells[3][4].Notes.Digits())
	}

	// Clearing a value keeps whatever notes are present.
	g.Cells[3][4].Notes = NotesOf(2)
	if err := g.SetValue(3, 4, 0); err != nil {
		t.Fatalf("SetValue(0): %v", err)
	}
	if !g.Cells[3][4].Notes.Has(2) {
		t.Fatal("notes lost on clear")
	}
}

func TestSetValueRejectsBadInput(t *testing.T) {
	g := New()
	if err := g.SetValue(9, 0, 1); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("out-of-range cell: got %v", err)
	}
	if err := g.SetValue(0, 0, 10); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("out-of-range value: got %v", err)
	}
	if err := g.SetValue(0, 0, -1); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("negative value: got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	g.SetValue(0, 0, 5)
	dup := g.Clone()
	dup.SetValue(0, 0, 9)
	if g.Cells[0][0].Value != 5 {
		t.Fatalf("clone mutation leaked into original: %d", g.Cells[0][0].Value)
	}
}

func TestValueRowsRoundTrip(t *testing.T) {
	g := New()
	g.SetValue(0, 0, 1)
	g.SetValue(8, 8, 9)
	g.SetValue(4, 2, 3)

	rows := g.ValueRows()
	back, err := FromValueRows(rows)
	if err != nil {
		t.Fatalf("FromValueRows: %v", err)
	}
	if !g.ValuesEqual(&back) {
		t.Fatal("round trip changed values")
	}

	// Mutating the returned slice must not touch the grid.
	rows[0][0] = 7
	if g.Cells[0][0].Value != 1 {
		t.Fatal("ValueRows aliases grid storage")
	}
}

func TestFromValueRowsRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		rows [][]int
	}{
		{"too few rows", make([][]int, 8)},
		{"short row", func() [][]int {
			rows := make([][]int, Size)
			for i := range rows {
				rows[i] = make([]int, Size)
			}
			rows[4] = rows[4][:8]
			return rows
		}()},
		{"bad digit", func() [][]int {
			rows := make([][]int, Size)
			for i := range rows {
				rows[i] = make([]int, Size)
			}
			rows[2][3] = 11
			return rows
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromValueRows(tc.rows); !errors.Is(err, ErrInvalidCell) {
				t.Fatalf("got %v, want ErrInvalidCell", err)
			}
		})
	}
}

func TestNotes(t *testing.T) {
	var n Notes
	n.Add(1)
	n.Add(9)
	n.Add(9)
	if got := n.Digits(); len(got) != 2 || got[0] != 1 || got[1] != 9 {
		t.Fatalf("Digits() = %v, want [1 9]", got)
	}
	if n.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", n.Count())
	}

	if on := n.Toggle(5); !on {
		t.Fatal("Toggle(5) should turn the digit on")
	}
	if on := n.Toggle(5); on {
		t.Fatal("second Toggle(5) should turn the digit off")
	}

	n.Remove(1)
	if n.Has(1) {
		t.Fatal("Remove(1) left the digit set")
	}

	// Out-of-range digits are ignored everywhere.
	n.Add(0)
	n.Add(10)
	if n.Has(0) || n.Has(10) {
		t.Fatal("out-of-range digits must not be stored")
	}
	if n.Toggle(12) {
		t.Fatal("Toggle out of range reported presence")
	}
}

func TestStringRender(t *testing.T) {
	g := New()
	g.SetValue(0, 0, 1)
	g.SetValue(0, 8, 2)
	s := g.String()
	want := "1.......2"
	if len(s) < len(want) || s[:9] != want {
		t.Fatalf("first row = %q, want %q", s[:9], want)
	}
}
