package grid

import "math/bits"

// Notes is a set of pencil-marked candidate digits 1..9, one bit per digit.
type Notes uint16

// NotesOf builds a set from the given digits. Out-of-range digits are
// ignored.
func NotesOf(digits ...int) Notes {
	var n Notes
	for _, d := range digits {
		n.Add(d)
	}
	return n
}

func (n Notes) Has(digit int) bool {
	if digit < 1 || digit > Size {
		return false
	}
	return n&(1<<uint(digit)) != 0
}

func (n *Notes) Add(digit int) {
	if digit < 1 || digit > Size {
		return
	}
	*n |= 1 << uint(digit)
}

func (n *Notes) Remove(digit int) {
	if digit < 1 || digit > Size {
		return
	}
	*n &^= 1 << uint(digit)
}

// Toggle flips one digit and reports whether it is present afterwards.
func (n *Notes) Toggle(digit int) bool {
	if digit < 1 || digit > Size {
		return false
	}
	*n ^= 1 << uint(digit)
	return n.Has(digit)
}

// Count returns the number of marked digits.
func (n Notes) Count() int {
	return bits.OnesCount16(uint16(n))
}

// Digits lists the marked digits in ascending order.
func (n Notes) Digits() []int {
	if n == 0 {
		return nil
	}
	out := make([]int, 0, n.Count())
	for d := 1; d <= Size; d++ {
		if n.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
