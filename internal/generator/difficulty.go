package generator

import "fmt"

// Difficulty selects how many givens a generated puzzle keeps.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Insane
)

// Difficulties lists all levels in ascending order of hardness.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard, Insane}
}

// TargetClues returns the number of givens the generator aims to keep. The
// carving loop treats this as a floor it tries to reach, not a guarantee.
func (d Difficulty) TargetClues() int {
	switch d {
	case Easy:
		return 36
	case Medium:
		return 32
	case Hard:
		return 28
	case Insane:
		return 24
	}
	return 36
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Insane:
		return "insane"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty maps a level name to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "insane":
		return Insane, nil
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText lets Difficulty travel through JSON as its name.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
