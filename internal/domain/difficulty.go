package domain

import "fmt"

// Difficulty buckets both questions and statistics into one of four
// fixed skill categories.
type Difficulty string

const (
	Beginner        Difficulty = "beginner"
	Medium          Difficulty = "medium"
	Advanced        Difficulty = "advanced"
	HumanCalculator Difficulty = "human_calculator"
)

// Difficulties lists every valid bucket in display order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Medium, Advanced, HumanCalculator}
}

// ParseDifficulty validates a raw string from the outside world.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case Beginner, Medium, Advanced, HumanCalculator:
		return Difficulty(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
}

func (d Difficulty) String() string {
	return string(d)
}
