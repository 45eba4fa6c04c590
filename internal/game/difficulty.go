package game

import (
	"fmt"
	"strings"
)

// Difficulty is a named board configuration.
type Difficulty struct {
	Key   string `json:"key"`
	Size  int    `json:"size"`
	Mines int    `json:"mines"`
}

// CustomKey names difficulties built with Custom.
const CustomKey = "custom"

var (
	Easy   = Difficulty{Key: "easy", Size: 10, Mines: 10}
	Medium = Difficulty{Key: "medium", Size: 15, Mines: 20}
	Hard   = Difficulty{Key: "hard", Size: 20, Mines: 30}
	Insane = Difficulty{Key: "insane", Size: 25, Mines: 50}
)

var presets = []Difficulty{Easy, Medium, Hard, Insane}

// Difficulties returns the fixed presets, easiest first.
func Difficulties() []Difficulty {
	return append([]Difficulty(nil), presets...)
}

// ParseDifficulty looks up a preset by key (case-insensitive).
func ParseDifficulty(key string) (Difficulty, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, d := range presets {
		if d.Key == k {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, key)
}

// Custom builds a validated non-preset difficulty.
func Custom(size, mines int) (Difficulty, error) {
	if err := validate(size, mines); err != nil {
		return Difficulty{}, err
	}
	return Difficulty{Key: CustomKey, Size: size, Mines: mines}, nil
}

// Validate checks the size/mine pair.
func (d Difficulty) Validate() error { return validate(d.Size, d.Mines) }
