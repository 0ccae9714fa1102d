package domain

import (
	"fmt"
	"strings"
)

// Difficulty tags a vocabulary entry.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts a difficulty name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Filter selects catalog entries by difficulty. FilterAll matches every entry.
type Filter string

const (
	FilterEasy   Filter = "easy"
	FilterMedium Filter = "medium"
	FilterHard   Filter = "hard"
	FilterAll    Filter = "all"
)

// Filters lists the filters in the order the setup screen offers them.
var Filters = []Filter{FilterEasy, FilterMedium, FilterHard, FilterAll}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterEasy, FilterMedium, FilterHard, FilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown difficulty filter %q", s)
	}
}

// Matches reports whether an entry of difficulty d passes the filter.
func (f Filter) Matches(d Difficulty) bool {
	return f == FilterAll || string(f) == string(d)
}

// Label is the capitalised name shown on screen.
func (f Filter) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// QuestionCounts are the session lengths a player can choose from.
var QuestionCounts = []int{10, 20, 30, 50}

// VocabularyEntry is one word pair of the catalog. It is never mutated.
type VocabularyEntry struct {
	Dutch      string
	English    string
	Difficulty Difficulty
}
