package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/conorfennell/woordquiz/internal/domain"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedEntries []domain.VocabularyEntry
		invalidLines    []int
	}{
		{
			name:            "Single entry",
			input:           "NL: huis\nEN: house\nLEVEL: medium",
			expectedEntries: []domain.VocabularyEntry{{Dutch: "huis", English: "house", Difficulty: domain.Medium}},
		},
		{
			name:            "Level defaults to easy",
			input:           "NL: kat\nEN: cat",
			expectedEntries: []domain.VocabularyEntry{{Dutch: "kat", English: "cat", Difficulty: domain.Easy}},
		},
		{
			name:            "Prefixes with no space",
			input:           "NL:hond\nEN:dog\nLEVEL:HARD",
			expectedEntries: []domain.VocabularyEntry{{Dutch: "hond", English: "dog", Difficulty: domain.Hard}},
		},
		{
			name: "Blank line and separator end entries",
			input: `
# animals
NL: kat
EN: cat

NL: hond
EN: dog
---
NL: vis
EN: fish
`,
			expectedEntries: []domain.VocabularyEntry{
				{Dutch: "kat", English: "cat", Difficulty: domain.Easy},
				{Dutch: "hond", English: "dog", Difficulty: domain.Easy},
				{Dutch: "vis", English: "fish", Difficulty: domain.Easy},
			},
		},
		{
			name:  "A second NL line starts a new entry",
			input: "NL: kat\nEN: cat\nNL: hond\nEN: dog",
			expectedEntries: []domain.VocabularyEntry{
				{Dutch: "kat", English: "cat", Difficulty: domain.Easy},
				{Dutch: "hond", English: "dog", Difficulty: domain.Easy},
			},
		},
		{
			name:            "English before Dutch",
			input:           "EN: house\nNL: huis",
			expectedEntries: []domain.VocabularyEntry{{Dutch: "huis", English: "house", Difficulty: domain.Easy}},
		},
		{
			name: "Invalid entries are reported by line",
			input: `NL: kat
EN: cat

NL: hond

NL: vis
EN: fish
LEVEL: impossible

NL: boom
EN: tree`,
			expectedEntries: []domain.VocabularyEntry{
				{Dutch: "kat", English: "cat", Difficulty: domain.Easy},
				{Dutch: "boom", English: "tree", Difficulty: domain.Easy},
			},
			invalidLines: []int{4, 6},
		},
		{
			name:         "Stray text",
			input:        "This is a file with no words.",
			invalidLines: []int{1},
		},
		{
			name:  "Empty input",
			input: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := ParseString(tc.input)

			if len(tc.invalidLines) == 0 {
				if err != nil {
					t.Fatalf("Parse() returned an unexpected error: %v", err)
				}
			} else {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("Expected a *ParseError, but got %v", err)
				}
				if !reflect.DeepEqual(parseErr.InvalidLines, tc.invalidLines) {
					t.Errorf("Expected invalid lines %v, but got %v", tc.invalidLines, parseErr.InvalidLines)
				}
			}

			if len(entries) != len(tc.expectedEntries) {
				t.Fatalf("Expected %d entries, but got %d", len(tc.expectedEntries), len(entries))
			}
			for i, want := range tc.expectedEntries {
				if entries[i] != want {
					t.Errorf("Expected entry %d to be %+v, but got %+v", i, want, entries[i])
				}
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{InvalidLines: []int{3, 9}}
	if err.Error() != "invalid entries at lines 3, 9" {
		t.Errorf("Unexpected message '%s'", err.Error())
	}
}
