package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/conorfennell/woordquiz/internal/domain"
)

// ErrNoEntries is returned when the configured sources yield no usable entry.
var ErrNoEntries = errors.New("catalog has no entries")

//go:embed words.txt
var defaultWords string

// Catalog is an ordered, read-only list of vocabulary entries.
type Catalog struct {
	entries []domain.VocabularyEntry
}

// New builds a catalog from entries, keeping their order.
func New(entries []domain.VocabularyEntry) *Catalog {
	c := &Catalog{entries: make([]domain.VocabularyEntry, len(entries))}
	copy(c.entries, entries)
	return c
}

// Default returns the built-in word list.
func Default() *Catalog {
	entries, err := ParseString(defaultWords)
	if err != nil {
		panic(fmt.Sprintf("built-in word list is broken: %v", err))
	}
	return New(entries)
}

func (c *Catalog) Entries() []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Filter returns the entries matching f in catalog order.
func (c *Catalog) Filter(f domain.Filter) []domain.VocabularyEntry {
	var out []domain.VocabularyEntry
	for _, e := range c.entries {
		if f.Matches(e.Difficulty) {
			out = append(out, e)
		}
	}
	return out
}

// Answers returns the answer-language word of every entry for mode m.
func (c *Catalog) Answers(m domain.Mode) []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = m.Answer(e)
	}
	return out
}

// Merge concatenates entry lists in order and drops later duplicates.
func Merge(lists ...[]domain.VocabularyEntry) *Catalog {
	seen := make(map[string]bool)
	var merged []domain.VocabularyEntry
	for _, list := range lists {
		for _, e := range list {
			h := Hash(e)
			if seen[h] {
				continue
			}
			seen[h] = true
			merged = append(merged, e)
		}
	}
	return &Catalog{entries: merged}
}
