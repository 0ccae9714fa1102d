package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/woordquiz/internal/domain"
)

const (
	dutchPrefix   = "NL:"
	englishPrefix = "EN:"
	levelPrefix   = "LEVEL:"
	commentPrefix = "#"
	separator     = "---"
)

// ParseError lists the line numbers of entries that could not be read.
// The entries around them are still returned by Parse.
type ParseError struct {
	InvalidLines []int
}

func (e *ParseError) Error() string {
	lines := make([]string, len(e.InvalidLines))
	for i, n := range e.InvalidLines {
		lines[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("invalid entries at lines %s", strings.Join(lines, ", "))
}

type pending struct {
	line    int
	dutch   string
	english string
	level   string
	invalid bool
}

func (p *pending) empty() bool {
	return p.line == 0
}

func (p *pending) entry() (domain.VocabularyEntry, bool) {
	if p.invalid || p.dutch == "" || p.english == "" {
		return domain.VocabularyEntry{}, false
	}
	difficulty := domain.Easy
	if p.level != "" {
		d, err := domain.ParseDifficulty(p.level)
		if err != nil {
			return domain.VocabularyEntry{}, false
		}
		difficulty = d
	}
	return domain.VocabularyEntry{Dutch: p.dutch, English: p.english, Difficulty: difficulty}, true
}

// ParseFile reads a word-list file from the given path.
func ParseFile(path string) ([]domain.VocabularyEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

func ParseString(s string) ([]domain.VocabularyEntry, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads word-list blocks from r. Valid entries are always returned;
// when some blocks are malformed the error is a *ParseError.
func Parse(r io.Reader) ([]domain.VocabularyEntry, error) {
	scanner := bufio.NewScanner(r)
	var entries []domain.VocabularyEntry
	var invalid []int
	var current pending
	lineNo := 0

	finishEntry := func() {
		if current.empty() {
			return
		}
		if e, ok := current.entry(); ok {
			entries = append(entries, e)
		} else {
			invalid = append(invalid, current.line)
		}
		current = pending{}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, commentPrefix):
			continue
		case line == "" || line == separator:
			finishEntry()
		case strings.HasPrefix(line, dutchPrefix):
			if current.dutch != "" || current.invalid {
				finishEntry()
			}
			if current.empty() {
				current.line = lineNo
			}
			current.dutch = fieldValue(line, dutchPrefix)
		case strings.HasPrefix(line, englishPrefix):
			if current.empty() {
				current.line = lineNo
			}
			current.english = fieldValue(line, englishPrefix)
		case strings.HasPrefix(line, levelPrefix):
			if current.empty() {
				current.line = lineNo
			}
			current.level = fieldValue(line, levelPrefix)
		default:
			if current.empty() {
				current.line = lineNo
			}
			current.invalid = true
		}
	}

	finishEntry()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(invalid) > 0 {
		return entries, &ParseError{InvalidLines: invalid}
	}
	return entries, nil
}

func fieldValue(line, prefix string) string {
	return strings.TrimSpace(line[len(prefix):])
}
