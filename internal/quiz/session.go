package quiz

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/conorfennell/woordquiz/internal/catalog"
	"github.com/conorfennell/woordquiz/internal/domain"
)

var (
	// ErrInvalidState is returned when there is no active question.
	ErrInvalidState = errors.New("no active question")
	// ErrAlreadyAnswered is returned for a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing past an unanswered question.
	ErrNotAnswered = errors.New("current question has not been answered")
)

// DefaultDistractors is the number of wrong options shown next to the answer.
const DefaultDistractors = 3

type Question struct {
	Prompt        string
	CorrectAnswer string
}

type Score struct {
	Correct int
	Wrong   int
}

// Session is one run of questions. It is owned by a single caller and is
// not safe for concurrent use.
type Session struct {
	ID             string
	Mode           domain.Mode
	Filter         domain.Filter
	RequestedCount int

	questions      []domain.VocabularyEntry
	currentIndex   int
	answers        []string
	score          Score
	elapsedSeconds int
}

// BuildSession draws min(count, matching entries) questions from the catalog
// in random order without replacement.
func BuildSession(c *catalog.Catalog, filter domain.Filter, mode domain.Mode, count int, rng *rand.Rand) *Session {
	filtered := c.Filter(filter)
	rng.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if count < len(filtered) {
		filtered = filtered[:max(count, 0)]
	}

	return &Session{
		ID:             uuid.NewString(),
		Mode:           mode,
		Filter:         filter,
		RequestedCount: count,
		questions:      filtered,
	}
}

func (s *Session) Len() int {
	return len(s.questions)
}

// Empty reports a session built from a filter that matched nothing.
func (s *Session) Empty() bool {
	return len(s.questions) == 0
}

func (s *Session) CurrentIndex() int {
	return s.currentIndex
}

// Terminal reports whether every question has been passed.
func (s *Session) Terminal() bool {
	return s.currentIndex >= len(s.questions)
}

// Answered reports whether the current question already has an answer.
func (s *Session) Answered() bool {
	return len(s.answers) > s.currentIndex
}

func (s *Session) Score() Score {
	return s.score
}

func (s *Session) ElapsedSeconds() int {
	return s.elapsedSeconds
}

func (s *Session) Answers() []string {
	out := make([]string, len(s.answers))
	copy(out, s.answers)
	return out
}

func (s *Session) Questions() []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, len(s.questions))
	copy(out, s.questions)
	return out
}

// CurrentQuestion returns false once the session is terminal.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Terminal() {
		return Question{}, false
	}
	e := s.questions[s.currentIndex]
	return Question{Prompt: s.Mode.Prompt(e), CorrectAnswer: s.Mode.Answer(e)}, true
}

// SubmitAnswer records option for the current question and updates the score.
// It does not advance.
func (s *Session) SubmitAnswer(option string) (bool, error) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return false, ErrInvalidState
	}
	if s.Answered() {
		return false, ErrAlreadyAnswered
	}

	s.answers = append(s.answers, option)
	correct := option == q.CorrectAnswer
	if correct {
		s.score.Correct++
	} else {
		s.score.Wrong++
	}
	return correct, nil
}

// Advance moves past the answered current question and reports whether the
// session is now terminal.
func (s *Session) Advance() (bool, error) {
	if s.Terminal() {
		return true, ErrInvalidState
	}
	if !s.Answered() {
		return false, ErrNotAnswered
	}
	s.currentIndex++
	return s.Terminal(), nil
}

// Tick adds one second while the session is running.
func (s *Session) Tick() {
	if !s.Terminal() {
		s.elapsedSeconds++
	}
}

// BuildOptions returns the correct answer plus up to distractors distinct
// wrong answers from the catalog, in random order.
func BuildOptions(correct string, c *catalog.Catalog, mode domain.Mode, distractors int, rng *rand.Rand) []string {
	seen := map[string]bool{correct: true}
	var pool []string
	for _, a := range c.Answers(mode) {
		if seen[a] {
			continue
		}
		seen[a] = true
		pool = append(pool, a)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	n := min(max(distractors, 0), len(pool))

	options := append(pool[:n:n], correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
