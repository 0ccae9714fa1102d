package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/conorfennell/woordquiz/internal/catalog"
	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/narrator"
	"github.com/conorfennell/woordquiz/internal/quiz"
)

var (
	ErrEmptyUsername    = errors.New("username must not be empty")
	ErrInvalidSelection = errors.New("invalid selection")
)

// HistoryStore persists the username and finished sessions.
type HistoryStore interface {
	quiz.Appender
	Username(ctx context.Context) (string, bool)
	SetUsername(ctx context.Context, name string) error
	Records(ctx context.Context, username string) []domain.HistoryRecord
}

type Settings struct {
	QuestionCount int
	Difficulty    domain.Filter
	Distractors   int
}

type Deps struct {
	Catalog  *catalog.Catalog
	Store    HistoryStore
	Narrator narrator.Narrator
	Logger   *slog.Logger
	Rand     *rand.Rand
	Now      func() time.Time
}

// Feedback describes the answer just given to the current question.
type Feedback struct {
	Correct       bool
	Selected      string
	CorrectAnswer string
}

func (f Feedback) Message() string {
	if f.Correct {
		return "Correct!"
	}
	return fmt.Sprintf("Incorrect! (Correct: %s)", f.CorrectAnswer)
}

// Controller owns the current screen and the single active quiz session.
// Ticks and delayed advances carry the epoch they were scheduled in; every
// quiz start and every exit from the quiz bumps the epoch, so callbacks
// from an earlier session are ignored.
//
// A Controller is driven from one goroutine.
type Controller struct {
	catalog  *catalog.Catalog
	store    HistoryStore
	narrator narrator.Narrator
	log      *slog.Logger
	rng      *rand.Rand
	now      func() time.Time

	screen   Screen
	username string
	settings Settings
	mode     domain.Mode

	session        *quiz.Session
	options        []string
	feedback       *Feedback
	pendingAdvance bool
	lastRecord     *domain.HistoryRecord
	epoch          uint64
}

// New starts on Setup when a username is remembered, otherwise on Identity.
func New(ctx context.Context, deps Deps, settings Settings) *Controller {
	c := &Controller{
		catalog:  deps.Catalog,
		store:    deps.Store,
		narrator: deps.Narrator,
		log:      deps.Logger,
		rng:      deps.Rand,
		now:      deps.Now,
		screen:   Identity,
		settings: settings,
		mode:     domain.DutchToEnglish,
	}
	if c.narrator == nil {
		c.narrator = narrator.Nop{}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.settings.Distractors <= 0 {
		c.settings.Distractors = quiz.DefaultDistractors
	}

	if name, ok := c.store.Username(ctx); ok {
		c.username = name
		c.screen = Setup
	}
	return c
}

func (c *Controller) Screen() Screen            { return c.screen }
func (c *Controller) Username() string          { return c.username }
func (c *Controller) Settings() Settings        { return c.settings }
func (c *Controller) Mode() domain.Mode         { return c.mode }
func (c *Controller) Epoch() uint64             { return c.epoch }
func (c *Controller) Session() *quiz.Session    { return c.session }
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Options are the choices for the current question, nil when there is none.
func (c *Controller) Options() []string {
	return slices.Clone(c.options)
}

// Feedback returns the answer given to the current question, if any.
func (c *Controller) Feedback() (Feedback, bool) {
	if c.feedback == nil {
		return Feedback{}, false
	}
	return *c.feedback, true
}

// LastRecord is the summary shown on the Result screen.
func (c *Controller) LastRecord() (domain.HistoryRecord, bool) {
	if c.lastRecord == nil {
		return domain.HistoryRecord{}, false
	}
	return *c.lastRecord, true
}

// InputEnabled reports whether an answer would be accepted now.
func (c *Controller) InputEnabled() bool {
	return c.screen == Quiz && c.session != nil && !c.session.Terminal() && !c.session.Answered()
}

// Records returns the current user's history.
func (c *Controller) Records(ctx context.Context) []domain.HistoryRecord {
	return c.store.Records(ctx, c.username)
}

func (c *Controller) transition(a Action) error {
	next, err := Next(c.screen, a)
	if err != nil {
		return err
	}
	if c.screen == Quiz && next != Quiz {
		c.epoch++
		c.pendingAdvance = false
		c.narrator.Cancel()
	}
	c.log.Debug("screen transition", "from", c.screen, "action", a, "to", next)
	c.screen = next
	return nil
}

func (c *Controller) allowed(a Action) error {
	_, err := Next(c.screen, a)
	return err
}

// SubmitUsername stores a non-empty name and moves on to Setup. A failed
// write is logged; the name still applies to this run.
func (c *Controller) SubmitUsername(ctx context.Context, name string) error {
	if err := c.allowed(SetUsername); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyUsername
	}
	if err := c.store.SetUsername(ctx, name); err != nil {
		c.log.WarnContext(ctx, "failed to remember username", "error", err)
	}
	c.username = name
	return c.transition(SetUsername)
}

func (c *Controller) SelectCount(n int) error {
	if c.screen != Setup {
		return fmt.Errorf("%w: select count on %s", ErrInvalidTransition, c.screen)
	}
	if !slices.Contains(domain.QuestionCounts, n) {
		return fmt.Errorf("%w: question count %d", ErrInvalidSelection, n)
	}
	c.settings.QuestionCount = n
	return nil
}

func (c *Controller) SelectDifficulty(f domain.Filter) error {
	if c.screen != Setup {
		return fmt.Errorf("%w: select difficulty on %s", ErrInvalidTransition, c.screen)
	}
	if !slices.Contains(domain.Filters, f) {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidSelection, f)
	}
	c.settings.Difficulty = f
	return nil
}

// SelectMode picks the direction and starts a fresh quiz.
func (c *Controller) SelectMode(ctx context.Context, m domain.Mode) error {
	if m != domain.DutchToEnglish && m != domain.EnglishToDutch {
		return fmt.Errorf("%w: mode %q", ErrInvalidSelection, m)
	}
	if err := c.transition(StartQuiz); err != nil {
		return err
	}
	c.mode = m
	c.startSession(ctx)
	return nil
}

func (c *Controller) ShowHistory() error { return c.transition(ShowHistory) }
func (c *Controller) Back() error        { return c.transition(Back) }
func (c *Controller) Home() error        { return c.transition(Home) }

// Quit abandons the running quiz. Nothing is recorded.
func (c *Controller) Quit() error {
	if err := c.transition(Quit); err != nil {
		return err
	}
	c.log.Info("quiz abandoned", "session", c.session.ID)
	return nil
}

func (c *Controller) startSession(ctx context.Context) {
	c.session = quiz.BuildSession(c.catalog, c.settings.Difficulty, c.mode, c.settings.QuestionCount, c.rng)
	c.epoch++
	c.feedback = nil
	c.pendingAdvance = false
	c.lastRecord = nil

	c.log.InfoContext(ctx, "quiz started",
		"session", c.session.ID,
		"user", c.username,
		"mode", c.mode,
		"difficulty", c.settings.Difficulty,
		"requested", c.settings.QuestionCount,
		"questions", c.session.Len(),
	)
	c.prepareQuestion(ctx)
}

func (c *Controller) prepareQuestion(ctx context.Context) {
	q, ok := c.session.CurrentQuestion()
	if !ok {
		c.options = nil
		return
	}
	c.options = quiz.BuildOptions(q.CorrectAnswer, c.catalog, c.mode, c.settings.Distractors, c.rng)
	c.narrator.Speak(ctx, q.Prompt, c.mode.PromptLanguage())
}

// Answer scores option for the current question and speaks it in the answer
// language. The caller schedules AdvanceDue once the feedback has been shown.
func (c *Controller) Answer(ctx context.Context, option string) (Feedback, error) {
	if c.screen != Quiz || c.session == nil {
		return Feedback{}, quiz.ErrInvalidState
	}
	q, ok := c.session.CurrentQuestion()
	if !ok {
		return Feedback{}, quiz.ErrInvalidState
	}
	if !c.session.Answered() && !slices.Contains(c.options, option) {
		return Feedback{}, fmt.Errorf("%w: option %q", ErrInvalidSelection, option)
	}

	correct, err := c.session.SubmitAnswer(option)
	if err != nil {
		return Feedback{}, err
	}
	c.feedback = &Feedback{Correct: correct, Selected: option, CorrectAnswer: q.CorrectAnswer}
	c.pendingAdvance = true
	c.narrator.Speak(ctx, option, c.mode.AnswerLanguage())
	return *c.feedback, nil
}

// Tick adds a second to the running session. It returns false, and the
// caller stops scheduling ticks, once the epoch is stale or the session is over.
func (c *Controller) Tick(epoch uint64) bool {
	if epoch != c.epoch || c.screen != Quiz || c.session == nil || c.session.Terminal() {
		return false
	}
	c.session.Tick()
	return true
}

// AdvanceDue moves to the next question after the feedback delay. Stale
// epochs are ignored. After the last question the session is finalized and
// the controller moves to Result.
func (c *Controller) AdvanceDue(ctx context.Context, epoch uint64) error {
	if epoch != c.epoch || c.screen != Quiz || !c.pendingAdvance {
		return nil
	}
	c.pendingAdvance = false

	done, err := c.session.Advance()
	if err != nil {
		return err
	}
	c.feedback = nil
	if !done {
		c.prepareQuestion(ctx)
		return nil
	}

	c.options = nil
	record, err := quiz.Finalize(ctx, c.session, c.username, c.store, c.now())
	if err != nil {
		c.log.ErrorContext(ctx, "failed to save quiz result", "session", c.session.ID, "error", err)
	}
	c.lastRecord = &record
	c.log.InfoContext(ctx, "quiz completed",
		"session", c.session.ID,
		"user", c.username,
		"correct", record.Correct,
		"wrong", record.Wrong,
		"accuracy", record.Accuracy,
		"time", record.Time,
	)
	return c.transition(Complete)
}
