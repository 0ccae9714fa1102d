package flow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/woordquiz/internal/catalog"
	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/history"
	"github.com/conorfennell/woordquiz/internal/quiz"
	"github.com/conorfennell/woordquiz/internal/storage"
)

type utterance struct {
	text string
	lang string
}

type recordingNarrator struct {
	mu      sync.Mutex
	spoken  []utterance
	cancels int
}

func (r *recordingNarrator) Speak(_ context.Context, text, lang string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, utterance{text, lang})
	done := make(chan struct{})
	close(done)
	return done
}

func (r *recordingNarrator) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

func (r *recordingNarrator) last() utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spoken[len(r.spoken)-1]
}

type fixture struct {
	ctx      context.Context
	kv       *storage.Memory
	store    *history.Store
	narrator *recordingNarrator
	now      time.Time
}

func newFixture() *fixture {
	kv := storage.NewMemory()
	return &fixture{
		ctx:      context.Background(),
		kv:       kv,
		store:    history.New(kv, slog.New(slog.DiscardHandler)),
		narrator: &recordingNarrator{},
		now:      time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local),
	}
}

func (f *fixture) controller(c *catalog.Catalog, settings Settings) *Controller {
	return New(f.ctx, Deps{
		Catalog:  c,
		Store:    f.store,
		Narrator: f.narrator,
		Logger:   slog.New(slog.DiscardHandler),
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Now:      func() time.Time { return f.now },
	}, settings)
}

func easyCatalog(n int) *catalog.Catalog {
	var entries []domain.VocabularyEntry
	for i := range n {
		entries = append(entries, domain.VocabularyEntry{
			Dutch:      fmt.Sprintf("nl-%d", i),
			English:    fmt.Sprintf("en-%d", i),
			Difficulty: domain.Easy,
		})
	}
	return catalog.New(entries)
}

var defaultSettings = Settings{QuestionCount: 10, Difficulty: domain.FilterAll, Distractors: 3}

// answerAll plays the running quiz, answering the first `correct` questions right.
func answerAll(t *testing.T, c *Controller, ctx context.Context, correct int) {
	t.Helper()
	for i := 0; c.Screen() == Quiz; i++ {
		q, ok := c.Session().CurrentQuestion()
		require.True(t, ok)
		option := q.CorrectAnswer
		if i >= correct {
			for _, o := range c.Options() {
				if o != q.CorrectAnswer {
					option = o
					break
				}
			}
		}
		_, err := c.Answer(ctx, option)
		require.NoError(t, err)
		require.NoError(t, c.AdvanceDue(ctx, c.Epoch()))
	}
}

func TestInitialScreen(t *testing.T) {
	f := newFixture()
	c := f.controller(easyCatalog(5), defaultSettings)
	assert.Equal(t, Identity, c.Screen())

	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c = f.controller(easyCatalog(5), defaultSettings)
	assert.Equal(t, Setup, c.Screen())
	assert.Equal(t, "alice", c.Username())
}

func TestSubmitUsername(t *testing.T) {
	f := newFixture()
	c := f.controller(easyCatalog(5), defaultSettings)

	assert.ErrorIs(t, c.SubmitUsername(f.ctx, "   "), ErrEmptyUsername)
	assert.Equal(t, Identity, c.Screen())

	require.NoError(t, c.SubmitUsername(f.ctx, "  alice "))
	assert.Equal(t, Setup, c.Screen())
	assert.Equal(t, "alice", c.Username())

	stored, ok := f.store.Username(f.ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", stored)

	assert.ErrorIs(t, c.SubmitUsername(f.ctx, "bob"), ErrInvalidTransition)
}

func TestSetupSelections(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(5), defaultSettings)

	require.NoError(t, c.SelectCount(30))
	assert.Equal(t, 30, c.Settings().QuestionCount)
	assert.ErrorIs(t, c.SelectCount(15), ErrInvalidSelection)

	require.NoError(t, c.SelectDifficulty(domain.FilterHard))
	assert.Equal(t, domain.FilterHard, c.Settings().Difficulty)
	assert.ErrorIs(t, c.SelectDifficulty("impossible"), ErrInvalidSelection)

	assert.ErrorIs(t, c.SelectMode(f.ctx, "dutch-to-german"), ErrInvalidSelection)
	assert.Equal(t, Setup, c.Screen())
}

func TestFullQuiz(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(12), defaultSettings)

	require.NoError(t, c.SelectMode(f.ctx, domain.EnglishToDutch))
	require.Equal(t, Quiz, c.Screen())
	assert.Equal(t, 10, c.Session().Len())
	assert.Len(t, c.Options(), 4)

	q, _ := c.Session().CurrentQuestion()
	assert.Equal(t, utterance{q.Prompt, domain.LangEnglish}, f.narrator.last(), "prompt is spoken in the prompt language")

	epoch := c.Epoch()
	for range 65 {
		require.True(t, c.Tick(epoch))
	}

	answerAll(t, c, f.ctx, 7)

	assert.Equal(t, Result, c.Screen())
	record, ok := c.LastRecord()
	require.True(t, ok)
	assert.Equal(t, domain.HistoryRecord{
		Date:          "3/5/2024, 2:07:09 PM",
		Mode:          domain.EnglishToDutch,
		Difficulty:    domain.FilterAll,
		QuestionCount: 10,
		Correct:       7,
		Wrong:         3,
		Accuracy:      "70.00",
		Time:          "01:05",
	}, record)
	assert.Equal(t, []domain.HistoryRecord{record}, c.Records(f.ctx))

	assert.False(t, c.Tick(epoch), "ticks stop once the quiz is over")
	assert.GreaterOrEqual(t, f.narrator.cancels, 1)

	require.NoError(t, c.Home())
	assert.Equal(t, Setup, c.Screen())
}

func TestAnswerFeedbackAndNarration(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))

	q, _ := c.Session().CurrentQuestion()
	var wrong string
	for _, o := range c.Options() {
		if o != q.CorrectAnswer {
			wrong = o
			break
		}
	}

	fb, err := c.Answer(f.ctx, wrong)
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, "Incorrect! (Correct: "+q.CorrectAnswer+")", fb.Message())
	assert.Equal(t, utterance{wrong, domain.LangEnglish}, f.narrator.last())
	assert.False(t, c.InputEnabled())

	_, err = c.Answer(f.ctx, q.CorrectAnswer)
	assert.ErrorIs(t, err, quiz.ErrAlreadyAnswered)
	assert.Len(t, c.Session().Answers(), 1)

	got, ok := c.Feedback()
	require.True(t, ok)
	assert.Equal(t, fb, got)

	require.NoError(t, c.AdvanceDue(f.ctx, c.Epoch()))
	_, ok = c.Feedback()
	assert.False(t, ok)
	assert.True(t, c.InputEnabled())

	q, _ = c.Session().CurrentQuestion()
	fb, err = c.Answer(f.ctx, q.CorrectAnswer)
	require.NoError(t, err)
	assert.Equal(t, "Correct!", fb.Message())
}

func TestAnswerRejectsUnknownOption(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))

	_, err := c.Answer(f.ctx, "not an option")
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.True(t, c.InputEnabled())
}

func TestQuitCancelsPendingWork(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))

	epoch := c.Epoch()
	q, _ := c.Session().CurrentQuestion()
	_, err := c.Answer(f.ctx, q.CorrectAnswer)
	require.NoError(t, err)

	require.NoError(t, c.Quit())
	assert.Equal(t, Setup, c.Screen())
	assert.Equal(t, 1, f.narrator.cancels)

	assert.False(t, c.Tick(epoch))
	require.NoError(t, c.AdvanceDue(f.ctx, epoch))
	assert.Equal(t, Setup, c.Screen())
	assert.Empty(t, c.Records(f.ctx), "an abandoned quiz is not recorded")
}

func TestRestartDiscardsOldCallbacks(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)

	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))
	oldEpoch := c.Epoch()
	require.True(t, c.Tick(oldEpoch))
	require.NoError(t, c.Quit())

	require.NoError(t, c.SelectMode(f.ctx, domain.EnglishToDutch))
	assert.NotEqual(t, oldEpoch, c.Epoch())
	assert.Equal(t, 0, c.Session().ElapsedSeconds(), "a new quiz starts its timer at zero")
	assert.Equal(t, 0, c.Session().CurrentIndex())

	assert.False(t, c.Tick(oldEpoch))
	assert.Equal(t, 0, c.Session().ElapsedSeconds())
	assert.True(t, c.Tick(c.Epoch()))
	assert.Equal(t, 1, c.Session().ElapsedSeconds())
}

func TestAdvanceWithoutAnswerIsIgnored(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))

	require.NoError(t, c.AdvanceDue(f.ctx, c.Epoch()))
	assert.Equal(t, 0, c.Session().CurrentIndex())
}

func TestEmptyCatalogFilter(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(6), defaultSettings)

	require.NoError(t, c.SelectDifficulty(domain.FilterHard))
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))

	assert.Equal(t, Quiz, c.Screen())
	assert.True(t, c.Session().Empty())
	assert.False(t, c.InputEnabled())
	assert.Nil(t, c.Options())
	assert.False(t, c.Tick(c.Epoch()))

	_, err := c.Answer(f.ctx, "anything")
	assert.ErrorIs(t, err, quiz.ErrInvalidState)

	require.NoError(t, c.Quit())
	assert.Equal(t, Setup, c.Screen())
	assert.Empty(t, c.Records(f.ctx))
}

func TestFewerWordsThanRequested(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(8), defaultSettings)
	require.NoError(t, c.SelectCount(50))
	require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))
	assert.Equal(t, 8, c.Session().Len())

	answerAll(t, c, f.ctx, 8)

	record, ok := c.LastRecord()
	require.True(t, ok)
	assert.Equal(t, "16.00", record.Accuracy)
	assert.Equal(t, 50, record.QuestionCount)
}

func TestHistoryAcrossSessions(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Append(f.ctx, "bob", domain.HistoryRecord{Mode: domain.DutchToEnglish, Accuracy: "10.00"}))
	require.NoError(t, f.store.SetUsername(f.ctx, "alice"))
	c := f.controller(easyCatalog(10), defaultSettings)

	for i, correct := range []int{4, 9} {
		require.NoError(t, c.SelectMode(f.ctx, domain.DutchToEnglish))
		answerAll(t, c, f.ctx, correct)
		require.Equal(t, Result, c.Screen(), "session %d", i)
		require.NoError(t, c.Home())
	}

	require.NoError(t, c.ShowHistory())
	assert.Equal(t, History, c.Screen())
	records := c.Records(f.ctx)
	require.Len(t, records, 2)
	assert.Equal(t, 4, records[0].Correct)
	assert.Equal(t, 9, records[1].Correct)
	assert.Len(t, f.store.Records(f.ctx, "bob"), 1)

	require.NoError(t, c.Back())
	assert.Equal(t, Setup, c.Screen())
}
