package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/flow"
	"github.com/conorfennell/woordquiz/internal/quiz"
)

// tickMsg and advanceMsg carry the controller epoch they were scheduled in.
type (
	tickMsg    struct{ epoch uint64 }
	advanceMsg struct{ epoch uint64 }
)

type model struct {
	ctx           context.Context
	ctrl          *flow.Controller
	nameInput     textinput.Model
	feedbackDelay time.Duration
	cursor        int
	err           error
	width         int
}

// New returns the bubbletea model driving ctrl.
func New(ctx context.Context, ctrl *flow.Controller, feedbackDelay time.Duration) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = 40
	ti.Width = 30
	ti.Prompt = "> "
	ti.Focus()

	return model{
		ctx:           ctx,
		ctrl:          ctrl,
		nameInput:     ti,
		feedbackDelay: feedbackDelay,
	}
}

func (m model) Init() tea.Cmd {
	if m.ctrl.Screen() == flow.Identity {
		return textinput.Blink
	}
	return nil
}

func tickCmd(epoch uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{epoch: epoch} })
}

func (m model) advanceCmd(epoch uint64) tea.Cmd {
	return tea.Tick(m.feedbackDelay, func(time.Time) tea.Msg { return advanceMsg{epoch: epoch} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.ctrl.Tick(msg.epoch) {
			return m, tickCmd(msg.epoch)
		}
		return m, nil

	case advanceMsg:
		if err := m.ctrl.AdvanceDue(m.ctx, msg.epoch); err != nil {
			m.err = err
		}
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.ctrl.Screen() {
		case flow.Identity:
			return m.updateIdentity(msg)
		case flow.Setup:
			return m.updateSetup(msg)
		case flow.Quiz:
			return m.updateQuiz(msg)
		case flow.Result:
			return m.updateResult(msg)
		case flow.History:
			return m.updateHistory(msg)
		}
	}

	if m.ctrl.Screen() == flow.Identity {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateIdentity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.err = m.ctrl.SubmitUsername(m.ctx, m.nameInput.Value())
		if m.err == nil {
			m.nameInput.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	settings := m.ctrl.Settings()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "c":
		m.err = m.ctrl.SelectCount(next(domain.QuestionCounts, settings.QuestionCount))
	case "d":
		m.err = m.ctrl.SelectDifficulty(next(domain.Filters, settings.Difficulty))
	case "n", "1":
		return m.startQuiz(domain.DutchToEnglish)
	case "e", "2":
		return m.startQuiz(domain.EnglishToDutch)
	case "h":
		m.err = m.ctrl.ShowHistory()
	}
	return m, nil
}

func (m model) startQuiz(mode domain.Mode) (tea.Model, tea.Cmd) {
	if err := m.ctrl.SelectMode(m.ctx, mode); err != nil {
		m.err = err
		return m, nil
	}
	m.cursor = 0
	return m, tickCmd(m.ctrl.Epoch())
}

func (m model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.ctrl.Options()

	switch key := msg.String(); key {
	case "esc", "q":
		m.err = m.ctrl.Quit()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(options) {
			return m.answer(options[m.cursor])
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
		i := int(key[0] - '1')
		if key == "0" {
			i = 9
		}
		if i < len(options) {
			m.cursor = i
			return m.answer(options[i])
		}
	}
	return m, nil
}

func (m model) answer(option string) (tea.Model, tea.Cmd) {
	if !m.ctrl.InputEnabled() {
		return m, nil
	}
	if _, err := m.ctrl.Answer(m.ctx, option); err != nil {
		if !errors.Is(err, quiz.ErrAlreadyAnswered) {
			m.err = err
		}
		return m, nil
	}
	m.err = nil
	return m, m.advanceCmd(m.ctrl.Epoch())
}

func (m model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "h", "esc":
		m.err = m.ctrl.Home()
	}
	return m, nil
}

func (m model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "enter":
		m.err = m.ctrl.Back()
	}
	return m, nil
}

// next returns the element after current, wrapping around.
func next[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
