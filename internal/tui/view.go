package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/conorfennell/woordquiz/internal/flow"
	"github.com/conorfennell/woordquiz/internal/quiz"
)

const progressWidth = 30

func (m model) View() string {
	var body string
	switch m.ctrl.Screen() {
	case flow.Identity:
		body = m.viewIdentity()
	case flow.Setup:
		body = m.viewSetup()
	case flow.Quiz:
		body = m.viewQuiz()
	case flow.Result:
		body = m.viewResult()
	case flow.History:
		body = m.viewHistory()
	}

	if m.err != nil {
		body += "\n" + styleError.Render("Error: "+m.err.Error())
	}
	return body + "\n"
}

func (m model) viewIdentity() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("WoordQuiz") + "\n\n")
	b.WriteString("What is your name?\n\n")
	b.WriteString(m.nameInput.View() + "\n\n")
	b.WriteString(styleSubtle.Render("enter: continue • esc: quit"))
	return b.String()
}

func (m model) viewSetup() string {
	settings := m.ctrl.Settings()

	var b strings.Builder
	b.WriteString(styleTitle.Render("WoordQuiz") + "\n\n")
	fmt.Fprintf(&b, "Welcome, %s!\n\n", styleSelected.Render(m.ctrl.Username()))
	fmt.Fprintf(&b, "Questions:  %s\n", styleSelected.Render(strconv.Itoa(settings.QuestionCount)))
	fmt.Fprintf(&b, "Difficulty: %s\n", styleSelected.Render(settings.Difficulty.Label()))
	fmt.Fprintf(&b, "Words:      %d\n\n", len(m.ctrl.Catalog().Filter(settings.Difficulty)))
	b.WriteString("Choose a direction to start:\n")
	b.WriteString("  [n] Dutch to English\n")
	b.WriteString("  [e] English to Dutch\n\n")
	b.WriteString(styleSubtle.Render("c: question count • d: difficulty • h: history • q: quit"))
	return b.String()
}

func (m model) viewQuiz() string {
	session := m.ctrl.Session()

	var b strings.Builder
	b.WriteString(styleTitle.Render(m.ctrl.Mode().Label()) + "\n\n")

	q, ok := session.CurrentQuestion()
	if !ok {
		b.WriteString(styleIncorrect.Render("No words available for this difficulty.") + "\n\n")
		b.WriteString(styleSubtle.Render("esc: back"))
		return b.String()
	}

	fmt.Fprintf(&b, "Time: %s\n", quiz.FormatElapsed(session.ElapsedSeconds()))
	fmt.Fprintf(&b, "Question %d / %d\n", session.CurrentIndex()+1, session.Len())
	b.WriteString(progressBar(session.CurrentIndex(), session.Len()) + "\n")
	b.WriteString(stylePrompt.Render(q.Prompt) + "\n")

	feedback, answered := m.ctrl.Feedback()
	for i, option := range m.ctrl.Options() {
		prefix := "  "
		if !answered && i == m.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%d. %s", prefix, i+1, option)
		switch {
		case answered && option == feedback.CorrectAnswer:
			line = styleCorrect.Render(line)
		case answered && option == feedback.Selected:
			line = styleIncorrect.Render(line)
		case !answered && i == m.cursor:
			line = styleCursor.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if answered {
		style := styleIncorrect
		if feedback.Correct {
			style = styleCorrect
		}
		b.WriteString(style.Render(feedback.Message()) + "\n\n")
	}

	score := session.Score()
	fmt.Fprintf(&b, "Correct: %s  Incorrect: %s  Total: %d\n\n",
		styleCorrect.Render(strconv.Itoa(score.Correct)),
		styleIncorrect.Render(strconv.Itoa(score.Wrong)),
		session.Len(),
	)
	b.WriteString(styleSubtle.Render("↑/↓: move • enter or 1-4: answer • esc: quit quiz"))
	return b.String()
}

func progressBar(done, total int) string {
	if total <= 0 {
		return ""
	}
	filled := done * progressWidth / total
	return styleBarFull.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", progressWidth-filled))
}

func (m model) viewResult() string {
	record, _ := m.ctrl.LastRecord()

	content := lipgloss.JoinVertical(lipgloss.Left,
		styleCorrect.Render("Quiz Completed!"),
		"",
		fmt.Sprintf("Score:    %d / %d", record.Correct, record.QuestionCount),
		fmt.Sprintf("Accuracy: %s%%", record.Accuracy),
		fmt.Sprintf("Time:     %s", record.Time),
	)
	return styleBox.Render(content) + "\n\n" + styleSubtle.Render("enter: home")
}

func (m model) viewHistory() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.ctrl.Username()+"'s history") + "\n\n")

	records := m.ctrl.Records(m.ctx)
	if len(records) == 0 {
		b.WriteString("No history found.\n\n")
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(styleSubtle).
			Headers("Date", "Mode", "Difficulty", "Score", "Accuracy", "Time")
		for _, r := range records {
			t.Row(
				r.Date,
				r.Mode.Label(),
				r.Difficulty.Label(),
				fmt.Sprintf("%d / %d", r.Correct, r.QuestionCount),
				r.Accuracy+"%",
				r.Time,
			)
		}
		b.WriteString(t.Render() + "\n\n")
	}
	b.WriteString(styleSubtle.Render("esc: back"))
	return b.String()
}
