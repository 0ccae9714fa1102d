package flow

import (
	"errors"
	"fmt"
)

type Screen int

const (
	Identity Screen = iota
	Setup
	Quiz
	Result
	History
)

func (s Screen) String() string {
	switch s {
	case Identity:
		return "identity"
	case Setup:
		return "setup"
	case Quiz:
		return "quiz"
	case Result:
		return "result"
	case History:
		return "history"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

type Action int

const (
	SetUsername Action = iota
	StartQuiz
	ShowHistory
	Complete
	Home
	Back
	Quit
)

func (a Action) String() string {
	switch a {
	case SetUsername:
		return "set-username"
	case StartQuiz:
		return "start-quiz"
	case ShowHistory:
		return "show-history"
	case Complete:
		return "complete"
	case Home:
		return "home"
	case Back:
		return "back"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

var ErrInvalidTransition = errors.New("invalid screen transition")

// transitions is the whole screen graph. Anything not listed is rejected.
var transitions = map[Screen]map[Action]Screen{
	Identity: {SetUsername: Setup},
	Setup:    {StartQuiz: Quiz, ShowHistory: History},
	Quiz:     {Complete: Result, Quit: Setup},
	Result:   {Home: Setup},
	History:  {Back: Setup},
}

// Next returns the screen reached from s by a.
func Next(s Screen, a Action) (Screen, error) {
	next, ok := transitions[s][a]
	if !ok {
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, s)
	}
	return next, nil
}
