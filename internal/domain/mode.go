package domain

import (
	"fmt"
	"strings"
)

// Language tags handed to the narrator.
const (
	LangDutch   = "nl-NL"
	LangEnglish = "en-US"
)

// Mode decides which side of an entry is asked and which side is answered.
type Mode string

const (
	DutchToEnglish Mode = "dutch-to-english"
	EnglishToDutch Mode = "english-to-dutch"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case DutchToEnglish, EnglishToDutch:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Prompt returns the field shown as the question.
func (m Mode) Prompt(e VocabularyEntry) string {
	if m == DutchToEnglish {
		return e.Dutch
	}
	return e.English
}

// Answer returns the field expected as the answer.
func (m Mode) Answer(e VocabularyEntry) string {
	if m == DutchToEnglish {
		return e.English
	}
	return e.Dutch
}

func (m Mode) PromptLanguage() string {
	if m == DutchToEnglish {
		return LangDutch
	}
	return LangEnglish
}

func (m Mode) AnswerLanguage() string {
	if m == DutchToEnglish {
		return LangEnglish
	}
	return LangDutch
}

func (m Mode) Label() string {
	if m == DutchToEnglish {
		return "Dutch to English"
	}
	return "English to Dutch"
}
