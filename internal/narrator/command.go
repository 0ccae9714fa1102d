package narrator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/conorfennell/woordquiz/internal/domain"
)

type Voice struct {
	Name string
	// Rate scales the base words per minute.
	Rate float64
}

// DefaultVoices are espeak-ng voice names. Dutch is read a little slower.
var DefaultVoices = map[string]Voice{
	domain.LangDutch:   {Name: "nl", Rate: 0.9},
	domain.LangEnglish: {Name: "en-us", Rate: 1},
}

// Command speaks through an espeak-compatible binary.
type Command struct {
	Path           string
	WordsPerMinute int
	Voices         map[string]Voice
}

func (c *Command) Speak(ctx context.Context, text, lang string) error {
	voice, ok := c.Voices[lang]
	if !ok {
		return fmt.Errorf("no voice for language %s", lang)
	}

	args := []string{"-v", voice.Name}
	if c.WordsPerMinute > 0 {
		wpm := int(float64(c.WordsPerMinute) * voice.Rate)
		args = append(args, "-s", strconv.Itoa(wpm))
	}
	args = append(args, "--", text)

	if out, err := exec.CommandContext(ctx, c.Path, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to run %s: %w (output: %s)", c.Path, err, out)
	}
	return nil
}
