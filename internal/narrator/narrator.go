package narrator

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
)

// Narrator speaks text in a language. The returned channel is closed when
// speech has finished, failed or been superseded. Scoring never waits on it.
type Narrator interface {
	Speak(ctx context.Context, text, lang string) <-chan struct{}
	Cancel()
}

// Speaker performs one blocking utterance and stops when ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

type Config struct {
	Enabled        bool
	Command        string
	WordsPerMinute int
}

// New returns a narrator backed by the configured TTS command, or Nop when
// narration is disabled or the command is not installed.
func New(cfg Config, log *slog.Logger) Narrator {
	if !cfg.Enabled {
		return Nop{}
	}
	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		log.Info("speech command not found, narration disabled", "command", cfg.Command, "error", err)
		return Nop{}
	}
	return NewSerial(&Command{
		Path:           path,
		WordsPerMinute: cfg.WordsPerMinute,
		Voices:         DefaultVoices,
	}, log)
}

// Nop is used when speech is unavailable.
type Nop struct{}

func (Nop) Speak(context.Context, string, string) <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

func (Nop) Cancel() {}

// Serial plays one utterance at a time. A new request cancels the one in
// flight and starts only after it has stopped, so audio never overlaps.
type Serial struct {
	speaker Speaker
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSerial(speaker Speaker, log *slog.Logger) *Serial {
	return &Serial{speaker: speaker, log: log}
}

func (s *Serial) Speak(ctx context.Context, text, lang string) <-chan struct{} {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	previous := s.done
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		if previous != nil {
			<-previous
		}
		if ctx.Err() != nil {
			return
		}
		if err := s.speaker.Speak(ctx, text, lang); err != nil && ctx.Err() == nil {
			s.log.Warn("narration failed", "lang", lang, "error", err)
		}
	}()
	return done
}

// Cancel stops the utterance in flight, if any.
func (s *Serial) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close cancels speech and waits for the last utterance to stop.
func (s *Serial) Close() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}
