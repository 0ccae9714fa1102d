package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/conorfennell/woordquiz/internal/catalog"
	"github.com/conorfennell/woordquiz/internal/config"
	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/flow"
	"github.com/conorfennell/woordquiz/internal/history"
	"github.com/conorfennell/woordquiz/internal/narrator"
	"github.com/conorfennell/woordquiz/internal/storage"
	"github.com/conorfennell/woordquiz/internal/tui"
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeLogOpen
	exitCodeStoreOpen
	exitCodeCatalogLoad
	exitCodeUI
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return exitCodeOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "woordquiz: %v\n", err)
		return exitCodeConfigParse
	}

	logFile, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "woordquiz: open log file: %v\n", err)
		return exitCodeLogOpen
	}
	defer logFile.Close()

	log := newLogger(logFile, conf.Dev)
	slog.SetDefault(log)
	log.InfoContext(ctx, "starting woordquiz", "config", loggableConfig(conf))
	defer log.InfoContext(ctx, "woordquiz stopped")

	kv, closeStore, err := storage.Open(ctx, storage.Options{
		Driver:      conf.Store.Driver,
		SQLitePath:  conf.Store.SQLitePath,
		RedisURL:    conf.Store.RedisURL,
		RedisPrefix: conf.Store.RedisPrefix,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to open store", "driver", conf.Store.Driver, "error", err)
		fmt.Fprintf(os.Stderr, "woordquiz: open %s store: %v\n", conf.Store.Driver, err)
		return exitCodeStoreOpen
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WarnContext(ctx, "failed to close store", "error", err)
		}
	}()

	words, err := loadCatalog(ctx, conf.Catalog)
	if err != nil {
		log.ErrorContext(ctx, "failed to load word catalog", "error", err)
		fmt.Fprintf(os.Stderr, "woordquiz: load words: %v\n", err)
		return exitCodeCatalogLoad
	}

	difficulty, err := domain.ParseFilter(conf.Quiz.Difficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "woordquiz: %v\n", err)
		return exitCodeConfigParse
	}

	speech := narrator.New(narrator.Config{
		Enabled:        conf.Narrator.Enabled,
		Command:        conf.Narrator.Command,
		WordsPerMinute: conf.Narrator.WordsPerMinute,
	}, log)
	if closer, ok := speech.(io.Closer); ok {
		defer closer.Close()
	}

	ctrl := flow.New(ctx, flow.Deps{
		Catalog:  words,
		Store:    history.New(kv, log),
		Narrator: speech,
		Logger:   log,
	}, flow.Settings{
		QuestionCount: conf.Quiz.QuestionCount,
		Difficulty:    difficulty,
		Distractors:   conf.Quiz.Distractors,
	})

	p := tea.NewProgram(tui.New(ctx, ctrl, conf.Quiz.FeedbackDelay), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.ErrorContext(ctx, "ui stopped with error", "error", err)
		fmt.Fprintf(os.Stderr, "woordquiz: %v\n", err)
		return exitCodeUI
	}

	return exitCodeOK
}

func loadCatalog(ctx context.Context, conf config.Catalog) (*catalog.Catalog, error) {
	if len(conf.Sources) == 0 {
		return catalog.Default(), nil
	}
	return catalog.Load(ctx, conf.Sources, conf.ReposDir)
}

func newLogger(w io.Writer, dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	if dev {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

func loggableConfig(conf config.Config) map[string]any {
	return map[string]any{
		"dev":   conf.Dev,
		"store": conf.Store.Driver,
		"catalog": map[string]any{
			"sources":   conf.Catalog.Sources,
			"repos_dir": conf.Catalog.ReposDir,
		},
		"quiz": map[string]any{
			"question_count": conf.Quiz.QuestionCount,
			"difficulty":     conf.Quiz.Difficulty,
			"distractors":    conf.Quiz.Distractors,
			"feedback_delay": conf.Quiz.FeedbackDelay.String(),
		},
		"narrator": conf.Narrator.Enabled,
	}
}
