package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/woordquiz/internal/validator"
)

const EnvPrefix = "WOORDQUIZ_"

type (
	Store struct {
		Driver      string `koanf:"driver" validate:"oneof=sqlite redis memory"`
		SQLitePath  string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
		RedisURL    string `koanf:"redis_url" validate:"required_if=Driver redis"`
		RedisPrefix string `koanf:"redis_prefix"`
	}

	Catalog struct {
		// Sources are word-list files, directories or git URLs. Empty means
		// the built-in list.
		Sources  []string `koanf:"sources" validate:"dive,required"`
		ReposDir string   `koanf:"repos_dir" validate:"required"`
	}

	Quiz struct {
		QuestionCount int           `koanf:"question_count" validate:"oneof=10 20 30 50"`
		Difficulty    string        `koanf:"difficulty" validate:"oneof=easy medium hard all"`
		Distractors   int           `koanf:"distractors" validate:"min=1,max=9"`
		FeedbackDelay time.Duration `koanf:"feedback_delay" validate:"gte=0"`
	}

	Narrator struct {
		Enabled        bool   `koanf:"enabled"`
		Command        string `koanf:"command" validate:"required_if=Enabled true"`
		WordsPerMinute int    `koanf:"words_per_minute" validate:"min=80,max=450"`
	}

	Config struct {
		Dev      bool     `koanf:"dev"`
		LogFile  string   `koanf:"log_file" validate:"required"`
		Store    Store    `koanf:"store"`
		Catalog  Catalog  `koanf:"catalog"`
		Quiz     Quiz     `koanf:"quiz"`
		Narrator Narrator `koanf:"narrator"`
	}
)

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"dev":            "dev",
	"log-file":       "log_file",
	"store":          "store.driver",
	"db":             "store.sqlite_path",
	"redis-url":      "store.redis_url",
	"redis-prefix":   "store.redis_prefix",
	"words":          "catalog.sources",
	"repos-dir":      "catalog.repos_dir",
	"count":          "quiz.question_count",
	"difficulty":     "quiz.difficulty",
	"distractors":    "quiz.distractors",
	"feedback-delay": "quiz.feedback_delay",
	"speech":         "narrator.enabled",
	"speech-command": "narrator.command",
	"speech-wpm":     "narrator.words_per_minute",
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("woordquiz", pflag.ContinueOnError)
	flags.String("config", "", "path to a YAML config file")
	flags.String("env-file", ".env", "path to a .env file")

	flags.Bool("dev", false, "verbose text logging")
	flags.String("log-file", "woordquiz.log", "file the log is written to")
	flags.String("store", "sqlite", "history store: sqlite, redis or memory")
	flags.String("db", "woordquiz.db", "SQLite database file")
	flags.String("redis-url", "redis://localhost:6379/0", "Redis connection URL")
	flags.String("redis-prefix", "woordquiz:", "prefix for Redis keys")
	flags.StringSlice("words", nil, "word-list files, directories or git URLs")
	flags.String("repos-dir", "repos", "directory git word lists are cloned into")
	flags.Int("count", 10, "default number of questions: 10, 20, 30 or 50")
	flags.String("difficulty", "all", "default difficulty: easy, medium, hard or all")
	flags.Int("distractors", 3, "wrong options shown per question")
	flags.Duration("feedback-delay", time.Second, "how long answer feedback stays visible")
	flags.Bool("speech", true, "speak prompts and answers")
	flags.String("speech-command", "espeak-ng", "text-to-speech command")
	flags.Int("speech-wpm", 160, "base speech rate in words per minute")
	return flags
}

// Load builds the configuration from, in increasing priority: a YAML file,
// a .env file, WOORDQUIZ_* environment variables and command-line flags.
// Flag defaults fill keys no other layer set.
func Load(args []string) (Config, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if path, _ := flags.GetString("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.ValidateStruct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey turns WOORDQUIZ_STORE__SQLITE_PATH into store.sqlite_path.
// catalog.sources is a comma-separated list.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if key == "catalog.sources" {
		var sources []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		return key, sources
	}
	return key, value
}

// flagKey renames flags to their configuration keys and drops flags that
// only steer loading.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}
