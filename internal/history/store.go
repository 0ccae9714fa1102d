package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conorfennell/woordquiz/internal/domain"
	"github.com/conorfennell/woordquiz/internal/storage"
)

const (
	UsernameKey = "woordquiz_username"
	HistoryKey  = "woordquiz_history"
)

// Store keeps the remembered username and the per-user session records.
// The history key holds one JSON object mapping usernames to record lists.
// Writes are read-modify-write of the whole document with no locking, so a
// single writer is assumed.
type Store struct {
	kv  storage.KV
	log *slog.Logger
}

func New(kv storage.KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Username returns the remembered username. Read failures count as absent.
func (s *Store) Username(ctx context.Context) (string, bool) {
	name, ok, err := s.kv.Get(ctx, UsernameKey)
	if err != nil {
		s.log.WarnContext(ctx, "failed to read username", "error", err)
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, ok && name != ""
}

func (s *Store) SetUsername(ctx context.Context, name string) error {
	if err := s.kv.Set(ctx, UsernameKey, name); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}
	return nil
}

// Records returns the user's records in completion order.
func (s *Store) Records(ctx context.Context, username string) []domain.HistoryRecord {
	doc, _ := s.load(ctx)
	return s.decodeUser(ctx, username, doc[username])
}

// All returns every user's records. Users whose value is malformed read as empty.
func (s *Store) All(ctx context.Context) map[string][]domain.HistoryRecord {
	doc, _ := s.load(ctx)
	out := make(map[string][]domain.HistoryRecord, len(doc))
	for user, raw := range doc {
		out[user] = s.decodeUser(ctx, user, raw)
	}
	return out
}

// Append adds record to the end of the user's list. Other users' entries are
// written back unchanged.
func (s *Store) Append(ctx context.Context, username string, record domain.HistoryRecord) error {
	doc, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	records := append(s.decodeUser(ctx, username, doc[username]), record)
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records for %s: %w", username, err)
	}
	doc[username] = raw

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// load returns the raw per-user documents. A missing or malformed document is
// an empty map with a nil error; only store failures return an error.
func (s *Store) load(ctx context.Context) (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	value, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		s.log.WarnContext(ctx, "failed to read history", "error", err)
		return doc, err
	}
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(value), &doc); err != nil || doc == nil {
		s.log.WarnContext(ctx, "ignoring malformed history document", "error", err)
		return make(map[string]json.RawMessage), nil
	}
	return doc, nil
}

func (s *Store) decodeUser(ctx context.Context, username string, raw json.RawMessage) []domain.HistoryRecord {
	if len(raw) == 0 {
		return nil
	}
	var records []domain.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.WarnContext(ctx, "ignoring malformed history for user", "user", username, "error", err)
		return nil
	}
	return records
}
