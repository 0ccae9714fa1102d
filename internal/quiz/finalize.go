package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/conorfennell/woordquiz/internal/domain"
)

// DateLayout renders the completion time of a record.
const DateLayout = "1/2/2006, 3:04:05 PM"

// Appender stores a finished session for a user.
type Appender interface {
	Append(ctx context.Context, username string, record domain.HistoryRecord) error
}

// Finalize summarises a terminal session and appends the record for username.
// Accuracy is measured against the requested question count, not the number
// of questions served.
func Finalize(ctx context.Context, s *Session, username string, appender Appender, now time.Time) (domain.HistoryRecord, error) {
	if !s.Terminal() {
		return domain.HistoryRecord{}, ErrInvalidState
	}

	score := s.Score()
	record := domain.HistoryRecord{
		Date:          now.Local().Format(DateLayout),
		Mode:          s.Mode,
		Difficulty:    s.Filter,
		QuestionCount: s.RequestedCount,
		Correct:       score.Correct,
		Wrong:         score.Wrong,
		Accuracy:      FormatAccuracy(score.Correct, s.RequestedCount),
		Time:          FormatElapsed(s.ElapsedSeconds()),
	}

	if err := appender.Append(ctx, username, record); err != nil {
		return record, fmt.Errorf("failed to record session %s: %w", s.ID, err)
	}
	return record, nil
}

// FormatElapsed renders seconds as MM:SS. Minutes are not capped.
func FormatElapsed(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatAccuracy renders correct/requested as a percentage with two decimals.
func FormatAccuracy(correct, requested int) string {
	if requested <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(correct)/float64(requested)*100)
}
