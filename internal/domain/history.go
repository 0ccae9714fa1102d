package domain

// HistoryRecord summarises one completed session. The JSON layout is the
// persisted format and must stay stable.
type HistoryRecord struct {
	Date          string `json:"date"`
	Mode          Mode   `json:"mode"`
	Difficulty    Filter `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
	Correct       int    `json:"correct"`
	Wrong         int    `json:"wrong"`
	Accuracy      string `json:"accuracy"`
	Time          string `json:"time"`
}
