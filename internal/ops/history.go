package ops

import (
	"github.com/hpungsan/ecokitchen/internal/session"
)

// HistoryOutput contains the result of the GetHistory operation.
type HistoryOutput struct {
	Items []session.Entry `json:"items"`
	Count int             `json:"count"`
}

// GetHistory returns the session history, most recent first.
func GetHistory(sess *session.Session) *HistoryOutput {
	items := sess.History()
	return &HistoryOutput{Items: items, Count: len(items)}
}

// ClearOutput contains the result of the ClearHistory operation.
type ClearOutput struct {
	Cleared int `json:"cleared"`
}

// ClearHistory empties the session history. The presentation state is kept.
func ClearHistory(sess *session.Session) *ClearOutput {
	return &ClearOutput{Cleared: sess.ClearHistory()}
}
