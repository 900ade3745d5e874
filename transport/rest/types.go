package rest

import "time"

type guestLoginResponse struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}

// historyRecord is one finished game in the history listing. Line carries the
// human-readable rendering alongside the raw fields.
type historyRecord struct {
	StartedAt time.Time `json:"started_at"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Outcome   string    `json:"outcome"`
	Line      string    `json:"line"`
}
