package entity

type Player struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
	Mark   Mark   `json:"mark,omitempty"`
}

func NewPlayer(id string) *Player {
	return &Player{ID: id}
}
