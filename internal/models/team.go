package models

// Sport describes a discipline and the roster size a single team needs.
type Sport struct {
	Name           string `json:"name"`
	DisplayTitle   string `json:"display_title"`
	PlayerQuantity int    `json:"player_quantity"`
}

// Player is a roster entry.
type Player struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Team is an external collaborator: the core resolves teams by name and reads
// their sport, leader and roster, but never mutates them.
type Team struct {
	Name         string   `json:"name"`
	SportName    string   `json:"sport_name"`
	LeaderName   string   `json:"leader_name"`
	LeaderUserID int64    `json:"leader_user_id"`
	Players      []Player `json:"players,omitempty"`
}
