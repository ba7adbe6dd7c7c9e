package models

import "time"

// GameKey is the composite identity of a game: the first team plus the time
// window. No surrogate id exists; a stored row is addressed by this triple.
type GameKey struct {
	Team1Name  string    `json:"team1_name"`
	StartTime  time.Time `json:"start_time"`
	FinishTime time.Time `json:"finish_time"`
}

// Place is the location embedded in a game. Every field is optional and each
// game owns its own copy; equality is structural.
type Place struct {
	Country *string `json:"country,omitempty"`
	State   *string `json:"state,omitempty"`
	City    *string `json:"city,omitempty"`
	Street  *string `json:"street,omitempty"`
}

type Game struct {
	Key            GameKey `json:"key"`
	Team2Name      *string `json:"team2_name,omitempty"`
	Place          Place   `json:"place"`
	Type           string  `json:"type"`
	Competitive    bool    `json:"competitive"`
	Result         *string `json:"result,omitempty"`
	TournamentName *string `json:"tournament_name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Title          *string `json:"title,omitempty"`

	// Read-only fields resolved through team1 at query time.
	SportName      string    `json:"sport_name"`
	PlayerQuantity int       `json:"player_quantity"`
	FreeSlots      int       `json:"free_slots"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateGameInput carries everything needed to publish a game. Result is
// deliberately absent: new games start without one.
type CreateGameInput struct {
	Team1Name      string
	Team2Name      *string
	StartTime      time.Time
	FinishTime     time.Time
	Type           string
	Competitive    bool
	Place          Place
	TournamentName *string
	Description    *string
	Title          *string
}

// GamePatch is a partial update: nil fields are left untouched. There is no
// result delta on purpose; results change only through RecordResult.
type GamePatch struct {
	Team1Name      *string
	Team2Name      *string
	StartTime      *time.Time
	FinishTime     *time.Time
	Type           *string
	Competitive    *bool
	Country        *string
	State          *string
	City           *string
	Street         *string
	TournamentName *string
	Description    *string
	Title          *string
}

// IsZero reports whether the patch carries no deltas at all.
func (p GamePatch) IsZero() bool {
	return p.Team1Name == nil && p.Team2Name == nil && p.StartTime == nil &&
		p.FinishTime == nil && p.Type == nil && p.Competitive == nil &&
		p.Country == nil && p.State == nil && p.City == nil && p.Street == nil &&
		p.TournamentName == nil && p.Description == nil && p.Title == nil
}

// ChangesKey reports whether applying the patch would move the game to a new
// composite key.
func (p GamePatch) ChangesKey() bool {
	return p.Team1Name != nil || p.StartTime != nil || p.FinishTime != nil
}

// TeamSide selects which roster of a game a query is about.
type TeamSide int

const (
	SideTeam1 TeamSide = iota + 1
	SideTeam2
)
