package models

import "time"

// GameCriteria is the open-ended search parameter set for findGames. Every
// field is optional; a zero criteria matches all games in default sort order.
//
// All range bounds are inclusive. List fields match any value (or, for the
// negated variants, require all values absent). The social flags
// (OnlyLikedUsers, OnlyLikedSports) require CurrentUsername to be set; that
// contract is enforced at the service boundary before any query is built.
type GameCriteria struct {
	MinStartTime  *time.Time
	MaxStartTime  *time.Time
	MinFinishTime *time.Time
	MaxFinishTime *time.Time

	Types      []string
	SportNames []string

	MinQuantity *int
	MaxQuantity *int

	Countries []string
	States    []string
	Cities    []string

	MinFreePlaces *int
	MaxFreePlaces *int

	WithPlayers    []string
	WithoutPlayers []string
	CreatedBy      []string
	NotCreatedBy   []string

	// HasResult is tri-state: nil means don't care, true requires a recorded
	// result, false requires none.
	HasResult *bool

	OnlyLikedUsers  bool
	OnlyLikedSports bool
	CurrentUsername *string

	// Sort is one of the query.Sort* keys; empty falls back to the default
	// start-time ascending order.
	Sort string

	// Limit/Offset render into the query itself. Page-number slicing is done
	// by the service on top of the full result set instead.
	Limit  int
	Offset int
}

// NeedsCurrentUser reports whether the criteria activates a social filter
// that cannot run without a current-user identity.
func (c GameCriteria) NeedsCurrentUser() bool {
	return c.OnlyLikedUsers || c.OnlyLikedSports
}
