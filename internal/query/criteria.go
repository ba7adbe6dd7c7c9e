package query

import "github.com/matchup/matchup/internal/models"

// ForCriteria translates a criteria set into a populated builder. Every
// absent field is skipped, so an empty criteria yields a match-all query.
// Clause order is fixed so identical criteria render identical SQL.
func ForCriteria(c models.GameCriteria) *Builder {
	b := NewBuilder()
	if c.CurrentUsername != nil {
		b.BindCurrentUser(*c.CurrentUsername)
	}

	b.AddTimeRange(FieldStartTime, GreaterOrEqual, c.MinStartTime)
	b.AddTimeRange(FieldStartTime, LessOrEqual, c.MaxStartTime)
	b.AddTimeRange(FieldFinishTime, GreaterOrEqual, c.MinFinishTime)
	b.AddTimeRange(FieldFinishTime, LessOrEqual, c.MaxFinishTime)

	b.AddListFilter(FieldType, c.Types, IncludeAny)
	b.AddListFilter(FieldSportName, c.SportNames, IncludeAny)

	b.AddIntRange(FieldQuantity, GreaterOrEqual, c.MinQuantity)
	b.AddIntRange(FieldQuantity, LessOrEqual, c.MaxQuantity)

	b.AddListFilter(FieldCountry, c.Countries, IncludeAny)
	b.AddListFilter(FieldState, c.States, IncludeAny)
	b.AddListFilter(FieldCity, c.Cities, IncludeAny)

	b.AddIntRange(FieldFreeSlots, GreaterOrEqual, c.MinFreePlaces)
	b.AddIntRange(FieldFreeSlots, LessOrEqual, c.MaxFreePlaces)

	b.AddRosterFilter(c.WithPlayers, false)
	b.AddRosterFilter(c.WithoutPlayers, true)

	b.AddListFilter(FieldCreator, c.CreatedBy, IncludeAny)
	b.AddListFilter(FieldCreator, c.NotCreatedBy, ExcludeAll)

	if c.OnlyLikedUsers {
		b.AddCustomFilter(FragmentLikedUsersPlay)
	}
	if c.OnlyLikedSports {
		b.AddCustomFilter(FragmentLikedSports)
	}

	b.AddResultPresenceFilter(c.HasResult)

	b.Sort(ParseSort(c.Sort))
	b.Page(c.Limit, c.Offset)
	return b
}
