// Package query turns an open-ended set of optional game search criteria into
// a single parameterized SELECT over the game store. Clauses render in
// insertion order, so identical criteria always produce identical SQL.
package query

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Field paths and computed expressions over the base select. The base select
// joins team1 and its sport, so team and sport attributes are filterable
// alongside game columns.
const (
	FieldStartTime  = "g.start_time"
	FieldFinishTime = "g.finish_time"
	FieldType       = "g.type"
	FieldCountry    = "g.country"
	FieldState      = "g.state"
	FieldCity       = "g.city"
	FieldSportName  = "t.sport_name"
	FieldCreator    = "t.leader_name"
	FieldQuantity   = "s.player_quantity"

	// FieldFreeSlots is the open roster positions across both teams:
	// 2 x required players minus both roster sizes, a missing team2 counting
	// as zero.
	FieldFreeSlots = "(2 * s.player_quantity - (" +
		"(SELECT COUNT(*) FROM team_players tp1 WHERE tp1.team_name = g.team1_name) + " +
		"(CASE WHEN g.team2_name IS NULL THEN 0 ELSE " +
		"(SELECT COUNT(*) FROM team_players tp2 WHERE tp2.team_name = g.team2_name) END)))"
)

// GameColumns is the full projection of the base select, in scan order.
var GameColumns = []string{
	"g.team1_name", "g.start_time", "g.finish_time",
	"g.team2_name", "g.type", "g.competitive", "g.result",
	"g.country", "g.state", "g.city", "g.street",
	"g.tournament_name", "g.description", "g.title",
	"t.sport_name", "s.player_quantity",
	FieldFreeSlots + " AS free_slots",
	"g.created_at",
}

// Builder accumulates filter clauses plus sort and pagination directives and
// renders them into one query. A Builder is request-scoped: create, populate,
// build, discard. It is not safe for concurrent use and never needs to be.
type Builder struct {
	clauses     []sq.Sqlizer
	sort        SortSpec
	limit       uint64
	offset      uint64
	currentUser string
	hasUser     bool
}

// NewBuilder returns an empty builder. With no filters added it matches all
// games in default sort order with zero bind parameters.
func NewBuilder() *Builder {
	return &Builder{sort: DefaultSort()}
}

// BindCurrentUser records the current-user identity exactly once; every
// social fragment added afterwards renders against it.
func (b *Builder) BindCurrentUser(username string) *Builder {
	b.currentUser = username
	b.hasUser = true
	return b
}

// AddTimeRange appends an inclusive time bound. Nil values are a no-op.
func (b *Builder) AddTimeRange(expr string, cmp Comparator, v *time.Time) *Builder {
	if v == nil {
		return b
	}
	b.clauses = append(b.clauses, RangeClause{Expr: expr, Comparator: cmp, Value: v.UTC()})
	return b
}

// AddIntRange appends an inclusive numeric bound. Nil values are a no-op.
func (b *Builder) AddIntRange(expr string, cmp Comparator, v *int) *Builder {
	if v == nil {
		return b
	}
	b.clauses = append(b.clauses, RangeClause{Expr: expr, Comparator: cmp, Value: *v})
	return b
}

// AddListFilter appends a value-list filter. An empty list is a no-op,
// identical to omitting the filter.
func (b *Builder) AddListFilter(expr string, values []string, mode ListMode) *Builder {
	if len(values) == 0 {
		return b
	}
	b.clauses = append(b.clauses, ListClause{Expr: expr, Values: values, Mode: mode})
	return b
}

// AddRosterFilter appends a both-rosters membership filter. An empty list is
// a no-op.
func (b *Builder) AddRosterFilter(usernames []string, exclude bool) *Builder {
	if len(usernames) == 0 {
		return b
	}
	b.clauses = append(b.clauses, RosterClause{Usernames: usernames, Exclude: exclude})
	return b
}

// AddResultPresenceFilter restricts on recorded results. Nil is a no-op.
func (b *Builder) AddResultPresenceFilter(present *bool) *Builder {
	if present == nil {
		return b
	}
	b.clauses = append(b.clauses, ResultPresenceClause{Present: *present})
	return b
}

// AddCustomFilter appends a named social fragment. The caller must have bound
// a current user; without one the fragment is skipped, since the service
// boundary already rejects such criteria.
func (b *Builder) AddCustomFilter(f Fragment) *Builder {
	if !b.hasUser {
		return b
	}
	b.clauses = append(b.clauses, CustomClause{Fragment: f, Username: b.currentUser})
	return b
}

// Sort sets the result ordering.
func (b *Builder) Sort(s SortSpec) *Builder {
	b.sort = s
	return b
}

// Page sets a limit/offset window rendered into the query. Non-positive
// values leave the query unbounded on that side.
func (b *Builder) Page(limit, offset int) *Builder {
	if limit > 0 {
		b.limit = uint64(limit)
	}
	if offset > 0 {
		b.offset = uint64(offset)
	}
	return b
}

func (b *Builder) base(columns ...string) sq.SelectBuilder {
	q := sq.StatementBuilder.PlaceholderFormat(sq.Question).
		Select(columns...).
		From("games g").
		Join("teams t ON t.team_name = g.team1_name").
		Join("sports s ON s.sport_name = t.sport_name")
	for _, c := range b.clauses {
		q = q.Where(c)
	}
	return q
}

// Build renders the final query and its ordered bind values.
func (b *Builder) Build() (string, []any, error) {
	q := b.base(GameColumns...).OrderBy(b.sort.OrderBy()...)
	if b.limit > 0 {
		q = q.Limit(b.limit)
	}
	if b.offset > 0 {
		q = q.Offset(b.offset)
	}
	return q.ToSql()
}

// BuildCount renders a COUNT(*) query over the same filter set, without sort
// or pagination.
func (b *Builder) BuildCount() (string, []any, error) {
	return b.base("COUNT(*)").ToSql()
}
