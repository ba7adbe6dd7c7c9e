package query

import (
	"fmt"
	"strings"
)

// Comparator selects the direction of a range bound. Bounds are inclusive in
// both directions.
type Comparator string

const (
	LessOrEqual    Comparator = "<="
	GreaterOrEqual Comparator = ">="
)

// ListMode selects how a list filter matches.
type ListMode int

const (
	// IncludeAny matches rows whose field equals any of the values. A NULL
	// field never matches.
	IncludeAny ListMode = iota
	// ExcludeAll matches rows whose field equals none of the values. A NULL
	// field counts as a non-match, not a filter failure.
	ExcludeAll
)

// RangeClause filters a field (or computed expression) against one inclusive
// bound. It renders as "expr <= ?" or "expr >= ?" with the value bound as a
// query parameter, never concatenated.
type RangeClause struct {
	Expr       string
	Comparator Comparator
	Value      any
}

func (c RangeClause) ToSql() (string, []any, error) {
	if c.Comparator != LessOrEqual && c.Comparator != GreaterOrEqual {
		return "", nil, fmt.Errorf("unknown comparator %q", c.Comparator)
	}
	return fmt.Sprintf("%s %s ?", c.Expr, c.Comparator), []any{c.Value}, nil
}

// ListClause filters a field against a value list, either positively
// (IncludeAny) or negatively (ExcludeAll).
type ListClause struct {
	Expr   string
	Values []string
	Mode   ListMode
}

func (c ListClause) ToSql() (string, []any, error) {
	if len(c.Values) == 0 {
		return "", nil, fmt.Errorf("list clause on %s has no values", c.Expr)
	}
	args := make([]any, len(c.Values))
	for i, v := range c.Values {
		args[i] = v
	}
	in := placeholders(len(c.Values))
	if c.Mode == ExcludeAll {
		return fmt.Sprintf("(%s IS NULL OR %s NOT IN (%s))", c.Expr, c.Expr, in), args, nil
	}
	return fmt.Sprintf("%s IN (%s)", c.Expr, in), args, nil
}

// RosterClause filters on roster membership across both teams of a game: any
// of the usernames present (or, when Exclude is set, all of them absent). A
// missing team2 simply contributes no roster rows.
type RosterClause struct {
	Usernames []string
	Exclude   bool
}

func (c RosterClause) ToSql() (string, []any, error) {
	if len(c.Usernames) == 0 {
		return "", nil, fmt.Errorf("roster clause has no usernames")
	}
	args := make([]any, len(c.Usernames))
	for i, u := range c.Usernames {
		args[i] = u
	}
	sub := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM team_players tp WHERE (tp.team_name = g.team1_name OR tp.team_name = g.team2_name) AND tp.user_name IN (%s))",
		placeholders(len(c.Usernames)))
	if c.Exclude {
		return "NOT " + sub, args, nil
	}
	return sub, args, nil
}

// ResultPresenceClause restricts games on whether a result has been recorded.
type ResultPresenceClause struct {
	Present bool
}

func (c ResultPresenceClause) ToSql() (string, []any, error) {
	if c.Present {
		return "g.result IS NOT NULL", nil, nil
	}
	return "g.result IS NULL", nil, nil
}

// Fragment identifies a pre-defined social sub-query. Fragments are a closed
// set resolved at compile time; callers can never inject query text.
type Fragment string

const (
	// FragmentLikedUsersPlay keeps games where at least one friend of the
	// current user is on either roster.
	FragmentLikedUsersPlay Fragment = "likedUsersPlay"
	// FragmentLikedSports keeps games whose sport the current user has liked.
	FragmentLikedSports Fragment = "likedSports"
)

// currentUserMarker is replaced with a bound placeholder at render time. The
// current username itself is always passed as a parameter.
const currentUserMarker = ":username"

var fragmentSQL = map[Fragment]string{
	FragmentLikedUsersPlay: "EXISTS (SELECT 1 FROM team_players tp JOIN user_friends uf ON uf.friend_user_id = tp.user_id " +
		"WHERE uf.username = " + currentUserMarker + " AND (tp.team_name = g.team1_name OR tp.team_name = g.team2_name))",
	FragmentLikedSports: "EXISTS (SELECT 1 FROM user_liked_sports uls " +
		"WHERE uls.username = " + currentUserMarker + " AND uls.sport_name = t.sport_name)",
}

// CustomClause renders one social fragment with the current username bound
// for each marker occurrence.
type CustomClause struct {
	Fragment Fragment
	Username string
}

func (c CustomClause) ToSql() (string, []any, error) {
	sql, ok := fragmentSQL[c.Fragment]
	if !ok {
		return "", nil, fmt.Errorf("unknown query fragment %q", c.Fragment)
	}
	n := strings.Count(sql, currentUserMarker)
	args := make([]any, n)
	for i := range args {
		args[i] = c.Username
	}
	return strings.ReplaceAll(sql, currentUserMarker, "?"), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
