package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchup/matchup/internal/query"
)

func TestParseSort_KnownKeys(t *testing.T) {
	for _, key := range []string{
		query.SortStartTimeAsc,
		query.SortStartTimeDesc,
		query.SortFreeSlotsAsc,
		query.SortFreeSlotsDesc,
	} {
		assert.Equal(t, key, query.ParseSort(key).Key())
	}
}

func TestParseSort_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, query.SortStartTimeAsc, query.ParseSort("").Key())
	assert.Equal(t, query.SortStartTimeAsc, query.ParseSort("bogus").Key())
}

func TestOrderBy_AlwaysCarriesCompositeKeyTieBreak(t *testing.T) {
	order := query.ParseSort(query.SortFreeSlotsDesc).OrderBy()

	assert.Equal(t, "free_slots DESC", order[0])
	assert.Contains(t, order, "g.team1_name ASC")
	assert.Contains(t, order, "g.start_time ASC")
	assert.Contains(t, order, "g.finish_time ASC")
}
