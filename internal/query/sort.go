package query

// Sort keys recognized at the boundary.
const (
	SortStartTimeAsc  = "startTimeAsc"
	SortStartTimeDesc = "startTimeDesc"
	SortFreeSlotsAsc  = "freeSlotsAsc"
	SortFreeSlotsDesc = "freeSlotsDesc"
)

// SortSpec is one of the recognized orderings. Every spec carries a stable
// composite-key tie-break so repeated queries with identical filters paginate
// reproducibly.
type SortSpec struct {
	key     string
	primary string
}

var sortSpecs = map[string]SortSpec{
	SortStartTimeAsc:  {key: SortStartTimeAsc, primary: "g.start_time ASC"},
	SortStartTimeDesc: {key: SortStartTimeDesc, primary: "g.start_time DESC"},
	SortFreeSlotsAsc:  {key: SortFreeSlotsAsc, primary: "free_slots ASC"},
	SortFreeSlotsDesc: {key: SortFreeSlotsDesc, primary: "free_slots DESC"},
}

// ParseSort maps a sort key to its spec; unknown or empty keys fall back to
// start time ascending.
func ParseSort(key string) SortSpec {
	if s, ok := sortSpecs[key]; ok {
		return s
	}
	return DefaultSort()
}

// DefaultSort is start time ascending.
func DefaultSort() SortSpec {
	return sortSpecs[SortStartTimeAsc]
}

// Key returns the boundary name of the ordering.
func (s SortSpec) Key() string {
	return s.key
}

// OrderBy renders the ordering clause, primary key expression first, then the
// composite-key tie-break.
func (s SortSpec) OrderBy() []string {
	return []string{
		s.primary,
		"g.team1_name ASC",
		"g.start_time ASC",
		"g.finish_time ASC",
	}
}
