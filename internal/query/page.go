package query

// Page returns the 1-indexed page window over an already-ordered result set.
// Out-of-range page numbers yield an empty page, never an error.
func Page[T any](items []T, pageNumber, pageSize int) []T {
	if pageNumber < 1 || pageSize < 1 {
		return nil
	}
	start := clamp((pageNumber-1)*pageSize, len(items))
	end := clamp(pageNumber*pageSize, len(items))
	return items[start:end]
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
