package shared

// Filter carries list query options shared by all repositories. Filters
// holds repository-specific keys; unknown keys are ignored.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default pagination and ordering
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}
