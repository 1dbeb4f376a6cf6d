package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate turns a 1-based page into an offset; a bad size falls back to
// DefaultPageSize.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// FromSkip treats skip as a zero-based page index, the way the admin panel
// sends it. The limit is clamped to 1..MaxPageSize.
func FromSkip(skip, limit int) (offset, size int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit < 1:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return skip * limit, limit
}
